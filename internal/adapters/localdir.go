package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/ports"
	"toaster/internal/types"
)

// LocalDirSync refreshes a local-type source by scanning the checkout
// root its APIURL points at. Any directory containing conf/layer.conf is
// treated as a layer; the directory name becomes the layer name.
type LocalDirSync struct {
	Catalog ports.CatalogPort
}

func NewLocalDirSync(catalog ports.CatalogPort) LocalDirSync {
	return LocalDirSync{Catalog: catalog}
}

func (s LocalDirSync) Sync(ctx context.Context, source types.LayerSource) error {
	if source.Sourcetype != types.SourceTypeLocal {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("local sync cannot refresh a %s source", source.Sourcetype))
	}
	root := source.APIURL
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("local source root is not a directory: %s", root)).
			WithCause(err)
	}

	found := 0
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		conf := filepath.Join(path, "conf", "layer.conf")
		if _, statErr := os.Stat(conf); statErr != nil {
			return nil
		}
		if err := s.registerLayer(source, path); err != nil {
			return err
		}
		found++
		// a layer directory does not nest further layers
		return filepath.SkipDir
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Str("source", source.Name).
		Int("layers", found).
		Msg("local source scan completed")
	return nil
}

func (s LocalDirSync) registerLayer(source types.LayerSource, dir string) error {
	name := filepath.Base(dir)
	layer, err := s.Catalog.LayerByName(name, source.ID)
	if err != nil {
		layer, err = s.Catalog.CreateLayer(types.Layer{
			Name:        name,
			LayerSource: source.ID,
		})
		if err != nil {
			return err
		}
	}
	versions, err := s.Catalog.LayerVersionsByLayerName(name)
	if err != nil {
		return err
	}
	for _, version := range versions {
		if version.Layer == layer.ID {
			return nil
		}
	}
	_, err = s.Catalog.CreateLayerVersion(types.LayerVersion{
		Layer:       layer.ID,
		LayerSource: source.ID,
		DirPath:     dir,
	})
	return err
}
