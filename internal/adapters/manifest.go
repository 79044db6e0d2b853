package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"toaster/internal/ports"
	"toaster/internal/types"
)

// ManifestSync refreshes an imported-type source from the YAML layer
// manifest its APIURL points at.
type ManifestSync struct {
	Catalog ports.CatalogPort
}

func NewManifestSync(catalog ports.CatalogPort) ManifestSync {
	return ManifestSync{Catalog: catalog}
}

func (s ManifestSync) Sync(ctx context.Context, source types.LayerSource) error {
	if source.Sourcetype != types.SourceTypeImported {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("manifest sync cannot refresh a %s source", source.Sourcetype))
	}
	manifest, err := loadManifest(source.APIURL)
	if err != nil {
		return err
	}
	if err := insertManifestLayers(s.Catalog, source, manifest.Layers); err != nil {
		return err
	}
	log.Ctx(ctx).Info().
		Str("source", source.Name).
		Int("layers", len(manifest.Layers)).
		Msg("manifest sync completed")
	return nil
}

func loadManifest(path string) (types.ManifestFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.ManifestFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read layer manifest").
			WithCause(err)
	}
	var manifest types.ManifestFile
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return types.ManifestFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse layer manifest").
			WithCause(err)
	}
	return manifest, nil
}

// insertManifestLayers folds manifest layer entries into the catalog
// under the given source. Dependency references are resolved in a second
// pass so a layer can depend on one defined later in the file.
func insertManifestLayers(catalog ports.CatalogPort, source types.LayerSource, layers []types.ManifestLayer) error {
	type pendingDep struct {
		version types.LayerVersionID
		layer   string
	}
	firstVersion := map[string]types.LayerVersionID{}
	var pending []pendingDep

	for _, entry := range layers {
		if entry.Name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("manifest layer without a name")
		}
		layer, err := catalog.LayerByName(entry.Name, source.ID)
		if err != nil {
			layer, err = catalog.CreateLayer(types.Layer{
				Name:        entry.Name,
				LayerSource: source.ID,
				VCSURL:      entry.VCSURL,
				Summary:     entry.Summary,
			})
			if err != nil {
				return err
			}
		}
		for _, versionEntry := range entry.Versions {
			var branch types.Branch
			if versionEntry.Branch != "" {
				branch, err = catalog.CreateBranch(types.Branch{
					LayerSource: source.ID,
					Name:        versionEntry.Branch,
				})
				if err != nil {
					return err
				}
			}
			version, err := catalog.CreateLayerVersion(types.LayerVersion{
				Layer:           layer.ID,
				LayerSource:     source.ID,
				UpBranch:        branch.ID,
				Commit:          versionEntry.Commit,
				DirPath:         versionEntry.DirPath,
				BitbakeRequires: versionEntry.BitbakeRequires,
			})
			if err != nil {
				return err
			}
			if _, ok := firstVersion[entry.Name]; !ok {
				firstVersion[entry.Name] = version.ID
			}
			for _, recipe := range versionEntry.Recipes {
				if _, err := catalog.CreateRecipe(types.Recipe{
					Name:         recipe.Name,
					Version:      recipe.Version,
					Summary:      recipe.Summary,
					FilePath:     recipe.FilePath,
					LayerVersion: version.ID,
				}); err != nil {
					return err
				}
			}
			for _, machine := range versionEntry.Machines {
				if _, err := catalog.CreateMachine(types.Machine{
					Name:         machine.Name,
					Description:  machine.Description,
					LayerVersion: version.ID,
				}); err != nil {
					return err
				}
			}
			for _, dep := range versionEntry.Depends {
				pending = append(pending, pendingDep{version: version.ID, layer: dep})
			}
		}
	}

	for _, dep := range pending {
		target, ok := firstVersion[dep.layer]
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("dependency on unknown layer: %s", dep.layer))
		}
		if err := catalog.CreateDependency(types.LayerVersionDependency{
			LayerVersion: dep.version,
			DependsOn:    target,
		}); err != nil {
			return err
		}
	}
	return nil
}
