package adapters

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/ports"
	"toaster/internal/types"
)

// LayerIndexSync refreshes a layerindex-type source from its remote API.
// Branches and layers it has seen before are kept; new records are
// folded in. The walk is not transactional, so a concurrent reader can
// observe a partially updated catalog.
type LayerIndexSync struct {
	Catalog ports.CatalogPort
	Index   ports.LayerIndexPort
}

func NewLayerIndexSync(catalog ports.CatalogPort, index ports.LayerIndexPort) LayerIndexSync {
	return LayerIndexSync{Catalog: catalog, Index: index}
}

func (s LayerIndexSync) Sync(ctx context.Context, source types.LayerSource) error {
	if source.Sourcetype != types.SourceTypeLayerIndex {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("layer index sync cannot refresh a %s source", source.Sourcetype))
	}

	branches, err := s.Index.FetchBranches(ctx, source.APIURL)
	if err != nil {
		return err
	}
	layers, err := s.Index.FetchLayers(ctx, source.APIURL)
	if err != nil {
		return err
	}
	layerBranches, err := s.Index.FetchLayerBranches(ctx, source.APIURL)
	if err != nil {
		return err
	}

	branchByIndexID := map[int]types.Branch{}
	for _, remote := range branches {
		created, err := s.Catalog.CreateBranch(types.Branch{
			LayerSource:      source.ID,
			Name:             remote.Name,
			ShortDescription: remote.ShortDescription,
		})
		if err != nil {
			return err
		}
		branchByIndexID[remote.ID] = created
	}

	layerByIndexID := map[int]types.Layer{}
	for _, remote := range layers {
		layer, err := s.Catalog.LayerByName(remote.Name, source.ID)
		if err != nil {
			layer, err = s.Catalog.CreateLayer(types.Layer{
				Name:        remote.Name,
				LayerSource: source.ID,
				VCSURL:      remote.VCSURL,
				Summary:     remote.Summary,
			})
			if err != nil {
				return err
			}
		}
		layerByIndexID[remote.ID] = layer
	}

	created := 0
	for _, remote := range layerBranches {
		layer, ok := layerByIndexID[remote.Layer]
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("layer branch references unknown layer " + strconv.Itoa(remote.Layer))
		}
		branch, ok := branchByIndexID[remote.Branch]
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("layer branch references unknown branch " + strconv.Itoa(remote.Branch))
		}
		exists, err := s.versionExists(layer, branch)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.Catalog.CreateLayerVersion(types.LayerVersion{
			Layer:           layer.ID,
			LayerSource:     source.ID,
			UpBranch:        branch.ID,
			Commit:          remote.Commit,
			DirPath:         remote.DirPath,
			BitbakeRequires: remote.MinBitbakeVersion,
		}); err != nil {
			return err
		}
		created++
	}

	log.Ctx(ctx).Info().
		Str("source", source.Name).
		Int("branches", len(branches)).
		Int("layers", len(layers)).
		Int("new_versions", created).
		Msg("layer index sync completed")
	return nil
}

func (s LayerIndexSync) versionExists(layer types.Layer, branch types.Branch) (bool, error) {
	versions, err := s.Catalog.LayerVersionsByLayerName(layer.Name)
	if err != nil {
		return false, err
	}
	for _, version := range versions {
		if version.Layer == layer.ID && version.UpBranch == branch.ID {
			return true, nil
		}
	}
	return false, nil
}
