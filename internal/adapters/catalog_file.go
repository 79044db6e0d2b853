package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"toaster/internal/ports"
	"toaster/internal/shared"
	"toaster/internal/types"
)

// LoadCatalogFile seeds a catalog store from a YAML catalog file. The
// CLI uses it in place of a persistent store; tests use it for fixtures.
func LoadCatalogFile(catalog ports.CatalogPort, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read catalog file").
			WithCause(err)
	}
	var file types.CatalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse catalog file").
			WithCause(err)
	}
	return seedCatalog(catalog, file)
}

func seedCatalog(catalog ports.CatalogPort, file types.CatalogFile) error {
	for _, bbv := range file.BitbakeVersions {
		if err := catalog.CreateBitbakeVersion(types.BitbakeVersion{
			Name:    bbv.Name,
			GitURL:  bbv.GitURL,
			Branch:  bbv.Branch,
			DirPath: bbv.DirPath,
		}); err != nil {
			return err
		}
	}

	sourceByName := map[string]types.LayerSource{}
	for _, entry := range file.Sources {
		source, err := catalog.CreateLayerSource(types.LayerSource{
			Name:       entry.Name,
			Sourcetype: entry.Sourcetype,
			APIURL:     entry.APIURL,
		})
		if err != nil {
			return err
		}
		sourceByName[entry.Name] = source
		for _, branch := range entry.Branches {
			if _, err := catalog.CreateBranch(types.Branch{
				LayerSource: source.ID,
				Name:        branch,
			}); err != nil {
				return err
			}
		}
		if err := insertManifestLayers(catalog, source, entry.Layers); err != nil {
			return err
		}
	}

	for _, entry := range file.Releases {
		if err := catalog.CreateRelease(types.Release{
			Name:           entry.Name,
			BitbakeVersion: entry.BitbakeVersion,
			BranchName:     entry.BranchName,
			Description:    entry.Description,
		}); err != nil {
			return err
		}
		for _, attached := range entry.Sources {
			source, ok := sourceByName[attached.Name]
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("release %s references unknown source %s", entry.Name, attached.Name))
			}
			if err := catalog.CreatePriority(types.ReleaseLayerSourcePriority{
				Release:     entry.Name,
				LayerSource: source.ID,
				Priority:    attached.Priority,
			}); err != nil {
				return err
			}
		}
	}

	for _, entry := range file.Projects {
		project, err := catalog.CreateProject(types.Project{
			Name:    entry.Name,
			Release: entry.Release,
		})
		if err != nil {
			return err
		}
		for _, ref := range entry.Layers {
			version, err := resolveLayerRef(catalog, sourceByName, ref)
			if err != nil {
				return err
			}
			if err := catalog.CreateProjectLayer(types.ProjectLayer{
				Project:     project.ID,
				LayerCommit: version,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveLayerRef maps a "layer@source" reference to the first layer
// version of that layer under that source.
func resolveLayerRef(catalog ports.CatalogQueryPort, sources map[string]types.LayerSource, ref string) (types.LayerVersionID, error) {
	layerName, sourceName, ok := shared.SplitLayerRef(ref)
	if !ok {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid layer reference: %s", ref))
	}
	source, ok := sources[sourceName]
	if !ok {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("layer reference names unknown source: %s", ref))
	}
	layer, err := catalog.LayerByName(layerName, source.ID)
	if err != nil {
		return 0, err
	}
	versions, err := catalog.LayerVersionsByLayerName(layerName)
	if err != nil {
		return 0, err
	}
	for _, version := range versions {
		if version.Layer == layer.ID {
			return version.ID, nil
		}
	}
	return 0, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no layer versions for reference: %s", ref))
}
