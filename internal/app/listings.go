package app

import (
	"context"
	"sort"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"toaster/internal/core"
	"toaster/internal/types"
)

// Layers returns the project's layer listing: one row per layer name,
// backed by the winning layer version, flagged when the layer is
// effectively already added to the project.
func (s *Service) Layers(ctx context.Context, projectName string) ([]LayerRow, error) {
	if rows, ok := cachedRows[LayerRow](s.listings, "layers/"+projectName); ok {
		return rows, nil
	}
	project, err := s.Catalog.ProjectByName(projectName)
	if err != nil {
		return nil, err
	}
	compatible, err := s.View.CompatibleLayerVersions(ctx, project)
	if err != nil {
		return nil, err
	}
	present, err := s.presentVersionIDs(ctx, project)
	if err != nil {
		return nil, err
	}

	rows := make([]LayerRow, 0, len(compatible))
	for _, version := range compatible {
		layer, err := s.Catalog.LayerByID(version.Layer)
		if err != nil {
			return nil, err
		}
		source, err := s.sourceLabel(version)
		if err != nil {
			return nil, err
		}
		rows = append(rows, LayerRow{
			LayerVersion: version.ID,
			Name:         layer.Name,
			Summary:      layer.Summary,
			VCSURL:       layer.VCSURL,
			Source:       source,
			Commit:       version.Commit,
			InProject:    present[version.ID],
		})
	}
	s.listings.Set("layers/"+projectName, rows, gocache.DefaultExpiration)
	return rows, nil
}

// Machines returns every machine provided by the project's compatible
// layer versions, ordered by machine name.
func (s *Service) Machines(ctx context.Context, projectName string) ([]MachineRow, error) {
	if rows, ok := cachedRows[MachineRow](s.listings, "machines/"+projectName); ok {
		return rows, nil
	}
	project, err := s.Catalog.ProjectByName(projectName)
	if err != nil {
		return nil, err
	}
	compatible, err := s.compatibleIDs(ctx, project)
	if err != nil {
		return nil, err
	}
	machines, err := s.Catalog.Machines()
	if err != nil {
		return nil, err
	}

	var rows []MachineRow
	for _, machine := range machines {
		if !compatible[machine.LayerVersion] {
			continue
		}
		layerName, err := s.layerNameFor(machine.LayerVersion)
		if err != nil {
			return nil, err
		}
		rows = append(rows, MachineRow{
			LayerVersion: machine.LayerVersion,
			Name:         machine.Name,
			Description:  machine.Description,
			Layer:        layerName,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].LayerVersion < rows[j].LayerVersion
	})
	s.listings.Set("machines/"+projectName, rows, gocache.DefaultExpiration)
	return rows, nil
}

// Recipes returns every recipe provided by the project's compatible
// layer versions, ordered by recipe name. The highest version among
// same-name recipes is marked newest.
func (s *Service) Recipes(ctx context.Context, projectName string) ([]RecipeRow, error) {
	if rows, ok := cachedRows[RecipeRow](s.listings, "recipes/"+projectName); ok {
		return rows, nil
	}
	project, err := s.Catalog.ProjectByName(projectName)
	if err != nil {
		return nil, err
	}
	compatible, err := s.compatibleIDs(ctx, project)
	if err != nil {
		return nil, err
	}
	recipes, err := s.Catalog.Recipes()
	if err != nil {
		return nil, err
	}

	var rows []RecipeRow
	for _, recipe := range recipes {
		if !compatible[recipe.LayerVersion] {
			continue
		}
		layerName, err := s.layerNameFor(recipe.LayerVersion)
		if err != nil {
			return nil, err
		}
		rows = append(rows, RecipeRow{
			LayerVersion: recipe.LayerVersion,
			Name:         recipe.Name,
			Version:      recipe.Version,
			Summary:      recipe.Summary,
			Layer:        layerName,
			FilePath:     recipe.FilePath,
		})
	}
	markNewest(rows)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].LayerVersion < rows[j].LayerVersion
	})

	log.Ctx(ctx).Debug().Str("project", projectName).Int("recipes", len(rows)).Msg("recipe listing computed")
	s.listings.Set("recipes/"+projectName, rows, gocache.DefaultExpiration)
	return rows, nil
}

// Equivalents returns the full, ordered equivalence class of a layer
// version under a project.
func (s *Service) Equivalents(ctx context.Context, projectName string, versionID types.LayerVersionID) ([]EquivalentRow, error) {
	project, err := s.Catalog.ProjectByName(projectName)
	if err != nil {
		return nil, err
	}
	version, err := s.Catalog.LayerVersionByID(versionID)
	if err != nil {
		return nil, err
	}
	members, err := s.Resolver.Equivalents(ctx, version, project)
	if err != nil {
		return nil, err
	}

	rows := make([]EquivalentRow, 0, len(members))
	for _, member := range members {
		layerName, err := s.layerNameFor(member.ID)
		if err != nil {
			return nil, err
		}
		source, err := s.sourceLabel(member)
		if err != nil {
			return nil, err
		}
		rows = append(rows, EquivalentRow{
			LayerVersion: member.ID,
			Layer:        layerName,
			Source:       source,
			Commit:       member.Commit,
			BuildDerived: member.BuildDerived(),
		})
	}
	return rows, nil
}

// LayerDependencies resolves a layer version's direct dependencies, each
// collapsed to the head of its equivalence class for the project. The
// dependency graph is checked for cycles first so a malformed catalog
// errors instead of looping.
func (s *Service) LayerDependencies(ctx context.Context, projectName string, versionID types.LayerVersionID) ([]DependencyRow, error) {
	project, err := s.Catalog.ProjectByName(projectName)
	if err != nil {
		return nil, err
	}
	if _, err := core.TransitiveDependencies(s.Catalog, versionID); err != nil {
		return nil, err
	}
	deps, err := s.Catalog.DependenciesOf(versionID)
	if err != nil {
		return nil, err
	}

	var rows []DependencyRow
	for _, dep := range deps {
		version, err := s.Catalog.LayerVersionByID(dep)
		if err != nil {
			return nil, err
		}
		members, err := s.Resolver.Equivalents(ctx, version, project)
		if err != nil {
			return nil, err
		}
		head := members[0]
		layerName, err := s.layerNameFor(head.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, DependencyRow{LayerVersion: head.ID, Layer: layerName})
	}
	return rows, nil
}

func (s *Service) compatibleIDs(ctx context.Context, project types.Project) (map[types.LayerVersionID]bool, error) {
	compatible, err := s.View.CompatibleLayerVersions(ctx, project)
	if err != nil {
		return nil, err
	}
	out := make(map[types.LayerVersionID]bool, len(compatible))
	for _, version := range compatible {
		out[version.ID] = true
	}
	return out, nil
}

func (s *Service) presentVersionIDs(ctx context.Context, project types.Project) (map[types.LayerVersionID]bool, error) {
	present, err := s.View.ProjectLayerEquivalentSet(ctx, project)
	if err != nil {
		return nil, err
	}
	out := make(map[types.LayerVersionID]bool, len(present))
	for _, version := range present {
		out[version.ID] = true
	}
	return out, nil
}

func (s *Service) layerNameFor(versionID types.LayerVersionID) (string, error) {
	version, err := s.Catalog.LayerVersionByID(versionID)
	if err != nil {
		return "", err
	}
	layer, err := s.Catalog.LayerByID(version.Layer)
	if err != nil {
		return "", err
	}
	return layer.Name, nil
}

func (s *Service) sourceLabel(version types.LayerVersion) (string, error) {
	if version.BuildDerived() {
		return "build", nil
	}
	source, err := s.Catalog.LayerSourceByID(version.LayerSource)
	if err != nil {
		return "", err
	}
	return source.Name, nil
}

// markNewest flags, per recipe name, the row with the highest version.
func markNewest(rows []RecipeRow) {
	cache := core.NewVersionCache()
	newest := map[string]int{}
	for i, row := range rows {
		current, ok := newest[row.Name]
		if !ok || cache.CompareRecipeVersions(row.Version, rows[current].Version) > 0 {
			newest[row.Name] = i
		}
	}
	for _, i := range newest {
		rows[i].Newest = true
	}
}

func cachedRows[T any](cache *gocache.Cache, key string) ([]T, bool) {
	value, found := cache.Get(key)
	if !found {
		return nil, false
	}
	rows, ok := value.([]T)
	return rows, ok
}
