package core

import (
	"context"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/policies"
	"toaster/internal/ports"
	"toaster/internal/types"
)

// ProjectCompatibilityView answers which layer versions apply to a
// project: the deduplicated per-layer-name listing a dashboard shows,
// and the expanded equivalence set of the layers a project has added.
type ProjectCompatibilityView struct {
	Catalog  ports.CatalogQueryPort
	Resolver EquivalenceResolver
}

func NewProjectCompatibilityView(catalog ports.CatalogQueryPort) ProjectCompatibilityView {
	return ProjectCompatibilityView{
		Catalog:  catalog,
		Resolver: NewEquivalenceResolver(catalog),
	}
}

// CompatibleLayerVersions returns one representative layer version per
// layer name visible to the project: catalog versions from the release's
// prioritized sources plus build-derived versions from the project's own
// builds, collapsed per name to the highest-precedence member. Versions
// whose bitbake requirement the release's build tool does not satisfy
// are excluded. Results order by layer name, ID as tie-break.
func (v ProjectCompatibilityView) CompatibleLayerVersions(ctx context.Context, project types.Project) ([]types.LayerVersion, error) {
	assert.NotEmpty(ctx, project.Release, "project must reference a release")

	release, err := v.Catalog.ReleaseByName(project.Release)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("project references unknown release").
			WithCause(err)
	}
	rows, err := v.Catalog.PrioritiesForRelease(project.Release)
	if err != nil {
		return nil, err
	}
	priorities := policies.PriorityMap(rows)

	all, err := v.Catalog.LayerVersions()
	if err != nil {
		return nil, err
	}

	cache := NewVersionCache()
	best := map[string]types.LayerVersion{}
	for _, candidate := range all {
		if candidate.BuildDerived() {
			build, err := v.Catalog.BuildByID(candidate.Build)
			if err != nil {
				return nil, err
			}
			if build.Project != project.ID {
				continue
			}
		} else if _, ok := priorities[candidate.LayerSource]; !ok {
			continue
		}

		compatible, err := cache.SatisfiesBitbake(candidate.BitbakeRequires, release.BitbakeVersion)
		if err != nil {
			return nil, err
		}
		if !compatible {
			continue
		}

		layer, err := v.Catalog.LayerByID(candidate.Layer)
		if err != nil {
			return nil, err
		}
		current, ok := best[layer.Name]
		if !ok || policies.Less(policies.RankFor(candidate, priorities), policies.RankFor(current, priorities)) {
			best[layer.Name] = candidate
		}
	}

	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]types.LayerVersion, 0, len(names))
	for _, name := range names {
		out = append(out, best[name])
	}

	log.Ctx(ctx).Debug().
		Str("project", project.Name).
		Int("layers", len(out)).
		Msg("compatible layer versions computed")
	return out, nil
}

// ProjectLayerEquivalentSet expands the project's added layer versions to
// their full equivalence classes and unions the results. Dependent views
// use it to test whether a layer version is effectively already present
// in the project, even when the exact row differs (a build-local copy vs
// the catalog original). Results order by version ID.
func (v ProjectCompatibilityView) ProjectLayerEquivalentSet(ctx context.Context, project types.Project) ([]types.LayerVersion, error) {
	assert.NotEmpty(ctx, project.Release, "project must reference a release")

	links, err := v.Catalog.ProjectLayers(project.ID)
	if err != nil {
		return nil, err
	}

	set := map[types.LayerVersionID]types.LayerVersion{}
	for _, link := range links {
		version, err := v.Catalog.LayerVersionByID(link.LayerCommit)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("project layer references missing layer version").
				WithCause(err)
		}
		members, err := v.Resolver.Equivalents(ctx, version, project)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			set[member.ID] = member
		}
	}

	out := make([]types.LayerVersion, 0, len(set))
	for _, member := range set {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
