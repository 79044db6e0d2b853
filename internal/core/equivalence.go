package core

import (
	"context"
	"fmt"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/policies"
	"toaster/internal/ports"
	"toaster/internal/types"
)

// EquivalenceResolver computes, for a layer version and a project, the
// ordered set of layer versions that represent the same logical layer.
// It is a pure function of the catalog it is handed: it owns no state
// and never writes.
type EquivalenceResolver struct {
	Catalog ports.CatalogQueryPort
}

func NewEquivalenceResolver(catalog ports.CatalogQueryPort) EquivalenceResolver {
	return EquivalenceResolver{Catalog: catalog}
}

// Equivalents returns every layer version sharing the input's layer name
// that the project can see, ordered by precedence: versions produced by
// one of the project's own builds first, then catalog versions by
// ascending release priority, with the version ID as the final
// tie-break. The result is a property of the equivalence class, not of
// the seed version: any member yields the same sequence. The input
// version is always included, ranked last when its source carries no
// priority for the project's release.
func (r EquivalenceResolver) Equivalents(ctx context.Context, version types.LayerVersion, project types.Project) ([]types.LayerVersion, error) {
	if r.Catalog == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("equivalence resolver requires a catalog port")
	}
	assert.NotEmpty(ctx, project.Release, "project must reference a release")

	layer, err := r.Catalog.LayerByID(version.Layer)
	if err != nil {
		return nil, err
	}

	members, err := r.classMembers(ctx, layer.Name, project)
	if err != nil {
		return nil, err
	}

	seen := false
	for _, member := range members {
		if member.ID == version.ID {
			seen = true
			break
		}
	}
	if !seen {
		// The input belongs to its own class even when its source is not
		// prioritized for this release; it ranks after every prioritized
		// candidate.
		members = append(members, version)
	}

	priorities, err := r.priorityMap(project)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		return policies.Less(policies.RankFor(members[i], priorities), policies.RankFor(members[j], priorities))
	})

	log.Ctx(ctx).Debug().
		Str("layer", layer.Name).
		Str("project", project.Name).
		Int("members", len(members)).
		Msg("equivalence class resolved")
	return members, nil
}

// classMembers collects the candidate set for a layer name under a
// project: catalog versions from the release's prioritized sources plus
// build-derived versions from the project's own builds.
func (r EquivalenceResolver) classMembers(ctx context.Context, layerName string, project types.Project) ([]types.LayerVersion, error) {
	priorities, err := r.priorityMap(project)
	if err != nil {
		return nil, err
	}
	candidates, err := r.Catalog.LayerVersionsByLayerName(layerName)
	if err != nil {
		return nil, err
	}

	var members []types.LayerVersion
	for _, candidate := range candidates {
		if candidate.BuildDerived() {
			build, err := r.Catalog.BuildByID(candidate.Build)
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg(fmt.Sprintf("layer version %d references missing build %d", candidate.ID, candidate.Build)).
					WithCause(err)
			}
			if build.Project == project.ID {
				members = append(members, candidate)
			}
			continue
		}
		if _, ok := priorities[candidate.LayerSource]; ok {
			members = append(members, candidate)
		}
	}
	return members, nil
}

func (r EquivalenceResolver) priorityMap(project types.Project) (map[types.LayerSourceID]int, error) {
	rows, err := r.Catalog.PrioritiesForRelease(project.Release)
	if err != nil {
		return nil, err
	}
	return policies.PriorityMap(rows), nil
}
