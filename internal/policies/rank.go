// Package policies holds the ordering rules that decide which layer
// version wins when several sources provide the same logical layer.
package policies

import (
	"math"

	"toaster/internal/types"
)

// UnknownPriority ranks a catalog version whose source carries no
// priority for the release in question. It sorts after every
// prioritized source.
const UnknownPriority = math.MaxInt

// Rank is the composite ordering key for one layer version within an
// equivalence class. Build-derived versions outrank every catalog
// version; catalog versions order by ascending release priority; the
// version ID breaks remaining ties so the order is total.
type Rank struct {
	BuildDerived bool
	Priority     int
	Version      types.LayerVersionID
}

// RankFor computes the ordering key for a version given the release's
// source-to-priority mapping.
func RankFor(version types.LayerVersion, priorities map[types.LayerSourceID]int) Rank {
	if version.BuildDerived() {
		return Rank{BuildDerived: true, Version: version.ID}
	}
	priority, ok := priorities[version.LayerSource]
	if !ok {
		priority = UnknownPriority
	}
	return Rank{Priority: priority, Version: version.ID}
}

// Less reports whether a takes precedence over b.
func Less(a, b Rank) bool {
	if a.BuildDerived != b.BuildDerived {
		return a.BuildDerived
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Version < b.Version
}

// PriorityMap flattens release priority rows into a per-source lookup.
func PriorityMap(rows []types.ReleaseLayerSourcePriority) map[types.LayerSourceID]int {
	mapped := make(map[types.LayerSourceID]int, len(rows))
	for _, row := range rows {
		existing, ok := mapped[row.LayerSource]
		if ok && existing <= row.Priority {
			continue
		}
		mapped[row.LayerSource] = row.Priority
	}
	return mapped
}
