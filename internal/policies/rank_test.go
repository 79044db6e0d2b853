package policies

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"toaster/internal/types"
)

func TestRankBuildDerivedWins(t *testing.T) {
	priorities := map[types.LayerSourceID]int{1: 1}
	catalog := RankFor(types.LayerVersion{ID: 1, LayerSource: 1}, priorities)
	fromBuild := RankFor(types.LayerVersion{ID: 2, Build: 7}, priorities)

	require.True(t, Less(fromBuild, catalog))
	require.False(t, Less(catalog, fromBuild))
}

func TestRankAscendingPriority(t *testing.T) {
	priorities := map[types.LayerSourceID]int{1: 2, 2: 1}
	first := RankFor(types.LayerVersion{ID: 1, LayerSource: 2}, priorities)
	second := RankFor(types.LayerVersion{ID: 2, LayerSource: 1}, priorities)

	require.True(t, Less(first, second))
}

func TestRankUnknownSourceRanksLast(t *testing.T) {
	priorities := map[types.LayerSourceID]int{1: 9}
	known := RankFor(types.LayerVersion{ID: 5, LayerSource: 1}, priorities)
	unknown := RankFor(types.LayerVersion{ID: 1, LayerSource: 3}, priorities)

	require.True(t, Less(known, unknown))
}

func TestRankIDTieBreakIsTotal(t *testing.T) {
	priorities := map[types.LayerSourceID]int{1: 1}
	versions := []types.LayerVersion{
		{ID: 3, LayerSource: 1},
		{ID: 1, LayerSource: 1},
		{ID: 2, LayerSource: 1},
	}
	sort.Slice(versions, func(i, j int) bool {
		return Less(RankFor(versions[i], priorities), RankFor(versions[j], priorities))
	})
	require.Equal(t, types.LayerVersionID(1), versions[0].ID)
	require.Equal(t, types.LayerVersionID(2), versions[1].ID)
	require.Equal(t, types.LayerVersionID(3), versions[2].ID)
}

func TestPriorityMapKeepsLowestValue(t *testing.T) {
	mapped := PriorityMap([]types.ReleaseLayerSourcePriority{
		{Release: "r", LayerSource: 1, Priority: 5},
		{Release: "r", LayerSource: 1, Priority: 2},
		{Release: "r", LayerSource: 2, Priority: 1},
	})
	require.Equal(t, map[types.LayerSourceID]int{1: 2, 2: 1}, mapped)
}
