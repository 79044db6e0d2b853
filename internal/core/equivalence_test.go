package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"toaster/internal/adapters"
	"toaster/internal/types"
)

// lvFixture is the shared catalog setup: one local source with priority
// 1 on the release, one layer with one version, and a project that has
// added it. A spoof layer under the same source must never leak into
// results.
type lvFixture struct {
	store   *adapters.MemStore
	source  types.LayerSource
	layer   types.Layer
	branch  types.Branch
	lver    types.LayerVersion
	project types.Project
}

func setupLayerVersionFixture(t *testing.T) *lvFixture {
	t.Helper()
	store := adapters.NewMemStore()

	source, err := store.CreateLayerSource(types.LayerSource{
		Name:       "dummy-layersource",
		Sourcetype: types.SourceTypeLocal,
	})
	require.NoError(t, err)

	require.NoError(t, store.CreateBitbakeVersion(types.BitbakeVersion{
		Name:   "1.40.0",
		GitURL: "git://git.openembedded.org/bitbake",
		Branch: "master",
	}))
	require.NoError(t, store.CreateRelease(types.Release{
		Name:           "default-release",
		BitbakeVersion: "1.40.0",
		BranchName:     "master",
	}))
	require.NoError(t, store.CreatePriority(types.ReleaseLayerSourcePriority{
		Release:     "default-release",
		LayerSource: source.ID,
		Priority:    1,
	}))

	layer, err := store.CreateLayer(types.Layer{Name: "meta-testlayer", LayerSource: source.ID})
	require.NoError(t, err)
	branch, err := store.CreateBranch(types.Branch{LayerSource: source.ID, Name: "master"})
	require.NoError(t, err)
	lver, err := store.CreateLayerVersion(types.LayerVersion{
		Layer:       layer.ID,
		LayerSource: source.ID,
		UpBranch:    branch.ID,
	})
	require.NoError(t, err)

	spoof, err := store.CreateLayer(types.Layer{Name: "meta-notvalid", LayerSource: source.ID})
	require.NoError(t, err)
	_, err = store.CreateLayerVersion(types.LayerVersion{
		Layer:       spoof.ID,
		LayerSource: source.ID,
		UpBranch:    branch.ID,
	})
	require.NoError(t, err)

	project, err := store.CreateProject(types.Project{Name: "test-project", Release: "default-release"})
	require.NoError(t, err)
	require.NoError(t, store.CreateProjectLayer(types.ProjectLayer{
		Project:     project.ID,
		LayerCommit: lver.ID,
	}))

	return &lvFixture{
		store:   store,
		source:  source,
		layer:   layer,
		branch:  branch,
		lver:    lver,
		project: project,
	}
}

func versionIDs(versions []types.LayerVersion) []types.LayerVersionID {
	out := make([]types.LayerVersionID, 0, len(versions))
	for _, version := range versions {
		out = append(out, version.ID)
	}
	return out
}

func TestEquivalentsSingleSource(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	members, err := resolver.Equivalents(t.Context(), fx.lver, fx.project)
	require.NoError(t, err)
	require.Equal(t, []types.LayerVersionID{fx.lver.ID}, versionIDs(members))
}

func TestEquivalentsDualSource(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	source2, err := fx.store.CreateLayerSource(types.LayerSource{
		Name:       "dummy-layersource2",
		Sourcetype: types.SourceTypeLocal,
		APIURL:     "test",
	})
	require.NoError(t, err)
	require.NoError(t, fx.store.CreatePriority(types.ReleaseLayerSourcePriority{
		Release:     "default-release",
		LayerSource: source2.ID,
		Priority:    2,
	}))
	layer2, err := fx.store.CreateLayer(types.Layer{Name: "meta-testlayer", LayerSource: source2.ID})
	require.NoError(t, err)
	lver2, err := fx.store.CreateLayerVersion(types.LayerVersion{
		Layer:       layer2.ID,
		LayerSource: source2.ID,
	})
	require.NoError(t, err)

	// both versions, priority 1 source first
	members, err := resolver.Equivalents(t.Context(), fx.lver, fx.project)
	require.NoError(t, err)
	require.Equal(t, []types.LayerVersionID{fx.lver.ID, lver2.ID}, versionIDs(members))

	// the class is seed-independent
	fromOther, err := resolver.Equivalents(t.Context(), lver2, fx.project)
	require.NoError(t, err)
	if diff := cmp.Diff(members, fromOther); diff != "" {
		t.Fatalf("class differs by seed (-want +got):\n%s", diff)
	}
}

func TestEquivalentsBuildVersionSortsFirst(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	build, err := fx.store.CreateBuild(types.Build{
		Project: fx.project.ID,
		Outcome: types.BuildOutcomeSucceeded,
	})
	require.NoError(t, err)
	lvb, err := fx.store.CreateLayerVersion(types.LayerVersion{
		Layer:  fx.layer.ID,
		Build:  build.ID,
		Commit: "deadbeef",
	})
	require.NoError(t, err)

	members, err := resolver.Equivalents(t.Context(), fx.lver, fx.project)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, []types.LayerVersionID{lvb.ID, fx.lver.ID}, versionIDs(members))

	fromBuild, err := resolver.Equivalents(t.Context(), lvb, fx.project)
	require.NoError(t, err)
	if diff := cmp.Diff(members, fromBuild); diff != "" {
		t.Fatalf("class differs by seed (-want +got):\n%s", diff)
	}
}

func TestEquivalentsBuildFromOtherProjectExcluded(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	other, err := fx.store.CreateProject(types.Project{Name: "other", Release: "default-release"})
	require.NoError(t, err)
	build, err := fx.store.CreateBuild(types.Build{Project: other.ID})
	require.NoError(t, err)
	_, err = fx.store.CreateLayerVersion(types.LayerVersion{Layer: fx.layer.ID, Build: build.ID})
	require.NoError(t, err)

	members, err := resolver.Equivalents(t.Context(), fx.lver, fx.project)
	require.NoError(t, err)
	require.Equal(t, []types.LayerVersionID{fx.lver.ID}, versionIDs(members))
}

func TestEquivalentsSingletonFallbackWithoutPriorities(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	require.NoError(t, fx.store.CreateRelease(types.Release{
		Name:           "bare-release",
		BitbakeVersion: "1.40.0",
		BranchName:     "master",
	}))
	project, err := fx.store.CreateProject(types.Project{Name: "bare", Release: "bare-release"})
	require.NoError(t, err)

	members, err := resolver.Equivalents(t.Context(), fx.lver, project)
	require.NoError(t, err)
	require.Equal(t, []types.LayerVersionID{fx.lver.ID}, versionIDs(members))
}

func TestEquivalentsUnprioritizedSeedRanksLast(t *testing.T) {
	fx := setupLayerVersionFixture(t)
	resolver := NewEquivalenceResolver(fx.store)

	orphanSource, err := fx.store.CreateLayerSource(types.LayerSource{
		Name:       "unattached",
		Sourcetype: types.SourceTypeImported,
	})
	require.NoError(t, err)
	orphanLayer, err := fx.store.CreateLayer(types.Layer{Name: "meta-testlayer", LayerSource: orphanSource.ID})
	require.NoError(t, err)
	orphan, err := fx.store.CreateLayerVersion(types.LayerVersion{
		Layer:       orphanLayer.ID,
		LayerSource: orphanSource.ID,
	})
	require.NoError(t, err)

	members, err := resolver.Equivalents(t.Context(), orphan, fx.project)
	require.NoError(t, err)
	require.Equal(t, []types.LayerVersionID{fx.lver.ID, orphan.ID}, versionIDs(members))
}

func TestEquivalentsRequiresCatalog(t *testing.T) {
	resolver := EquivalenceResolver{}
	_, err := resolver.Equivalents(t.Context(), types.LayerVersion{}, types.Project{Release: "r"})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// The class must contain every seed and read the same from any member,
// whatever the mix of sources, priorities, and build versions.
func TestEquivalentsClassProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := adapters.NewMemStore()
		require.NoError(rt, store.CreateRelease(types.Release{
			Name:           "release",
			BitbakeVersion: "1.40.0",
			BranchName:     "master",
		}))
		project, err := store.CreateProject(types.Project{Name: "p", Release: "release"})
		require.NoError(rt, err)

		sourceCount := rapid.IntRange(1, 4).Draw(rt, "sources")
		var sources []types.LayerSource
		for i := 0; i < sourceCount; i++ {
			source, err := store.CreateLayerSource(types.LayerSource{
				Name:       "src-" + string(rune('a'+i)),
				Sourcetype: types.SourceTypeLocal,
			})
			require.NoError(rt, err)
			priority := rapid.IntRange(1, 9).Draw(rt, "priority")
			require.NoError(rt, store.CreatePriority(types.ReleaseLayerSourcePriority{
				Release:     "release",
				LayerSource: source.ID,
				Priority:    priority,
			}))
			sources = append(sources, source)
		}

		var members []types.LayerVersion
		for i, source := range sources {
			layer, err := store.CreateLayer(types.Layer{Name: "meta-prop", LayerSource: source.ID})
			require.NoError(rt, err)
			versionCount := rapid.IntRange(1, 3).Draw(rt, "versions")
			for j := 0; j < versionCount; j++ {
				version, err := store.CreateLayerVersion(types.LayerVersion{
					Layer:       layer.ID,
					LayerSource: source.ID,
				})
				require.NoError(rt, err)
				members = append(members, version)
			}
			if i == 0 && rapid.Bool().Draw(rt, "withBuild") {
				build, err := store.CreateBuild(types.Build{Project: project.ID})
				require.NoError(rt, err)
				version, err := store.CreateLayerVersion(types.LayerVersion{Layer: layer.ID, Build: build.ID})
				require.NoError(rt, err)
				members = append(members, version)
			}
		}

		resolver := NewEquivalenceResolver(store)
		var reference []types.LayerVersionID
		for i, seed := range members {
			class, err := resolver.Equivalents(t.Context(), seed, project)
			require.NoError(rt, err)

			ids := versionIDs(class)
			found := false
			for _, id := range ids {
				if id == seed.ID {
					found = true
					break
				}
			}
			require.True(rt, found, "seed %d missing from its own class", seed.ID)

			if i == 0 {
				reference = ids
				continue
			}
			require.Equal(rt, reference, ids, "class differs by seed")
		}
	})
}
