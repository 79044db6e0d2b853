package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"toaster/internal/types"
)

const sampleCatalog = `
bitbake_versions:
  - name: "1.40.0"
layer_sources:
  - name: catalog
    sourcetype: local
    branches:
      - master
    layers:
      - name: meta-core
        versions:
          - branch: master
            commit: c0ffee
releases:
  - name: stable
    bitbake_version: "1.40.0"
    branch_name: master
    sources:
      - name: catalog
        priority: 1
projects:
  - name: demo
    release: stable
    layers:
      - meta-core@catalog
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalogFileSeedsStore(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, LoadCatalogFile(store, writeCatalog(t, sampleCatalog)))

	source, err := store.LayerSourceByName("catalog", types.SourceTypeLocal)
	require.NoError(t, err)

	priorities, err := store.PrioritiesForRelease("stable")
	require.NoError(t, err)
	require.Len(t, priorities, 1)
	require.Equal(t, source.ID, priorities[0].LayerSource)

	project, err := store.ProjectByName("demo")
	require.NoError(t, err)
	require.Equal(t, "stable", project.Release)

	links, err := store.ProjectLayers(project.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	version, err := store.LayerVersionByID(links[0].LayerCommit)
	require.NoError(t, err)
	require.Equal(t, "c0ffee", version.Commit)
}

func TestLoadCatalogFileRejectsBadReferences(t *testing.T) {
	err := LoadCatalogFile(NewMemStore(), writeCatalog(t, `
releases:
  - name: stable
    bitbake_version: "1.40.0"
    branch_name: master
    sources:
      - name: ghost
        priority: 1
`))
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	err = LoadCatalogFile(NewMemStore(), writeCatalog(t, `
layer_sources:
  - name: catalog
    sourcetype: local
projects:
  - name: demo
    release: stable
    layers:
      - not-a-ref
`))
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	err = LoadCatalogFile(NewMemStore(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
