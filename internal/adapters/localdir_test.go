package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"toaster/internal/types"
)

func writeLayerTree(t *testing.T, root string, layers ...string) {
	t.Helper()
	for _, layer := range layers {
		conf := filepath.Join(root, layer, "conf")
		require.NoError(t, os.MkdirAll(conf, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(conf, "layer.conf"), []byte("# layer\n"), 0o644))
	}
}

func TestLocalDirSyncRegistersLayers(t *testing.T) {
	root := t.TempDir()
	writeLayerTree(t, root, "meta-one", "meta-two")
	// directories without conf/layer.conf are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(root, "downloads"), 0o755))

	store := NewMemStore()
	source, err := store.CreateLayerSource(types.LayerSource{
		Name:       "checkout",
		Sourcetype: types.SourceTypeLocal,
		APIURL:     root,
	})
	require.NoError(t, err)

	sync := NewLocalDirSync(store)
	require.NoError(t, sync.Sync(context.Background(), source))

	layers, err := store.LayersBySource(source.ID)
	require.NoError(t, err)
	require.Len(t, layers, 2)

	versions, err := store.LayerVersionsByLayerName("meta-one")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	require.Equal(t, filepath.Join(root, "meta-one"), versions[0].DirPath)

	// rescanning the same tree is a no-op
	require.NoError(t, sync.Sync(context.Background(), source))
	all, err := store.LayerVersions()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestLocalDirSyncMissingRoot(t *testing.T) {
	store := NewMemStore()
	source, err := store.CreateLayerSource(types.LayerSource{
		Name:       "checkout",
		Sourcetype: types.SourceTypeLocal,
		APIURL:     filepath.Join(t.TempDir(), "gone"),
	})
	require.NoError(t, err)

	err = NewLocalDirSync(store).Sync(context.Background(), source)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLocalDirSyncRejectsWrongSourcetype(t *testing.T) {
	err := NewLocalDirSync(NewMemStore()).Sync(context.Background(), types.LayerSource{
		Sourcetype: types.SourceTypeImported,
	})
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
