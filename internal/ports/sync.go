package ports

import (
	"context"

	"toaster/internal/types"
)

// SourceSyncPort refreshes one layer source's branches, layers, and layer
// versions from its backing origin. Each source type has its own
// implementation: network fetch for layerindex sources, a manifest read
// for imported sources, a filesystem scan for local checkouts.
//
// Sync is not transactional: a reader running concurrently can observe a
// half-updated catalog. Callers needing a consistent view must serialize
// sync against resolution.
type SourceSyncPort interface {
	Sync(ctx context.Context, source types.LayerSource) error
}
