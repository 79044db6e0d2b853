package ports

import (
	"context"

	"toaster/internal/types"
)

// LayerIndexPort fetches catalog data from a remote layer index API.
// Transport concerns (timeouts, retries, status handling) live entirely
// in the implementation; callers only see fetched records or an error.
type LayerIndexPort interface {
	FetchBranches(ctx context.Context, apiURL string) ([]types.IndexBranch, error)
	FetchLayers(ctx context.Context, apiURL string) ([]types.IndexLayer, error)
	FetchLayerBranches(ctx context.Context, apiURL string) ([]types.IndexLayerBranch, error)
}
