package app

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"toaster/internal/adapters"
	"toaster/internal/core"
	"toaster/internal/ports"
	"toaster/internal/types"
)

const listingExpiration = 10 * time.Minute
const listingCleanupInterval = 30 * time.Minute

// Service wires the catalog port, the per-sourcetype sync capabilities,
// and the resolution views into the use-cases the CLI and any other
// presentation layer consume. Listing results are cached per project
// and flushed whenever a sync changes the catalog.
type Service struct {
	Catalog  ports.CatalogPort
	Syncers  map[types.SourceType]ports.SourceSyncPort
	Resolver core.EquivalenceResolver
	View     core.ProjectCompatibilityView
	Clock    func() time.Time

	listings *gocache.Cache
}

func NewService(catalog ports.CatalogPort) *Service {
	index := adapters.NewLayerIndexClient(0, 0, 0)
	return &Service{
		Catalog: catalog,
		Syncers: map[types.SourceType]ports.SourceSyncPort{
			types.SourceTypeLayerIndex: adapters.NewLayerIndexSync(catalog, index),
			types.SourceTypeImported:   adapters.NewManifestSync(catalog),
			types.SourceTypeLocal:      adapters.NewLocalDirSync(catalog),
		},
		Resolver: core.NewEquivalenceResolver(catalog),
		View:     core.NewProjectCompatibilityView(catalog),
		Clock:    time.Now,
		listings: gocache.New(listingExpiration, listingCleanupInterval),
	}
}
