package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/types"
)

// Sync refreshes one layer source from its backing origin, dispatching
// to the sync capability registered for its source type.
func (s *Service) Sync(ctx context.Context, name string, sourcetype types.SourceType) error {
	source, err := s.Catalog.LayerSourceByName(name, sourcetype)
	if err != nil {
		return err
	}
	syncer, ok := s.Syncers[source.Sourcetype]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no sync capability for source type %s", source.Sourcetype))
	}
	if err := syncer.Sync(ctx, source); err != nil {
		return err
	}
	s.listings.Flush()
	log.Ctx(ctx).Info().Str("source", source.Name).Msg("source sync finished")
	return nil
}

// SyncAll refreshes every known layer source in catalog order, stopping
// at the first failure.
func (s *Service) SyncAll(ctx context.Context) error {
	sources, err := s.Catalog.LayerSources()
	if err != nil {
		return err
	}
	for _, source := range sources {
		if err := s.Sync(ctx, source.Name, source.Sourcetype); err != nil {
			return err
		}
	}
	return nil
}
