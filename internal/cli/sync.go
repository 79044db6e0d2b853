package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"toaster/internal/types"
)

type syncOptions struct {
	Catalog string
	Source  string
	Type    string
}

func newSyncCommand() *cobra.Command {
	opts := syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh layer sources from their backing origins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Catalog file path")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Layer source name (empty syncs all)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Layer source type (local, layerindex, imported)")
	_ = viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("source_type", cmd.Flags().Lookup("type"))
	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, opts syncOptions) error {
	service, err := newAppService(resolveString(cmd, opts.Catalog, "catalog", "catalog"))
	if err != nil {
		return err
	}

	name := resolveString(cmd, opts.Source, "source", "source")
	if name == "" {
		if err := service.SyncAll(ctx); err != nil {
			return err
		}
	} else {
		sourcetype := types.SourceType(resolveString(cmd, opts.Type, "source_type", "type"))
		if err := service.Sync(ctx, name, sourcetype); err != nil {
			return err
		}
	}

	versions, err := service.Catalog.LayerVersions()
	if err != nil {
		return err
	}
	fmt.Printf("layer versions in catalog: %d\n", len(versions))
	return nil
}
