package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"toaster/internal/types"
)

type equivalentsOptions struct {
	Catalog      string
	Project      string
	LayerVersion int
}

func newEquivalentsCommand() *cobra.Command {
	opts := equivalentsOptions{}
	cmd := &cobra.Command{
		Use:   "equivalents",
		Short: "Show the ordered equivalence class of a layer version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEquivalents(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Catalog file path")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().IntVar(&opts.LayerVersion, "layer-version", 0, "Layer version ID")
	_ = viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("layer_version", cmd.Flags().Lookup("layer-version"))
	return cmd
}

func runEquivalents(ctx context.Context, cmd *cobra.Command, opts equivalentsOptions) error {
	service, err := newAppService(resolveString(cmd, opts.Catalog, "catalog", "catalog"))
	if err != nil {
		return err
	}
	versionID := opts.LayerVersion
	if !flagChanged(cmd, "layer-version") {
		versionID = viper.GetInt("layer_version")
	}
	rows, err := service.Equivalents(ctx,
		resolveString(cmd, opts.Project, "project", "project"),
		types.LayerVersionID(versionID))
	if err != nil {
		return err
	}
	for i, row := range rows {
		origin := row.Source
		if row.BuildDerived {
			origin = "build"
		}
		fmt.Printf("%d. layer version %d: %s from %s %s\n", i+1, row.LayerVersion, row.Layer, origin, row.Commit)
	}
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || name == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
