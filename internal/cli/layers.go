package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type layersOptions struct {
	Catalog string
	Project string
}

func newLayersCommand() *cobra.Command {
	opts := layersOptions{}
	cmd := &cobra.Command{
		Use:   "layers",
		Short: "List layers compatible with a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLayers(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Catalog file path")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	_ = viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	return cmd
}

func runLayers(ctx context.Context, cmd *cobra.Command, opts layersOptions) error {
	service, err := newAppService(resolveString(cmd, opts.Catalog, "catalog", "catalog"))
	if err != nil {
		return err
	}
	rows, err := service.Layers(ctx, resolveString(cmd, opts.Project, "project", "project"))
	if err != nil {
		return err
	}
	for _, row := range rows {
		marker := " "
		if row.InProject {
			marker = "*"
		}
		fmt.Printf("%s %s (%s) %s\n", marker, row.Name, row.Source, row.Commit)
	}
	fmt.Printf("total: %d\n", len(rows))
	return nil
}
