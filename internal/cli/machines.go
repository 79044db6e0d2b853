package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type machinesOptions struct {
	Catalog string
	Project string
}

func newMachinesCommand() *cobra.Command {
	opts := machinesOptions{}
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List machines provided by a project's compatible layers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMachines(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Catalog file path")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	_ = viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	return cmd
}

func runMachines(ctx context.Context, cmd *cobra.Command, opts machinesOptions) error {
	service, err := newAppService(resolveString(cmd, opts.Catalog, "catalog", "catalog"))
	if err != nil {
		return err
	}
	rows, err := service.Machines(ctx, resolveString(cmd, opts.Project, "project", "project"))
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%s (layer %s): %s\n", row.Name, row.Layer, row.Description)
	}
	fmt.Printf("total: %d\n", len(rows))
	return nil
}
