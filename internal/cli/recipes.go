package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type recipesOptions struct {
	Catalog string
	Project string
}

func newRecipesCommand() *cobra.Command {
	opts := recipesOptions{}
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List recipes provided by a project's compatible layers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecipes(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "Catalog file path")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	_ = viper.BindPFlag("catalog", cmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	return cmd
}

func runRecipes(ctx context.Context, cmd *cobra.Command, opts recipesOptions) error {
	service, err := newAppService(resolveString(cmd, opts.Catalog, "catalog", "catalog"))
	if err != nil {
		return err
	}
	rows, err := service.Recipes(ctx, resolveString(cmd, opts.Project, "project", "project"))
	if err != nil {
		return err
	}
	for _, row := range rows {
		marker := " "
		if row.Newest {
			marker = "^"
		}
		fmt.Printf("%s %s %s (layer %s)\n", marker, row.Name, row.Version, row.Layer)
	}
	fmt.Printf("total: %d\n", len(rows))
	return nil
}
