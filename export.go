package main

import (
	"recipebox/catalog"
	"recipebox/export"
	"recipebox/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOut      string
	exportFormat   string
	exportCategory string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write recipes to a CSV or XLSX file",
	Long: `Exports the stored recipes in creation order. --category limits the
export to one category using the same exact matching as the category bar.

Example:
  recipebox export --out recipes.xlsx --category Dinner`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "recipes.csv", "output file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv or xlsx (default: from --out extension)")
	exportCmd.Flags().StringVar(&exportCategory, "category", catalog.AllCategories, "category to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recipes, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer recipes.Close()

	all, err := recipes.List(ctx)
	if err != nil {
		return err
	}
	selected := catalog.FilterByCategory(all, exportCategory)
	if err := export.WriteFile(exportOut, exportFormat, selected); err != nil {
		return err
	}
	logger.Info("Recipes exported",
		zap.String("out", exportOut),
		zap.String("category", exportCategory),
		zap.Int("count", selected.Len()))
	return nil
}
