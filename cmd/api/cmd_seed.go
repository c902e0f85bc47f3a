package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"inventory/internal/catalog"
	"inventory/internal/domain/model"
	"inventory/internal/usecase"

	"github.com/spf13/cobra"
)

// inventory seed — デモデータ（または --file）を投入。既存SKUは飛ばす
func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalogue (or --file) into the store, skipping existing SKUs",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := catalog.DemoProducts()
			if file != "" {
				var err error
				if rows, err = catalog.LoadFile(file); err != nil {
					return err
				}
			}
			return runImport(cmd, rows, true)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML, JSON or XLSX file to seed from instead of the demo catalogue")
	return cmd
}

// inventory import FILE — ファイルから一括作成
func newImportCmd() *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create products from a .yaml, .yml, .json or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			return runImport(cmd, rows, skipExisting)
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", true, "do not create products whose SKU already exists")
	return cmd
}

func runImport(cmd *cobra.Command, rows []model.ProductCandidate, skipExisting bool) error {
	a, err := bootstrap(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	// 途中でストレージ障害が起きても、それまでの結果は出す
	res, importErr := a.product.ImportProducts(cmd.Context(), rows, skipExisting)
	if err := printImportResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	return importErr
}

func printImportResult(out io.Writer, res usecase.ImportResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range res.Created {
		fmt.Fprintf(w, "created\t%s\t%s\t%d\n", p.SKU, p.Name, p.Quantity)
	}
	for _, sku := range res.Skipped {
		fmt.Fprintf(w, "skipped\t%s\texists\t\n", sku)
	}
	for _, r := range res.Invalid {
		fmt.Fprintf(w, "invalid\trow %d\t%s\t\n", r.Row, describeFields(r.Fields))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "%d created, %d skipped, %d invalid\n", len(res.Created), len(res.Skipped), len(res.Invalid))
	return err
}

func describeFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
