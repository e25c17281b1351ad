package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hexfeat-cli/internal/export"
)

var (
	exportOut    string
	exportFormat string
)

var featuresExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's feature table to CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if exportFormat != "csv" && exportFormat != "xlsx" {
			return eris.Errorf("unsupported format %q (want csv or xlsx)", exportFormat)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rows, err := st.GetFeatures(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "load features")
		}
		if len(rows) == 0 {
			return eris.Errorf("run %s has no feature rows", args[0])
		}

		// Column layout comes from the stored rows, not the current
		// category configuration, so it matches what the run computed.
		categories, sets := export.Columns(rows)

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(exportOut, rows, categories, sets)
		case "xlsx":
			err = export.WriteXLSX(exportOut, rows, categories, sets)
		}
		if err != nil {
			return eris.Wrap(err, "write export")
		}

		fmt.Fprintf(os.Stdout, "Exported %d rows to %s\n", len(rows), exportOut)
		return nil
	},
}

func init() {
	featuresExportCmd.Flags().StringVar(&exportOut, "out", "", "output file path")
	featuresExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv or xlsx)")
	_ = featuresExportCmd.MarkFlagRequired("out")
	featuresCmd.AddCommand(featuresExportCmd)
}
