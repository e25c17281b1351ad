package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hexfeat-cli/internal/dataset"
	"github.com/sells-group/hexfeat-cli/internal/model"
	"github.com/sells-group/hexfeat-cli/internal/zone"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Cost-of-living zone labeling",
}

var zonesTrainingPath string

// zones build summarizes the zone index and optionally classifies cell
// ids given as arguments.
var zonesBuildCmd = &cobra.Command{
	Use:   "build [cell-id...]",
	Short: "Build the zone index from training data",
	RunE: func(cmd *cobra.Command, args []string) error {
		training, err := dataset.LoadTrainingCSV(zonesTrainingPath)
		if err != nil {
			return eris.Wrap(err, "load training samples")
		}

		idx := zone.BuildIndex(training, cfg.Zones.Threshold)
		fmt.Fprintf(os.Stdout, "Zone index: %d high cells, %d low cells (threshold %.2f)\n",
			idx.HighCells(), idx.LowCells(), cfg.Zones.Threshold)

		for _, arg := range args {
			label := idx.Classify(model.CellID(arg))
			fmt.Fprintf(os.Stdout, "%s\t%s\n", arg, label)
		}
		return nil
	},
}

func init() {
	zonesBuildCmd.Flags().StringVar(&zonesTrainingPath, "training", "", "training CSV with hex_id and cost_of_living columns")
	_ = zonesBuildCmd.MarkFlagRequired("training")
	zonesCmd.AddCommand(zonesBuildCmd)
	rootCmd.AddCommand(zonesCmd)
}
