package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hexfeat-cli/internal/category"
	"github.com/sells-group/hexfeat-cli/internal/geodist"
)

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Distance feature utilities",
}

var (
	nearestPOIPath string
	nearestSet     string
)

// distance nearest reports the nearest reference point per set for one
// origin coordinate.
var distanceNearestCmd = &cobra.Command{
	Use:   "nearest <lat,lon>",
	Short: "Nearest reference-set distances from a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := parsePoint(args[0])
		if err != nil {
			return err
		}

		records, err := loadPOIRecords(nearestPOIPath)
		if err != nil {
			return eris.Wrap(err, "load poi records")
		}

		_, filters, err := loadCategorySetup()
		if err != nil {
			return err
		}

		sets := category.ExtractReferenceSets(records, filters)
		matched := false
		for _, set := range sets {
			if nearestSet != "" && set.Name != nearestSet {
				continue
			}
			matched = true
			km := geodist.NearestOrSentinel(origin, set.Points)
			fmt.Fprintf(os.Stdout, "%s\t%.2f\n", set.Name, km)
		}
		if !matched {
			return eris.Errorf("unknown reference set %q", nearestSet)
		}
		return nil
	},
}

func init() {
	distanceNearestCmd.Flags().StringVar(&nearestPOIPath, "poi", "", "POI dataset (.geojson, .json, or .shp)")
	distanceNearestCmd.Flags().StringVar(&nearestSet, "set", "", "restrict to one reference set")
	_ = distanceNearestCmd.MarkFlagRequired("poi")
	distanceCmd.AddCommand(distanceNearestCmd)
	rootCmd.AddCommand(distanceCmd)
}
