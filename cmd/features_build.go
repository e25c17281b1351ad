package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hexfeat-cli/internal/dataset"
	"github.com/sells-group/hexfeat-cli/internal/featurestore"
	"github.com/sells-group/hexfeat-cli/internal/model"
	"github.com/sells-group/hexfeat-cli/internal/pipeline"
)

var (
	buildPOIPath      string
	buildTrainingPath string
	buildSource       string
	buildNoStore      bool
)

var featuresBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the feature pipeline over a POI dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := loadPOIRecords(buildPOIPath)
		if err != nil {
			return eris.Wrap(err, "load poi records")
		}

		var training []model.TrainingSample
		if buildTrainingPath != "" {
			training, err = dataset.LoadTrainingCSV(buildTrainingPath)
			if err != nil {
				return eris.Wrap(err, "load training samples")
			}
		}

		var st featurestore.Store
		if !buildNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		p, err := pipeline.New(cfg, st)
		if err != nil {
			return err
		}

		source := buildSource
		if source == "" {
			source = buildPOIPath
		}

		result, err := p.Run(ctx, records, training, source)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Run %s: %d records across %d cells (%d categories, %d distance sets)\n",
			result.RunID, result.Records, len(result.Rows), len(result.Categories), len(result.DistanceSets))
		return nil
	},
}

func init() {
	featuresBuildCmd.Flags().StringVar(&buildPOIPath, "poi", "", "POI dataset (.geojson, .json, or .shp)")
	featuresBuildCmd.Flags().StringVar(&buildTrainingPath, "training", "", "training CSV with hex_id and cost_of_living columns")
	featuresBuildCmd.Flags().StringVar(&buildSource, "source", "", "run source label (defaults to the POI path)")
	featuresBuildCmd.Flags().BoolVar(&buildNoStore, "no-store", false, "skip persisting the run")
	_ = featuresBuildCmd.MarkFlagRequired("poi")
	featuresCmd.AddCommand(featuresBuildCmd)
}
