// Package pipeline orchestrates the feature-engineering run: indexing,
// classification, zone labeling, aggregation, distance features and
// nearest-sibling imputation.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hexfeat-cli/internal/aggregate"
	"github.com/sells-group/hexfeat-cli/internal/category"
	"github.com/sells-group/hexfeat-cli/internal/config"
	"github.com/sells-group/hexfeat-cli/internal/featurestore"
	"github.com/sells-group/hexfeat-cli/internal/geodist"
	"github.com/sells-group/hexfeat-cli/internal/hexgrid"
	"github.com/sells-group/hexfeat-cli/internal/model"
	"github.com/sells-group/hexfeat-cli/internal/neighbor"
	"github.com/sells-group/hexfeat-cli/internal/zone"
)

// Pipeline holds the engine components for feature-engineering runs.
type Pipeline struct {
	cfg        *config.Config
	store      featurestore.Store
	indexer    *hexgrid.Indexer
	categories *category.Config
	filters    []category.ReferenceFilter
}

// Result is the output of one run.
type Result struct {
	RunID        string
	Rows         []model.CellFeatureRow
	Categories   []string
	DistanceSets []string
	Records      int
}

// New builds a Pipeline from configuration. store may be nil to skip
// persistence.
func New(cfg *config.Config, store featurestore.Store) (*Pipeline, error) {
	indexer, err := hexgrid.New(cfg.Hex.Resolution)
	if err != nil {
		return nil, err
	}

	categories := category.Default()
	filters := category.DefaultReferenceFilters()
	if cfg.Categories.Path != "" {
		categories, filters, err = category.LoadFile(cfg.Categories.Path)
		if err != nil {
			return nil, err
		}
	}

	return &Pipeline{
		cfg:        cfg,
		store:      store,
		indexer:    indexer,
		categories: categories,
		filters:    filters,
	}, nil
}

// Run executes the full pipeline over already-materialized inputs.
func (p *Pipeline) Run(ctx context.Context, records []model.POIRecord, training []model.TrainingSample, source string) (*Result, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID), zap.String("source", source))
	log.Info("pipeline: starting feature build",
		zap.Int("records", len(records)),
		zap.Int("training_samples", len(training)),
	)

	if p.store != nil {
		err := p.store.CreateRun(ctx, model.FeatureRun{
			ID:               runID,
			Source:           source,
			Resolution:       p.cfg.Hex.Resolution,
			ParentResolution: p.cfg.Hex.ParentResolution,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
	}

	result, err := p.build(ctx, runID, records, training, log)
	if p.store != nil {
		if err != nil {
			if failErr := p.store.FailRun(ctx, runID); failErr != nil {
				log.Warn("pipeline: failed to mark run failed", zap.Error(failErr))
			}
		} else {
			if saveErr := p.store.SaveFeatures(ctx, runID, result.Rows); saveErr != nil {
				return nil, eris.Wrap(saveErr, "pipeline: save features")
			}
			if completeErr := p.store.CompleteRun(ctx, runID, len(records), len(result.Rows)); completeErr != nil {
				log.Warn("pipeline: failed to mark run complete", zap.Error(completeErr))
			}
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info("pipeline: feature build complete", zap.Int("cells", len(result.Rows)))
	return result, nil
}

func (p *Pipeline) build(ctx context.Context, runID string, records []model.POIRecord, training []model.TrainingSample, log *zap.Logger) (*Result, error) {
	// Index and classify. Records are independent, so the work is
	// fanned out with disjoint result slots per worker.
	classified := make([]aggregate.ClassifiedRecord, len(records))

	var g errgroup.Group
	g.SetLimit(p.distanceConcurrency())
	for i, rec := range records {
		g.Go(func() error {
			classified[i] = aggregate.ClassifiedRecord{
				Cell:  p.indexer.Assign(rec.Geometry),
				Flags: p.categories.Classify(rec),
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: classify")
	}

	// Aggregate counts per cell.
	rows := aggregate.Aggregate(classified, p.categories.Names())

	// Zone labels from the training distribution.
	zoneIndex := zone.BuildIndex(training, p.cfg.Zones.Threshold)
	for i := range rows {
		rows[i].Zone = zoneIndex.Classify(rows[i].Cell)
	}

	// Distance features: cell centers against each reference set.
	refSets := category.ExtractReferenceSets(records, p.filters)
	distanceSets := p.distanceFeatures(ctx, rows, refSets, log)

	// Impute a nearest sibling for cells without a zone signal.
	if err := p.imputeSiblings(ctx, rows); err != nil {
		return nil, err
	}

	return &Result{
		RunID:        runID,
		Rows:         rows,
		Categories:   p.categories.Names(),
		DistanceSets: distanceSets,
		Records:      len(records),
	}, nil
}

// distanceFeatures fills each row's distance map from its cell center
// against every reference set. A row whose center cannot be derived gets
// the sentinel for every set; that is a data gap, not an error.
func (p *Pipeline) distanceFeatures(ctx context.Context, rows []model.CellFeatureRow, refSets []model.ReferenceSet, log *zap.Logger) []string {
	centers := make([]model.Point, 0, len(rows))
	resolvable := make([]int, 0, len(rows))
	for i, row := range rows {
		center, err := hexgrid.Center(row.Cell)
		if err != nil {
			log.Warn("pipeline: cell center unavailable", zap.String("cell", string(row.Cell)), zap.Error(err))
			continue
		}
		centers = append(centers, center)
		resolvable = append(resolvable, i)
	}

	distanceSets := make([]string, 0, len(refSets))
	for _, set := range refSets {
		distanceSets = append(distanceSets, set.Name)
		distances := geodist.NearestAll(ctx, centers, set, p.distanceConcurrency())
		for i := range rows {
			if rows[i].Distances == nil {
				rows[i].Distances = make(map[string]float64, len(refSets))
			}
			rows[i].Distances[set.Name] = geodist.Sentinel
		}
		for k, i := range resolvable {
			rows[i].Distances[set.Name] = distances[k]
		}
	}
	return distanceSets
}

func (p *Pipeline) imputeSiblings(ctx context.Context, rows []model.CellFeatureRow) error {
	cells := make([]neighbor.CellAttribute, len(rows))
	for i, row := range rows {
		cells[i] = neighbor.CellAttribute{
			Cell:    row.Cell,
			Present: row.Zone != model.ZoneUnknown,
		}
	}

	resolutions, err := neighbor.ResolveMissing(ctx, cells, p.cfg.Hex.ParentResolution, 0)
	if err != nil {
		return eris.Wrap(err, "pipeline: impute siblings")
	}

	byCell := make(map[model.CellID]model.CellID, len(resolutions))
	for _, r := range resolutions {
		if r.Sibling != "" {
			byCell[r.Cell] = r.Sibling
		}
	}
	for i := range rows {
		if sibling, ok := byCell[rows[i].Cell]; ok {
			rows[i].NearestSibling = sibling
		}
	}
	return nil
}

func (p *Pipeline) distanceConcurrency() int {
	if p.cfg.Distance.Concurrency > 0 {
		return p.cfg.Distance.Concurrency
	}
	return geodist.DefaultConcurrency
}
