// Package featurestore persists feature-build runs and their per-cell
// feature rows behind a driver-selectable Store interface.
package featurestore

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// Store defines the persistence interface for feature tables.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, run model.FeatureRun) error
	CompleteRun(ctx context.Context, runID string, records, cells int) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*model.FeatureRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.FeatureRun, error)

	// Feature rows
	SaveFeatures(ctx context.Context, runID string, rows []model.CellFeatureRow) error
	GetFeatures(ctx context.Context, runID string) ([]model.CellFeatureRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("featurestore: unknown driver %q (want sqlite or postgres)", driver)
	}
}
