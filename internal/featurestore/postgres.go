package featurestore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/hexfeat-cli/internal/db"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS feature_runs (
	id                TEXT PRIMARY KEY,
	source            TEXT NOT NULL,
	resolution        INT NOT NULL,
	parent_resolution INT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'running',
	records           INT NOT NULL DEFAULT 0,
	cells             INT NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cell_features (
	run_id          TEXT NOT NULL REFERENCES feature_runs(id),
	hex_id          TEXT NOT NULL,
	counts          JSONB NOT NULL,
	zone            INT NOT NULL DEFAULT 0,
	distances       JSONB,
	nearest_sibling TEXT,
	PRIMARY KEY (run_id, hex_id)
);

CREATE INDEX IF NOT EXISTS idx_feature_runs_status ON feature_runs(status);
CREATE INDEX IF NOT EXISTS idx_cell_features_run_id ON cell_features(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run model.FeatureRun) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feature_runs (id, source, resolution, parent_resolution, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Source, run.Resolution, run.ParentResolution, string(model.RunStatusRunning), now, now,
	)
	return eris.Wrap(err, "postgres: insert run")
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, records, cells int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE feature_runs SET status = $1, records = $2, cells = $3, updated_at = $4 WHERE id = $5`,
		string(model.RunStatusComplete), records, cells, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE feature_runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.FeatureRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, resolution, parent_resolution, status, records, cells, created_at, updated_at
		 FROM feature_runs WHERE id = $1`, runID,
	)

	var run model.FeatureRun
	var status string
	err := row.Scan(&run.ID, &run.Source, &run.Resolution, &run.ParentResolution,
		&status, &run.Records, &run.Cells, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.FeatureRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, resolution, parent_resolution, status, records, cells, created_at, updated_at
		 FROM feature_runs ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.FeatureRun
	for rows.Next() {
		var run model.FeatureRun
		var status string
		if err := rows.Scan(&run.ID, &run.Source, &run.Resolution, &run.ParentResolution,
			&status, &run.Records, &run.Cells, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		run.Status = model.RunStatus(status)
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

// SaveFeatures replaces the run's feature rows using COPY for bulk speed.
func (s *PostgresStore) SaveFeatures(ctx context.Context, runID string, featureRows []model.CellFeatureRow) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cell_features WHERE run_id = $1`, runID); err != nil {
		return eris.Wrapf(err, "postgres: clear features for run %s", runID)
	}

	copyRows := make([][]any, 0, len(featureRows))
	for _, row := range featureRows {
		counts, distances, err := encodeRow(row)
		if err != nil {
			return err
		}
		copyRows = append(copyRows, []any{
			runID, string(row.Cell), counts, int(row.Zone), distances, string(row.NearestSibling),
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, "cell_features",
		[]string{"run_id", "hex_id", "counts", "zone", "distances", "nearest_sibling"}, copyRows)
	return err
}

func (s *PostgresStore) GetFeatures(ctx context.Context, runID string) ([]model.CellFeatureRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT hex_id, counts, zone, distances, nearest_sibling
		 FROM cell_features WHERE run_id = $1 ORDER BY hex_id`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get features for run %s", runID)
	}
	defer rows.Close()

	var featureRows []model.CellFeatureRow
	for rows.Next() {
		var (
			cell, counts       string
			zone               int
			distances, sibling *string
		)
		if err := rows.Scan(&cell, &counts, &zone, &distances, &sibling); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feature row")
		}
		row, decErr := decodeRow(cell, counts, zone, deref(distances), deref(sibling))
		if decErr != nil {
			return nil, decErr
		}
		featureRows = append(featureRows, row)
	}
	return featureRows, eris.Wrap(rows.Err(), "postgres: iterate feature rows")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
