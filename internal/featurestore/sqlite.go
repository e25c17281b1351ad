package featurestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS feature_runs (
	id                TEXT PRIMARY KEY,
	source            TEXT NOT NULL,
	resolution        INTEGER NOT NULL,
	parent_resolution INTEGER NOT NULL,
	status            TEXT NOT NULL DEFAULT 'running',
	records           INTEGER NOT NULL DEFAULT 0,
	cells             INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cell_features (
	run_id          TEXT NOT NULL REFERENCES feature_runs(id),
	hex_id          TEXT NOT NULL,
	counts          TEXT NOT NULL,
	zone            INTEGER NOT NULL DEFAULT 0,
	distances       TEXT,
	nearest_sibling TEXT,
	PRIMARY KEY (run_id, hex_id)
);

CREATE INDEX IF NOT EXISTS idx_feature_runs_status ON feature_runs(status);
CREATE INDEX IF NOT EXISTS idx_cell_features_run_id ON cell_features(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run model.FeatureRun) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feature_runs (id, source, resolution, parent_resolution, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Resolution, run.ParentResolution, string(model.RunStatusRunning), now, now,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, records, cells int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE feature_runs SET status = ?, records = ?, cells = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), records, cells, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE feature_runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.FeatureRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, resolution, parent_resolution, status, records, cells, created_at, updated_at
		 FROM feature_runs WHERE id = ?`, runID,
	)

	var run model.FeatureRun
	var status string
	err := row.Scan(&run.ID, &run.Source, &run.Resolution, &run.ParentResolution,
		&status, &run.Records, &run.Cells, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.FeatureRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, resolution, parent_resolution, status, records, cells, created_at, updated_at
		 FROM feature_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.FeatureRun
	for rows.Next() {
		var run model.FeatureRun
		var status string
		if err := rows.Scan(&run.ID, &run.Source, &run.Resolution, &run.ParentResolution,
			&status, &run.Records, &run.Cells, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		run.Status = model.RunStatus(status)
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveFeatures(ctx context.Context, runID string, featureRows []model.CellFeatureRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save features")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cell_features (run_id, hex_id, counts, zone, distances, nearest_sibling)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, hex_id) DO UPDATE SET
		   counts = excluded.counts,
		   zone = excluded.zone,
		   distances = excluded.distances,
		   nearest_sibling = excluded.nearest_sibling`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare save features")
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range featureRows {
		counts, distances, encErr := encodeRow(row)
		if encErr != nil {
			return encErr
		}
		if _, err := stmt.ExecContext(ctx, runID, string(row.Cell), counts, int(row.Zone), distances, string(row.NearestSibling)); err != nil {
			return eris.Wrapf(err, "sqlite: save features for cell %s", row.Cell)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save features")
}

func (s *SQLiteStore) GetFeatures(ctx context.Context, runID string) ([]model.CellFeatureRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hex_id, counts, zone, distances, nearest_sibling
		 FROM cell_features WHERE run_id = ? ORDER BY hex_id`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get features for run %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var featureRows []model.CellFeatureRow
	for rows.Next() {
		var (
			cell, counts          string
			zone                  int
			distances, sibling    sql.NullString
		)
		if err := rows.Scan(&cell, &counts, &zone, &distances, &sibling); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feature row")
		}
		row, decErr := decodeRow(cell, counts, zone, distances.String, sibling.String)
		if decErr != nil {
			return nil, decErr
		}
		featureRows = append(featureRows, row)
	}
	return featureRows, eris.Wrap(rows.Err(), "sqlite: iterate feature rows")
}

func encodeRow(row model.CellFeatureRow) (counts string, distances string, err error) {
	countsJSON, err := json.Marshal(row.Counts)
	if err != nil {
		return "", "", eris.Wrapf(err, "featurestore: marshal counts for %s", row.Cell)
	}
	distancesJSON, err := json.Marshal(row.Distances)
	if err != nil {
		return "", "", eris.Wrapf(err, "featurestore: marshal distances for %s", row.Cell)
	}
	return string(countsJSON), string(distancesJSON), nil
}

func decodeRow(cell, counts string, zone int, distances, sibling string) (model.CellFeatureRow, error) {
	row := model.CellFeatureRow{
		Cell:           model.CellID(cell),
		Zone:           model.ZoneLabel(zone),
		NearestSibling: model.CellID(sibling),
	}
	if err := json.Unmarshal([]byte(counts), &row.Counts); err != nil {
		return row, eris.Wrapf(err, "featurestore: unmarshal counts for %s", cell)
	}
	if distances != "" && distances != "null" {
		if err := json.Unmarshal([]byte(distances), &row.Distances); err != nil {
			return row, eris.Wrapf(err, "featurestore: unmarshal distances for %s", cell)
		}
	}
	return row, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
