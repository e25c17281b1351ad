// Package aggregate groups classified POI records by hex cell and sums
// their category flags into per-cell count features.
package aggregate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/category"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

// ClassifiedRecord pairs a cell id with the record's category flags.
type ClassifiedRecord struct {
	Cell  model.CellID
	Flags category.Flags
}

// Aggregate groups records by cell and sums each category flag across the
// group (true=1). One row per distinct cell seen in the input; cells with
// no records are not fabricated. Summation over a group is commutative
// and associative, so input order never changes the result. Rows are
// returned sorted by cell id for stable output.
func Aggregate(records []ClassifiedRecord, names []string) []model.CellFeatureRow {
	byCell := make(map[model.CellID]map[string]int)
	for _, rec := range records {
		counts, ok := byCell[rec.Cell]
		if !ok {
			counts = make(map[string]int, len(names))
			for _, name := range names {
				counts[name] = 0
			}
			byCell[rec.Cell] = counts
		}
		for name, set := range rec.Flags {
			if set {
				counts[name]++
			}
		}
	}

	rows := make([]model.CellFeatureRow, 0, len(byCell))
	for cell, counts := range byCell {
		rows = append(rows, model.CellFeatureRow{Cell: cell, Counts: counts})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Cell < rows[j].Cell })

	zap.L().Info("aggregate: grouped records into cells",
		zap.Int("records", len(records)),
		zap.Int("cells", len(rows)),
	)
	return rows
}
