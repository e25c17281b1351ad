package aggregate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hexfeat-cli/internal/category"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

func classified(t *testing.T, cell model.CellID, rec model.POIRecord) ClassifiedRecord {
	t.Helper()
	return ClassifiedRecord{Cell: cell, Flags: category.Default().Classify(rec)}
}

func TestAggregate_CountsPerCell(t *testing.T) {
	cfg := category.Default()
	records := []ClassifiedRecord{
		classified(t, "A", model.POIRecord{Shop: "bakery"}),
		classified(t, "A", model.POIRecord{Shop: "bakery"}),
		classified(t, "B", model.POIRecord{Amenity: "police"}),
	}

	rows := Aggregate(records, cfg.Names())
	require.Len(t, rows, 2)

	// Rows are sorted by cell id.
	assert.Equal(t, model.CellID("A"), rows[0].Cell)
	assert.Equal(t, 2, rows[0].Counts["groceries_shop"])
	assert.Equal(t, 0, rows[0].Counts["security"])

	assert.Equal(t, model.CellID("B"), rows[1].Cell)
	assert.Equal(t, 0, rows[1].Counts["groceries_shop"])
	assert.Equal(t, 1, rows[1].Counts["security"])
}

func TestAggregate_OrderIndependent(t *testing.T) {
	cfg := category.Default()
	records := []ClassifiedRecord{
		classified(t, "A", model.POIRecord{Shop: "bakery"}),
		classified(t, "B", model.POIRecord{Amenity: "police"}),
		classified(t, "A", model.POIRecord{Shop: "florist"}),
		classified(t, "C", model.POIRecord{Amenity: "doctors"}),
		classified(t, "B", model.POIRecord{Shop: "electronics"}),
	}

	want := Aggregate(records, cfg.Names())

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]ClassifiedRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		assert.Equal(t, want, Aggregate(shuffled, cfg.Names()))
	}
}

func TestAggregate_CountConservation(t *testing.T) {
	cfg := category.Default()
	records := []ClassifiedRecord{
		classified(t, "A", model.POIRecord{Shop: "bakery"}),
		classified(t, "B", model.POIRecord{Shop: "butcher"}),
		classified(t, "C", model.POIRecord{Shop: "greengrocer"}),
		classified(t, "A", model.POIRecord{Amenity: "school"}),
		classified(t, "B", model.POIRecord{Name: "untagged"}),
	}

	rows := Aggregate(records, cfg.Names())

	totals := make(map[string]int)
	for _, row := range rows {
		for name, count := range row.Counts {
			totals[name] += count
		}
	}

	assert.Equal(t, 3, totals["groceries_shop"])
	assert.Equal(t, 1, totals["education"])
	assert.Equal(t, 0, totals["negative"])
}

func TestAggregate_NoFabricatedRows(t *testing.T) {
	cfg := category.Default()
	rows := Aggregate(nil, cfg.Names())
	assert.Empty(t, rows)
}

func TestAggregate_AllCategoriesPresentInEveryRow(t *testing.T) {
	cfg := category.Default()
	rows := Aggregate([]ClassifiedRecord{
		classified(t, "A", model.POIRecord{Shop: "bakery"}),
	}, cfg.Names())

	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Counts, len(cfg.Names()))
}
