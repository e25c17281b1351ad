// Package zone labels hex cells as high/low/unknown cost-of-living zones
// from a training distribution.
package zone

import (
	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// DefaultThreshold separates high from low cost-of-living samples.
const DefaultThreshold = 0.5

// Index holds the cell-id sets derived from the training distribution.
// Membership is per distinct cell, not per sample; a cell whose samples
// straddle the threshold appears in both sets and classifies HIGH.
type Index struct {
	high map[model.CellID]bool
	low  map[model.CellID]bool
}

// BuildIndex partitions samples by cost_of_living > threshold (strict)
// and collects the distinct cell ids of each partition. Empty training
// data yields empty sets; every cell then classifies unknown.
func BuildIndex(samples []model.TrainingSample, threshold float64) *Index {
	idx := &Index{
		high: make(map[model.CellID]bool),
		low:  make(map[model.CellID]bool),
	}
	for _, s := range samples {
		if s.CostOfLiving > threshold {
			idx.high[s.Cell] = true
		} else {
			idx.low[s.Cell] = true
		}
	}

	zap.L().Info("zone: built index",
		zap.Int("samples", len(samples)),
		zap.Float64("threshold", threshold),
		zap.Int("high_cells", len(idx.high)),
		zap.Int("low_cells", len(idx.low)),
	)
	return idx
}

// Classify returns the zone label for a cell: high wins when a cell is
// present in both partitions; cells unseen in training are unknown.
func (idx *Index) Classify(cell model.CellID) model.ZoneLabel {
	switch {
	case idx.high[cell]:
		return model.ZoneHigh
	case idx.low[cell]:
		return model.ZoneLow
	default:
		return model.ZoneUnknown
	}
}

// HighCells returns the number of distinct high-partition cells.
func (idx *Index) HighCells() int { return len(idx.high) }

// LowCells returns the number of distinct low-partition cells.
func (idx *Index) LowCells() int { return len(idx.low) }
