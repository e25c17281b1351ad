// Package neighbor imputes missing cell attributes from the nearest
// sibling cell under a common coarser parent.
package neighbor

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hexfeat-cli/internal/hexgrid"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

// DefaultConcurrency bounds parallel parent partitions.
const DefaultConcurrency = 4

// CellAttribute marks whether a cell carries the attribute being imputed.
type CellAttribute struct {
	Cell    model.CellID
	Present bool
}

// Resolution pairs a missing cell with its imputed nearest sibling.
// Sibling is empty when no candidate shares the parent.
type Resolution struct {
	Cell    model.CellID
	Sibling model.CellID
}

// partition groups the cells under one parent.
type partition struct {
	candidates []model.CellID // cells holding the attribute, input order
	missing    []int          // indexes into the resolutions slice
}

// ResolveMissing finds, for every cell whose attribute is absent, the
// nearest same-parent cell that has it, by hex-grid distance. Candidates
// are partitioned by parent up front so the minimization never scans
// across parents. Ties break to the first candidate in input order, so
// the result is deterministic for a fixed input ordering. A missing cell
// with no candidates resolves to an empty sibling; that is a data gap,
// not an error. A parent resolution that is not strictly coarser than
// the cells' resolution is a configuration error.
func ResolveMissing(ctx context.Context, cells []CellAttribute, parentResolution, concurrency int) ([]Resolution, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	log := zap.L().With(zap.Int("parent_resolution", parentResolution))

	var resolutions []Resolution
	partitions := make(map[model.CellID]*partition)
	var parentOrder []model.CellID

	var skipped int
	for _, ca := range cells {
		res, err := hexgrid.Resolution(ca.Cell)
		if err != nil {
			skipped++
			log.Warn("neighbor: skipping unparseable cell", zap.String("cell", string(ca.Cell)), zap.Error(err))
			continue
		}
		if parentResolution >= res {
			return nil, eris.Errorf("neighbor: parent resolution %d is not coarser than cell resolution %d", parentResolution, res)
		}

		parent, err := hexgrid.Parent(ca.Cell, parentResolution)
		if err != nil {
			return nil, eris.Wrap(err, "neighbor: derive parent")
		}

		part, ok := partitions[parent]
		if !ok {
			part = &partition{}
			partitions[parent] = part
			parentOrder = append(parentOrder, parent)
		}
		if ca.Present {
			part.candidates = append(part.candidates, ca.Cell)
		} else {
			resolutions = append(resolutions, Resolution{Cell: ca.Cell})
			part.missing = append(part.missing, len(resolutions)-1)
		}
	}
	if skipped > 0 {
		log.Warn("neighbor: skipped cells with invalid ids", zap.Int("skipped", skipped))
	}

	// Partitions are independent; resolutions slots are disjoint per
	// partition, so workers never write the same index.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, parent := range parentOrder {
		part := partitions[parent]
		if len(part.missing) == 0 {
			continue
		}
		g.Go(func() error {
			for _, idx := range part.missing {
				resolutions[idx].Sibling = nearestCandidate(resolutions[idx].Cell, part.candidates)
			}
			return nil
		})
	}
	_ = g.Wait()

	var unresolved int
	for _, r := range resolutions {
		if r.Sibling == "" {
			unresolved++
		}
	}
	if unresolved > 0 {
		log.Info("neighbor: cells without sibling candidates", zap.Int("unresolved", unresolved))
	}

	return resolutions, nil
}

// nearestCandidate returns the candidate at minimal grid distance from
// cell, excluding cell itself. First candidate wins on ties.
func nearestCandidate(cell model.CellID, candidates []model.CellID) model.CellID {
	var best model.CellID
	bestDist := -1

	for _, cand := range candidates {
		if cand == cell {
			continue
		}
		d, err := hexgrid.GridDistance(cell, cand)
		if err != nil {
			zap.L().Warn("neighbor: grid distance failed",
				zap.String("cell", string(cell)),
				zap.String("candidate", string(cand)),
				zap.Error(err),
			)
			continue
		}
		if bestDist < 0 || d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}
