// Package hexgrid wraps the H3 hierarchical hex-grid primitives behind
// model.CellID. It is the only package that touches the h3 library.
package hexgrid

import (
	"github.com/rotisserie/eris"
	"github.com/uber/h3-go/v4"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

const (
	// MinResolution and MaxResolution bound valid H3 resolutions.
	MinResolution = 0
	MaxResolution = 15

	// DefaultResolution is the cell size POIs are indexed at.
	DefaultResolution = 8
)

// Indexer assigns points to hex cells at a fixed resolution.
type Indexer struct {
	resolution int
}

// New creates an Indexer. An out-of-range resolution is a configuration
// error and is rejected immediately.
func New(resolution int) (*Indexer, error) {
	if resolution < MinResolution || resolution > MaxResolution {
		return nil, eris.Errorf("hexgrid: resolution %d out of range [%d, %d]", resolution, MinResolution, MaxResolution)
	}
	return &Indexer{resolution: resolution}, nil
}

// Resolution returns the indexing resolution.
func (ix *Indexer) Resolution() int { return ix.resolution }

// Assign returns the cell containing p at the indexer's resolution.
// Pure and deterministic: the same point always yields the same cell.
func (ix *Indexer) Assign(p model.Point) model.CellID {
	cell := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), ix.resolution)
	return model.CellID(cell.String())
}

// Parent returns the ancestor of cell at a strictly coarser resolution.
// Requesting a resolution that is not coarser than the cell's own is a
// configuration error.
func Parent(cell model.CellID, coarser int) (model.CellID, error) {
	c, err := parse(cell)
	if err != nil {
		return "", err
	}
	if coarser >= c.Resolution() {
		return "", eris.Errorf("hexgrid: parent resolution %d is not coarser than cell resolution %d", coarser, c.Resolution())
	}
	if coarser < MinResolution {
		return "", eris.Errorf("hexgrid: parent resolution %d out of range", coarser)
	}
	return model.CellID(c.Parent(coarser).String()), nil
}

// Center returns the center point of cell.
func Center(cell model.CellID) (model.Point, error) {
	c, err := parse(cell)
	if err != nil {
		return model.Point{}, err
	}
	ll := h3.CellToLatLng(c)
	return model.Point{Lat: ll.Lat, Lon: ll.Lng}, nil
}

// Resolution returns the resolution a cell id is encoded at.
func Resolution(cell model.CellID) (int, error) {
	c, err := parse(cell)
	if err != nil {
		return 0, err
	}
	return c.Resolution(), nil
}

// GridDistance returns the hex-grid distance between two cells at the
// same resolution.
func GridDistance(a, b model.CellID) (int, error) {
	ca, err := parse(a)
	if err != nil {
		return 0, err
	}
	cb, err := parse(b)
	if err != nil {
		return 0, err
	}
	return ca.GridDistance(cb), nil
}

func parse(cell model.CellID) (h3.Cell, error) {
	c := h3.Cell(h3.IndexFromString(string(cell)))
	if !c.IsValid() {
		return 0, eris.Errorf("hexgrid: invalid cell id %q", cell)
	}
	return c, nil
}
