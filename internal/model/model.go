package model

import "time"

// Point is an immutable WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CellID identifies a hexagonal cell at a given resolution,
// encoded as the canonical hex string of the cell index.
type CellID string

// POIRecord is one raw point of interest from an OSM extract.
// Real-world records carry exactly one of Amenity/Shop, but malformed
// input may carry both or neither; classification treats the two tag
// namespaces independently.
type POIRecord struct {
	Geometry Point  `json:"geometry"`
	Amenity  string `json:"amenity,omitempty"`
	Shop     string `json:"shop,omitempty"`
	Name     string `json:"name,omitempty"`
}

// IndexedPOI is a POIRecord with its assigned hex cell.
type IndexedPOI struct {
	POIRecord
	Cell CellID `json:"hex_id"`
}

// ZoneLabel is the economic classification of a cell or record,
// derived from the training cost-of-living distribution.
type ZoneLabel int

const (
	ZoneUnknown ZoneLabel = 0
	ZoneHigh    ZoneLabel = 1
	ZoneLow     ZoneLabel = 2
)

// String returns the human-readable zone name.
func (z ZoneLabel) String() string {
	switch z {
	case ZoneHigh:
		return "high"
	case ZoneLow:
		return "low"
	default:
		return "unknown"
	}
}

// TrainingSample is one row of the external training input.
type TrainingSample struct {
	Cell         CellID  `json:"hex_id"`
	CostOfLiving float64 `json:"cost_of_living"`
}

// ReferenceSet is a named, immutable list of points used as a distance
// target (e.g. "negative_points"). Built once per dataset, read-only.
type ReferenceSet struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// CellFeatureRow is one output row: per-category POI counts for a cell,
// plus the optional zone label, distance features and imputed sibling.
type CellFeatureRow struct {
	Cell   CellID         `json:"hex_id"`
	Counts map[string]int `json:"counts"`

	Zone ZoneLabel `json:"zone"`

	// Distances maps a reference-set name to the great-circle distance in
	// km from the cell center to the nearest point of that set, rounded to
	// 2 decimals. 999999 means no reference points were available.
	Distances map[string]float64 `json:"distances,omitempty"`

	// NearestSibling is the nearest same-parent cell holding a zone
	// label, for cells whose own zone is unknown. Empty when no candidate
	// exists or no imputation was needed.
	NearestSibling CellID `json:"nearest_sibling,omitempty"`
}

// RunStatus represents the state of a feature-build run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// FeatureRun records one execution of the feature pipeline.
type FeatureRun struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	Resolution       int       `json:"resolution"`
	ParentResolution int       `json:"parent_resolution"`
	Status           RunStatus `json:"status"`
	Records          int       `json:"records"`
	Cells            int       `json:"cells"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
