// Package geodist computes great-circle distances and nearest-distance
// features against reference coordinate sets.
package geodist

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

const (
	// EarthRadiusKM is the mean Earth radius used by the haversine formula.
	EarthRadiusKM = 6371.0

	// Sentinel marks "no reference data available". It is a legitimate
	// domain value consumed downstream as effectively infinite, not an
	// error.
	Sentinel = 999999.0

	// DefaultConcurrency bounds parallel origins in NearestAll.
	DefaultConcurrency = 8
)

// Haversine returns the great-circle distance between two points in km.
// Symmetric; ~0 for identical points.
func Haversine(p1, p2 model.Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLon := (p2.Lon - p1.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(a))
}

// Nearest returns the minimum haversine distance from origin to any
// target. ok is false when targets is empty or no finite distance could
// be computed; the caller decides how to materialize the gap.
func Nearest(origin model.Point, targets []model.Point) (km float64, ok bool) {
	min := math.Inf(1)
	for _, t := range targets {
		d := Haversine(origin, t)
		if !isFinite(d) {
			continue
		}
		if d < min {
			min = d
		}
	}
	if math.IsInf(min, 1) {
		return 0, false
	}
	return min, true
}

// NearestOrSentinel returns the nearest distance rounded to 2 decimals
// for feature stability, or the sentinel when no signal is available.
func NearestOrSentinel(origin model.Point, targets []model.Point) float64 {
	km, ok := Nearest(origin, targets)
	if !ok {
		return Sentinel
	}
	return math.Round(km*100) / 100
}

// NearestAll computes NearestOrSentinel for every origin, bounded by
// concurrency workers. Origins are independent; a gap in one degrades to
// the sentinel without touching the rest of the batch.
func NearestAll(ctx context.Context, origins []model.Point, targets model.ReferenceSet, concurrency int) []float64 {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	out := make([]float64, len(origins))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, origin := range origins {
		g.Go(func() error {
			out[i] = NearestOrSentinel(origin, targets.Points)
			return nil
		})
	}

	// Workers never return errors; gaps became sentinels above.
	_ = g.Wait()

	if len(targets.Points) == 0 && len(origins) > 0 {
		zap.L().Warn("geodist: empty reference set, all distances are sentinel",
			zap.String("set", targets.Name),
			zap.Int("origins", len(origins)),
		)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
