package geodist

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

func TestHaversine_Symmetric(t *testing.T) {
	a := model.Point{Lat: -0.1807, Lon: -78.4678}
	b := model.Point{Lat: -2.1894, Lon: -79.8891}

	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestHaversine_IdentityIsZero(t *testing.T) {
	p := model.Point{Lat: 10.5, Lon: -70.25}
	assert.InDelta(t, 0, Haversine(p, p), 1e-9)
}

func TestHaversine_OneDegreeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km.
	d := Haversine(model.Point{Lat: 0, Lon: 0}, model.Point{Lat: 0, Lon: 1})
	assert.InDelta(t, 111.19, d, 0.01)
}

func TestNearest_PicksMinimum(t *testing.T) {
	origin := model.Point{Lat: 0, Lon: 0}
	targets := []model.Point{
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 0},
		{Lat: 5, Lon: 5},
	}

	km, ok := Nearest(origin, targets)
	require.True(t, ok)
	assert.InDelta(t, 111.19, km, 0.01)
}

func TestNearest_EmptyTargets(t *testing.T) {
	_, ok := Nearest(model.Point{}, nil)
	assert.False(t, ok)
}

func TestNearestOrSentinel_RoundsToTwoDecimals(t *testing.T) {
	d := NearestOrSentinel(model.Point{Lat: 0, Lon: 0}, []model.Point{{Lat: 0, Lon: 1}})
	assert.Equal(t, 111.19, d)
}

func TestNearestOrSentinel_EmptySetReturnsSentinel(t *testing.T) {
	d := NearestOrSentinel(model.Point{Lat: 0, Lon: 0}, nil)
	assert.Equal(t, float64(Sentinel), d)
}

func TestNearest_SkipsNonFiniteDistances(t *testing.T) {
	origin := model.Point{Lat: 0, Lon: 0}
	targets := []model.Point{
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: 2},
	}

	km, ok := Nearest(origin, targets)
	require.True(t, ok)
	assert.InDelta(t, 222.39, km, 0.01)
}

func TestNearest_AllNonFiniteDegrades(t *testing.T) {
	_, ok := Nearest(model.Point{Lat: 0, Lon: 0}, []model.Point{{Lat: math.NaN(), Lon: math.NaN()}})
	assert.False(t, ok)
}

func TestNearestAll_MatchesScalar(t *testing.T) {
	origins := []model.Point{
		{Lat: 0, Lon: 0},
		{Lat: 1, Lon: 1},
		{Lat: -0.5, Lon: 0.5},
	}
	set := model.ReferenceSet{Name: "test", Points: []model.Point{{Lat: 0, Lon: 1}, {Lat: 1, Lon: 0}}}

	got := NearestAll(context.Background(), origins, set, 2)
	require.Len(t, got, len(origins))
	for i, origin := range origins {
		assert.Equal(t, NearestOrSentinel(origin, set.Points), got[i])
	}
}

func TestNearestAll_EmptySetAllSentinel(t *testing.T) {
	origins := []model.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	got := NearestAll(context.Background(), origins, model.ReferenceSet{Name: "empty"}, 0)

	require.Len(t, got, 2)
	for _, d := range got {
		assert.Equal(t, float64(Sentinel), d)
	}
}
