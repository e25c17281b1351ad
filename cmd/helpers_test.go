package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

func TestLoadPOIRecords_UnsupportedExtension(t *testing.T) {
	_, err := loadPOIRecords("data/points.kml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported POI format")
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("-0.1807, -78.4678")
	require.NoError(t, err)
	assert.InDelta(t, -0.1807, p.Lat, 1e-9)
	assert.InDelta(t, -78.4678, p.Lon, 1e-9)
}

func TestParsePoint_Invalid(t *testing.T) {
	for _, arg := range []string{"", "1.0", "a,b", "1.0,2.0,3.0"} {
		_, err := parsePoint(arg)
		assert.Error(t, err, "arg %q", arg)
	}
}

func TestFormatRunsList(t *testing.T) {
	runs := []model.FeatureRun{
		{
			ID:        "run-1",
			Source:    "quito.geojson",
			Status:    model.RunStatusComplete,
			Records:   120,
			Cells:     14,
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "quito.geojson")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "2026-08-01T12:00:00Z")
}
