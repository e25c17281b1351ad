package main

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hexfeat-cli/internal/category"
	"github.com/sells-group/hexfeat-cli/internal/dataset"
	"github.com/sells-group/hexfeat-cli/internal/featurestore"
	"github.com/sells-group/hexfeat-cli/internal/model"
)

func initStore(ctx context.Context) (featurestore.Store, error) {
	dsn := cfg.Store.DatabaseURL
	if cfg.Store.Driver == "sqlite" && dsn == "" {
		dsn = "hexfeat.db"
	}
	return featurestore.Open(ctx, cfg.Store.Driver, dsn)
}

// loadPOIRecords dispatches on the file extension.
func loadPOIRecords(path string) ([]model.POIRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return dataset.LoadGeoJSON(path)
	case ".shp":
		return dataset.LoadShapefile(path)
	default:
		return nil, eris.Errorf("unsupported POI format %q (want .geojson, .json, or .shp)", filepath.Ext(path))
	}
}

// loadCategorySetup resolves the category configuration and reference
// filters the same way the pipeline does, for commands that need the
// column layout without running a build.
func loadCategorySetup() (*category.Config, []category.ReferenceFilter, error) {
	if cfg.Categories.Path != "" {
		return category.LoadFile(cfg.Categories.Path)
	}
	return category.Default(), category.DefaultReferenceFilters(), nil
}

// parsePoint parses a "lat,lon" argument.
func parsePoint(arg string) (model.Point, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return model.Point{}, eris.Errorf("invalid coordinate %q (want lat,lon)", arg)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Point{}, eris.Wrapf(err, "invalid latitude in %q", arg)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Point{}, eris.Wrapf(err, "invalid longitude in %q", arg)
	}
	return model.Point{Lat: lat, Lon: lon}, nil
}
