// Package dataset loads POI and training inputs from GeoJSON, shapefile
// and CSV sources into in-memory collections for the feature engine.
package dataset

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// LoadGeoJSON reads an OSM GeoJSON export and returns its point features
// as POI records. Features without a point geometry are skipped and
// counted; that is a data gap, not an error.
func LoadGeoJSON(path string) ([]model.POIRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read geojson %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse geojson %s", path)
	}

	records := make([]model.POIRecord, 0, len(fc.Features))
	var skipped int

	for _, feature := range fc.Features {
		point, ok := feature.Geometry.(*geom.Point)
		if !ok || point == nil {
			skipped++
			continue
		}
		coords := point.Coords()
		if len(coords) < 2 {
			skipped++
			continue
		}

		records = append(records, model.POIRecord{
			// GeoJSON coordinate order is lon, lat.
			Geometry: model.Point{Lat: coords[1], Lon: coords[0]},
			Amenity:  stringProp(feature.Properties, "amenity"),
			Shop:     stringProp(feature.Properties, "shop"),
			Name:     stringProp(feature.Properties, "name"),
		})
	}

	log := zap.L().With(zap.String("path", path))
	if skipped > 0 {
		log.Warn("dataset: skipped features without point geometry", zap.Int("skipped", skipped))
	}
	log.Info("dataset: loaded points of interest", zap.Int("records", len(records)))

	return records, nil
}

func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
