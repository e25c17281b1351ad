package dataset

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// LoadShapefile reads a point shapefile and returns POI records. The
// amenity/shop/name attributes are looked up case-insensitively in the
// DBF fields; absent fields read as empty. Non-point shapes are skipped
// and counted.
func LoadShapefile(path string) ([]model.POIRecord, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attr := func(name string) func() string {
		idx, ok := fieldIdx[name]
		if !ok {
			return func() string { return "" }
		}
		return func() string {
			return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
		}
	}
	amenity := attr("amenity")
	shopAttr := attr("shop")
	nameAttr := attr("name")

	var records []model.POIRecord
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok || point == nil {
			skipped++
			continue
		}

		records = append(records, model.POIRecord{
			Geometry: model.Point{Lat: point.Y, Lon: point.X},
			Amenity:  amenity(),
			Shop:     shopAttr(),
			Name:     nameAttr(),
		})
	}

	log := zap.L().With(zap.String("path", path))
	if skipped > 0 {
		log.Warn("dataset: skipped non-point shapes", zap.Int("skipped", skipped))
	}
	log.Info("dataset: loaded points of interest", zap.Int("records", len(records)))

	return records, nil
}
