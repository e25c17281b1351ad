package category

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/hexfeat-cli/internal/model"
)

// ReferenceFilter selects POI records for one named reference coordinate
// set. A record matches if its amenity is in Amenities, or its shop is in
// Shops, or its name contains any NameContains substring (case-folded).
type ReferenceFilter struct {
	Name         string   `yaml:"name"`
	Amenities    []string `yaml:"amenities,omitempty"`
	Shops        []string `yaml:"shops,omitempty"`
	NameContains []string `yaml:"name_contains,omitempty"`
}

// DefaultReferenceFilters returns the reference sets the downstream model
// consumes as distance features.
func DefaultReferenceFilters() []ReferenceFilter {
	return []ReferenceFilter{
		{Name: "negative_points", Amenities: []string{"waste_disposal", "prison"}},
		{Name: "supermaxi_points", NameContains: []string{"supermaxi", "megamaxi"}},
		{Name: "car_points", Shops: []string{"car_parts", "tyres"}},
		{Name: "education_points", Amenities: []string{"university", "kindergarten"}},
		{Name: "transport_points", Amenities: []string{"bus_station", "parking", "taxi"}},
		{Name: "security_points", Amenities: []string{"fire_station"}},
	}
}

// ExtractReferenceSets builds the named reference coordinate sets from
// the raw records. An empty set is kept (it degrades to the sentinel
// distance downstream) and logged.
func ExtractReferenceSets(records []model.POIRecord, filters []ReferenceFilter) []model.ReferenceSet {
	fold := cases.Fold()

	sets := make([]model.ReferenceSet, 0, len(filters))
	for _, f := range filters {
		amenities := toSet(f.Amenities)
		shops := toSet(f.Shops)

		folded := make([]string, 0, len(f.NameContains))
		for _, sub := range f.NameContains {
			folded = append(folded, fold.String(sub))
		}

		var points []model.Point
		for _, rec := range records {
			if matchesFilter(rec, amenities, shops, folded, fold) {
				points = append(points, rec.Geometry)
			}
		}

		if len(points) == 0 {
			zap.L().Warn("category: reference set is empty", zap.String("set", f.Name))
		} else {
			zap.L().Info("category: extracted reference set",
				zap.String("set", f.Name),
				zap.Int("points", len(points)),
			)
		}
		sets = append(sets, model.ReferenceSet{Name: f.Name, Points: points})
	}
	return sets
}

func matchesFilter(rec model.POIRecord, amenities, shops map[string]bool, nameSubs []string, fold cases.Caser) bool {
	if rec.Amenity != "" && amenities[rec.Amenity] {
		return true
	}
	if rec.Shop != "" && shops[rec.Shop] {
		return true
	}
	if rec.Name != "" && len(nameSubs) > 0 {
		name := fold.String(rec.Name)
		for _, sub := range nameSubs {
			if strings.Contains(name, sub) {
				return true
			}
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
