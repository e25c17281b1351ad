package category

import "github.com/sells-group/hexfeat-cli/internal/model"

// Flags holds one boolean per configured category for a single record.
// Every configured category name is present as a key.
type Flags map[string]bool

// Classify tags a record against the configured categories. Empty tag
// fields never match. Because tags are disjoint within a namespace, at
// most one shop flag and one amenity flag can be true.
func (c *Config) Classify(rec model.POIRecord) Flags {
	flags := make(Flags, len(c.shop)+len(c.amenity))
	for _, cat := range c.shop {
		flags[cat.Name] = false
	}
	for _, cat := range c.amenity {
		flags[cat.Name] = false
	}

	if rec.Shop != "" {
		if name, ok := c.shopByTag[rec.Shop]; ok {
			flags[name] = true
		}
	}
	if rec.Amenity != "" {
		if name, ok := c.amenityByTag[rec.Amenity]; ok {
			flags[name] = true
		}
	}
	return flags
}
