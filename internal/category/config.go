// Package category classifies raw POI records into named semantic classes
// driven by immutable tag-list configuration, and extracts named reference
// coordinate sets used as distance targets.
package category

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Category maps a class name to the OSM tag values that belong to it.
type Category struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// Config holds the ordered shop and amenity category definitions. The two
// namespaces are independent: a record can satisfy at most one category
// per namespace. Config is built once and never mutated afterwards, so it
// is safe to share across workers.
type Config struct {
	shop    []Category
	amenity []Category

	shopByTag    map[string]string
	amenityByTag map[string]string
}

// NewConfig validates the category lists and builds the tag lookup
// tables. Two categories in the same namespace sharing a tag is a
// configuration error.
func NewConfig(shop, amenity []Category) (*Config, error) {
	shopByTag, err := buildTagIndex("shop", shop)
	if err != nil {
		return nil, err
	}
	amenityByTag, err := buildTagIndex("amenity", amenity)
	if err != nil {
		return nil, err
	}
	return &Config{
		shop:         shop,
		amenity:      amenity,
		shopByTag:    shopByTag,
		amenityByTag: amenityByTag,
	}, nil
}

func buildTagIndex(namespace string, categories []Category) (map[string]string, error) {
	seen := make(map[string]bool, len(categories))
	byTag := make(map[string]string)
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, eris.Errorf("category: unnamed %s category", namespace)
		}
		if seen[cat.Name] {
			return nil, eris.Errorf("category: duplicate %s category %q", namespace, cat.Name)
		}
		seen[cat.Name] = true
		for _, tag := range cat.Tags {
			if owner, dup := byTag[tag]; dup {
				return nil, eris.Errorf("category: %s tag %q claimed by both %q and %q", namespace, tag, owner, cat.Name)
			}
			byTag[tag] = cat.Name
		}
	}
	return byTag, nil
}

// Names returns the output column order: shop categories first, then
// amenity categories, each in declaration order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.shop)+len(c.amenity))
	for _, cat := range c.shop {
		names = append(names, cat.Name)
	}
	for _, cat := range c.amenity {
		names = append(names, cat.Name)
	}
	return names
}

// Default returns the built-in category configuration mirroring the
// OSM tag lists the model was originally trained against.
func Default() *Config {
	cfg, err := NewConfig(defaultShopCategories(), defaultAmenityCategories())
	if err != nil {
		// The built-in lists are disjoint; reaching this is a programming error.
		panic(err)
	}
	return cfg
}

func defaultShopCategories() []Category {
	return []Category{
		{Name: "groceries_shop", Tags: []string{
			"bakery", "greengrocer", "butcher", "alcohol", "beverages",
			"convenience", "hardware", "department_store", "laundry",
		}},
		{Name: "lux_shop", Tags: []string{"florist", "gift", "confectionery"}},
		{Name: "tech_shop", Tags: []string{"electronics", "mobile_phone", "beauty", "optician", "shoes"}},
		{Name: "car_shop", Tags: []string{"car_parts", "tyres"}},
		{Name: "other_shop", Tags: []string{"yes"}},
	}
}

func defaultAmenityCategories() []Category {
	return []Category{
		{Name: "health", Tags: []string{"doctors", "veterinary"}},
		{Name: "security", Tags: []string{"police", "fire"}},
		{Name: "financial", Tags: []string{"bank", "atm", "bureau_de_change"}},
		{Name: "leisure", Tags: []string{"restaurant", "internet_cafe"}},
		{Name: "education", Tags: []string{"school", "college"}},
		{Name: "cars", Tags: []string{"parking_entrance", "parking", "bus_station"}},
		{Name: "public", Tags: []string{"shelter", "post_office", "townhall", "marketplace"}},
		{Name: "negative", Tags: []string{
			"waste_disposal", "love_hotel", "prison", "gambling",
			"stripclub", "sanitary_dump_station", "casino", "grave_yard",
		}},
		{Name: "sea", Tags: []string{
			"boat_rental", "scuba_diving", "ferry_terminal",
			"boat_storage", "dive_centre",
		}},
	}
}

// fileSchema is the on-disk YAML layout for category overrides.
type fileSchema struct {
	Categories struct {
		Shop    []Category `yaml:"shop"`
		Amenity []Category `yaml:"amenity"`
	} `yaml:"categories"`
	ReferenceSets []ReferenceFilter `yaml:"reference_sets"`
}

// LoadFile reads a category configuration file. Missing sections fall
// back to the built-in defaults.
func LoadFile(path string) (*Config, []ReferenceFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "category: read config %s", path)
	}

	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, eris.Wrap(err, "category: parse config")
	}

	shop := file.Categories.Shop
	if len(shop) == 0 {
		shop = defaultShopCategories()
	}
	amenity := file.Categories.Amenity
	if len(amenity) == 0 {
		amenity = defaultAmenityCategories()
	}
	cfg, err := NewConfig(shop, amenity)
	if err != nil {
		return nil, nil, err
	}

	filters := file.ReferenceSets
	if len(filters) == 0 {
		filters = DefaultReferenceFilters()
	}
	return cfg, filters, nil
}
