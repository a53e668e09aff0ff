// Package visitor serves the static pilgrim guide: heritage sites, food
// spots and parking lots.
package visitor

import (
	"context"
	_ "embed"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ParkingAvailable = "available"
	ParkingModerate  = "moderate"
	ParkingFull      = "full"
)

//go:embed catalog.yml
var catalogYAML []byte

type HeritageSite struct {
	Title       string  `yaml:"title" json:"title"`
	Location    string  `yaml:"location" json:"location"`
	Duration    string  `yaml:"duration" json:"duration"`
	Rating      float64 `yaml:"rating" json:"rating"`
	Image       string  `yaml:"image" json:"image"`
	Description string  `yaml:"description" json:"description"`
}

type FoodSpot struct {
	Name       string `yaml:"name" json:"name"`
	Specialty  string `yaml:"specialty" json:"specialty"`
	Location   string `yaml:"location" json:"location"`
	Timing     string `yaml:"timing" json:"timing"`
	PriceRange string `yaml:"price_range" json:"price_range"`
	Image      string `yaml:"image" json:"image"`
}

type ParkingLot struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Capacity  int    `yaml:"capacity" json:"capacity"`
	Occupancy int    `yaml:"occupancy" json:"occupancy"` // percent
	Status    string `yaml:"-" json:"status"`
}

type Catalog struct {
	Heritage []HeritageSite `yaml:"heritage"`
	Food     []FoodSpot     `yaml:"food"`
	Parking  []ParkingLot   `yaml:"parking"`
}

// ParkingStatus classifies an occupancy percentage.
func ParkingStatus(occupancy int) string {
	switch {
	case occupancy >= 90:
		return ParkingFull
	case occupancy >= 60:
		return ParkingModerate
	default:
		return ParkingAvailable
	}
}

// Translator localizes display strings.
type Translator interface {
	Translate(ctx context.Context, texts []string, to, from string) []string
}

// Guide serves the catalog, optionally translated.
type Guide struct {
	catalog    Catalog
	translator Translator
}

var (
	loadOnce sync.Once
	loaded   Catalog
	loadErr  error
)

// Load parses the bundled catalog.
func Load() (Catalog, error) {
	loadOnce.Do(func() {
		loadErr = errors.Wrap(yaml.Unmarshal(catalogYAML, &loaded), "parse visitor catalog")
		for i := range loaded.Parking {
			loaded.Parking[i].Status = ParkingStatus(loaded.Parking[i].Occupancy)
		}
	})
	return loaded, loadErr
}

func NewGuide(translator Translator) (*Guide, error) {
	catalog, err := Load()
	if err != nil {
		return nil, err
	}
	return &Guide{catalog: catalog, translator: translator}, nil
}

func (g *Guide) localize(ctx context.Context, lang string, texts []string) []string {
	if g.translator == nil || lang == "" {
		return texts
	}
	return g.translator.Translate(ctx, texts, lang, "")
}

// Heritage lists heritage sites with titles and descriptions in lang.
func (g *Guide) Heritage(ctx context.Context, lang string) []HeritageSite {
	sites := append([]HeritageSite(nil), g.catalog.Heritage...)
	texts := make([]string, 0, len(sites)*3)
	for _, s := range sites {
		texts = append(texts, s.Title, s.Description, s.Duration)
	}
	out := g.localize(ctx, lang, texts)
	for i := range sites {
		sites[i].Title = out[i*3]
		sites[i].Description = out[i*3+1]
		sites[i].Duration = out[i*3+2]
	}
	return sites
}

// Food lists food spots with specialties in lang.
func (g *Guide) Food(ctx context.Context, lang string) []FoodSpot {
	spots := append([]FoodSpot(nil), g.catalog.Food...)
	texts := make([]string, 0, len(spots))
	for _, s := range spots {
		texts = append(texts, s.Specialty)
	}
	out := g.localize(ctx, lang, texts)
	for i := range spots {
		spots[i].Specialty = out[i]
	}
	return spots
}

// Parking lists lots with their derived status.
func (g *Guide) Parking(ctx context.Context, lang string) []ParkingLot {
	lots := append([]ParkingLot(nil), g.catalog.Parking...)
	texts := make([]string, 0, len(lots))
	for _, l := range lots {
		texts = append(texts, l.Type)
	}
	out := g.localize(ctx, lang, texts)
	for i := range lots {
		lots[i].Type = out[i]
	}
	return lots
}
