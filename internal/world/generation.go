// World generation for the discrete location graph, using layered simplex
// noise for per-location yield variance: elevation and fertility layers
// drive each location's kind, property flags, and seasonal production
// yields, all deterministic from the run seed.
package world

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width  int   // grid columns
	Height int   // grid rows
	Seed   int64 // 0 is treated as 1 by Generate
}

// DefaultGenConfig returns a reasonably sized starting configuration: a 5x5
// grid of 25 locations, enough for several factions to each hold territory.
func DefaultGenConfig() GenConfig {
	return GenConfig{Width: 5, Height: 5, Seed: 1}
}

// SmallTestConfig returns a tiny world for rapid iteration and tests.
func SmallTestConfig() GenConfig {
	return GenConfig{Width: 2, Height: 2, Seed: 42}
}

// deriveKind maps layered elevation/fertility noise samples onto a
// location Kind.
func deriveKind(elev, fertility float64, x, y int) Kind {
	switch {
	case fertility > 0.7 && elev < 0.4:
		return KindFields
	case elev > 0.75:
		return KindMine
	case fertility > 0.55 && elev > 0.4 && elev < 0.7:
		return KindForest
	case elev < 0.2:
		return KindHarbor
	}
	// Deterministic fallback for cells the noise leaves unassigned, cycling
	// through hall, market, watchtower, bridge, and village by grid position.
	// A grid whose every cell matches a noise case gets none of these.
	switch (x + y) % 5 {
	case 0:
		return KindHall
	case 1:
		return KindMarket
	case 2:
		return KindWatchtower
	case 3:
		return KindBridge
	default:
		return KindVillage
	}
}

// Generate builds a rectangular grid of connected locations, deriving each
// location's kind and resource yields from layered opensimplex noise. Every
// location is adjacent to its (up to) 4 grid neighbors, and the single
// center cell (Width/2, Height/2) is always of the Crossroads kind.
func Generate(cfg GenConfig, r *Registry) {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	elevNoise := opensimplex.NewNormalized(seed)
	fertNoise := opensimplex.NewNormalized(seed + 1)

	ids := make([][]LocationID, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		ids[y] = make([]LocationID, cfg.Width)
		for x := 0; x < cfg.Width; x++ {
			elev := octaveNoise(elevNoise, float64(x), float64(y), 3, 0.3, 0.5)
			fert := octaveNoise(fertNoise, float64(x), float64(y), 3, 0.25, 0.5)

			kind := deriveKind(elev, fert, x, y)
			if x == cfg.Width/2 && y == cfg.Height/2 {
				kind = KindCrossroads
			}

			id := LocationID(fmt.Sprintf("loc_%d_%d", x, y))
			ids[y][x] = id

			loc := &Location{
				ID:         id,
				Name:       locationName(kind, x, y),
				Kind:       kind,
				Properties: make(map[Property]bool),
				Yields:     deriveYields(kind, elev, fert),
			}
			applyProperties(loc, kind)
			r.Register(loc)
		}
	}

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if x+1 < cfg.Width {
				r.Connect(ids[y][x], ids[y][x+1])
			}
			if y+1 < cfg.Height {
				r.Connect(ids[y][x], ids[y+1][x])
			}
		}
	}
}

func locationName(k Kind, x, y int) string {
	return fmt.Sprintf("%s (%d,%d)", kindLabel(k), x, y)
}

func kindLabel(k Kind) string {
	switch k {
	case KindVillage:
		return "Village"
	case KindFields:
		return "Fields"
	case KindForest:
		return "Forest"
	case KindBridge:
		return "Bridge"
	case KindCrossroads:
		return "Crossroads"
	case KindHall:
		return "Hall"
	case KindMarket:
		return "Market"
	case KindWatchtower:
		return "Watchtower"
	case KindMine:
		return "Mine"
	case KindHarbor:
		return "Harbor"
	default:
		return "Unknown"
	}
}

// deriveYields derives per-season production potential from noise-sampled
// elevation and fertility, scaled per location kind.
func deriveYields(k Kind, elev, fert float64) Yields {
	var y Yields
	switch k {
	case KindFields, KindVillage:
		y.Grain = uint64(40 + fert*60)
	case KindForest:
		y.Grain = uint64(10 + fert*20)
	case KindMine:
		y.Iron = uint64(20 + elev*50)
	case KindHarbor:
		y.Salt = uint64(15 + (1-elev)*30)
	default:
		y.Grain = uint64(10 + fert*10)
	}
	return y
}

func applyProperties(loc *Location, k Kind) {
	switch k {
	case KindHall:
		loc.Properties[PropFactionHQ] = true
		loc.Benefits.Shelter = true
		loc.Benefits.SocialHub = 8
	case KindCrossroads:
		loc.Properties[PropTradeRoute] = true
		loc.Properties[PropNeutral] = true
	case KindMarket:
		loc.Properties[PropTradeRoute] = true
		loc.Benefits.SocialHub = 6
	case KindWatchtower:
		loc.Properties[PropStrategic] = true
		loc.Properties[PropDefensible] = true
		loc.Benefits.Safety = 7
	case KindForest:
		loc.Properties[PropHiddenMeetingSpot] = true
	case KindFields, KindHarbor, KindMine:
		loc.Properties[PropFoodProduction] = k != KindMine
	}
	loc.Benefits.Water = k == KindHarbor || k == KindFields
	loc.Benefits.FoodStores = k == KindFields || k == KindVillage
	loc.Benefits.RestQuality = 5
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
