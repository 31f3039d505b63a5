package metrics

import (
	"fmt"
	"sort"

	"github.com/blzulian/agelytics/internal/model"
)

// KeyTech is one tracked technology research with its category.
type KeyTech struct {
	Tech          string
	TimestampSecs float64
	Category      string
}

// TechBenchmark holds rough high-level ranked 1v1 timing thresholds.
type TechBenchmark struct {
	Good    float64
	Average float64
	Poor    float64
}

// keyTechCategories maps tracked technologies to their category. Categories
// are checked in a fixed order so techs listed in more than one place
// (Ballistics, Blast Furnace) resolve consistently.
var keyTechOrder = []string{"Economy", "Military", "Blacksmith", "University"}

var keyTechCategories = map[string]map[string]bool{
	"Economy": {
		"Loom": true, "Double-Bit Axe": true, "Bow Saw": true, "Two-Man Saw": true,
		"Horse Collar": true, "Heavy Plow": true, "Crop Rotation": true,
		"Wheelbarrow": true, "Hand Cart": true,
		"Gold Mining": true, "Gold Shaft Mining": true,
		"Stone Mining": true, "Stone Shaft Mining": true,
	},
	"Military": {
		"Man-at-Arms": true, "Long Swordsman": true, "Two-Handed Swordsman": true,
		"Champion": true, "Fletching": true, "Bodkin Arrow": true, "Bracer": true,
		"Ballistics": true, "Husbandry": true, "Squires": true, "Thumb Ring": true,
		"Parthian Tactics": true, "Conscription": true, "Bloodlines": true,
		"Blast Furnace": true,
	},
	"Blacksmith": {
		"Forging": true, "Iron Casting": true, "Blast Furnace": true,
		"Scale Mail Armor": true, "Chain Mail Armor": true, "Plate Mail Armor": true,
		"Scale Barding Armor": true, "Chain Barding Armor": true, "Plate Barding Armor": true,
		"Padded Archer Armor": true, "Leather Archer Armor": true, "Ring Archer Armor": true,
	},
	"University": {
		"Masonry": true, "Architecture": true, "Fortified Wall": true,
		"Ballistics": true, "Chemistry": true, "Siege Engineers": true,
		"Heated Shot": true, "Murder Holes": true, "Treadmill Crane": true,
		"Arrowslits": true,
	},
}

var techBenchmarks = map[string]TechBenchmark{
	"Loom":             {Good: 30, Average: 60, Poor: 120},
	"Double-Bit Axe":   {Good: 480, Average: 600, Poor: 720},
	"Horse Collar":     {Good: 540, Average: 660, Poor: 780},
	"Wheelbarrow":      {Good: 600, Average: 720, Poor: 900},
	"Bow Saw":          {Good: 900, Average: 1080, Poor: 1260},
	"Heavy Plow":       {Good: 960, Average: 1140, Poor: 1320},
	"Hand Cart":        {Good: 1200, Average: 1380, Poor: 1560},
	"Man-at-Arms":      {Good: 720, Average: 840, Poor: 960},
	"Fletching":        {Good: 480, Average: 600, Poor: 720},
	"Bodkin Arrow":     {Good: 900, Average: 1080, Poor: 1260},
	"Ballistics":       {Good: 1020, Average: 1200, Poor: 1380},
	"Forging":          {Good: 600, Average: 720, Poor: 900},
	"Iron Casting":     {Good: 900, Average: 1080, Poor: 1260},
	"Scale Mail Armor": {Good: 720, Average: 900, Poor: 1080},
}

// KeyTechs extracts the player's tracked technology timings, sorted by
// timestamp. Untracked techs are dropped.
func KeyTechs(m *model.Match, player string) []KeyTech {
	pa, ok := m.Analysis[player]
	if !ok {
		return nil
	}

	var techs []KeyTech
	for _, r := range pa.Researches {
		for _, cat := range keyTechOrder {
			if keyTechCategories[cat][r.Tech] {
				techs = append(techs, KeyTech{Tech: r.Tech, TimestampSecs: r.TimestampSecs, Category: cat})
				break
			}
		}
	}
	sort.SliceStable(techs, func(i, j int) bool {
		return techs[i].TimestampSecs < techs[j].TimestampSecs
	})
	return techs
}

// AssessTiming grades a tech timing against its benchmark.
// Returns "Good", "Average", "Poor", or "Unknown" for unbenchmarked techs.
func AssessTiming(tech string, timestampSecs float64) string {
	b, ok := techBenchmarks[tech]
	if !ok {
		return "Unknown"
	}
	switch {
	case timestampSecs <= b.Good:
		return "Good"
	case timestampSecs <= b.Average:
		return "Average"
	default:
		return "Poor"
	}
}

// FormatTiming renders a timestamp as MM:SS.
func FormatTiming(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
