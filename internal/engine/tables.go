package engine

// unitTrainSecs maps unit names to their base training time in seconds.
// Used by the building production simulation and the housing population
// timeline. Units missing from the table default to defaultTrainSecs.
var unitTrainSecs = map[string]float64{
	// Archery Range
	"Archer":         35,
	"Skirmisher":     22,
	"Cavalry Archer": 34,
	"Hand Cannoneer": 34,

	// Barracks
	"Militia":              21,
	"Man-at-Arms":          21,
	"Long Swordsman":       21,
	"Two-Handed Swordsman": 21,
	"Champion":             21,
	"Spearman":             22,
	"Pikeman":              22,
	"Halberdier":           22,
	"Eagle Scout":          60,
	"Eagle Warrior":        60,
	"Elite Eagle Warrior":  60,

	// Stable
	"Scout Cavalry":     30,
	"Light Cavalry":     30,
	"Hussar":            30,
	"Knight":            30,
	"Cavalier":          30,
	"Paladin":           30,
	"Camel Rider":       22,
	"Heavy Camel Rider": 22,
	"Battle Elephant":   31,

	// Siege Workshop
	"Battering Ram":  36,
	"Capped Ram":     36,
	"Siege Ram":      36,
	"Mangonel":       46,
	"Onager":         46,
	"Siege Onager":   46,
	"Scorpion":       30,
	"Heavy Scorpion": 30,
	"Bombard Cannon": 56,

	// Castle
	"Trebuchet": 50,
	"Petard":    25,

	// Other
	"Villager":       25,
	"Trade Cart":     51,
	"Trade Cog":      36,
	"Fishing Ship":   40,
	"Transport Ship": 45,
}

const defaultTrainSecs = 30

// researchDurationSecs maps technologies that occupy the Town Center queue to
// their base research time. Technologies absent from this table do not block
// villager production. Base durations only; civilization discounts are not
// modeled (a known idle-time underestimation for civs with cheap key techs).
var researchDurationSecs = map[string]float64{
	"Feudal Age":   130,
	"Castle Age":   160,
	"Imperial Age": 190,
	"Loom":         25,
	"Wheelbarrow":  75,
	"Hand Cart":    55,
	"Town Watch":   25,
	"Town Patrol":  40,
}

// ecoUnits are unit names that do not count as military for the
// first-military-timestamp extraction.
var ecoUnits = map[string]bool{
	"Villager":       true,
	"Scout Cavalry":  true,
	"Trade Cart":     true,
	"Trade Cog":      true,
	"Fishing Ship":   true,
	"Transport Ship": true,
	"Monk":           true,
	"Missionary":     true,
}

// buildingTypeFor maps a unit to the building that produces it.
func buildingTypeFor(unit string) string {
	switch unit {
	case "Archer", "Skirmisher", "Cavalry Archer", "Hand Cannoneer":
		return "Archery Range"
	case "Militia", "Man-at-Arms", "Long Swordsman", "Two-Handed Swordsman", "Champion",
		"Spearman", "Pikeman", "Halberdier", "Eagle Scout", "Eagle Warrior", "Elite Eagle Warrior":
		return "Barracks"
	case "Scout Cavalry", "Light Cavalry", "Hussar", "Knight", "Cavalier", "Paladin",
		"Camel Rider", "Heavy Camel Rider", "Battle Elephant":
		return "Stable"
	case "Battering Ram", "Capped Ram", "Siege Ram", "Mangonel", "Onager", "Siege Onager",
		"Scorpion", "Heavy Scorpion", "Bombard Cannon":
		return "Siege Workshop"
	case "Trebuchet", "Petard":
		return "Castle"
	case "Villager":
		return "Town Center"
	}
	return ""
}

// trainSecsFor returns the training time for a unit, falling back to the
// default for units missing from the table.
func trainSecsFor(unit string) float64 {
	if d, ok := unitTrainSecs[unit]; ok {
		return d
	}
	return defaultTrainSecs
}
