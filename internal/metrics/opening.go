package metrics

import (
	"fmt"

	"github.com/blzulian/agelytics/internal/model"
)

// ClassifyOpening labels a player's early-game strategy from unit production,
// building counts, researches, and age-up timing. The rules are fixed and
// deterministic; the same counts always yield the same label.
//
// Possible labels: Drush, Pre-Mill Drush, M@A (Dark Age); Scout Rush,
// Straight Archers, Archers+Skirms, Scouts→Archers, Full Feudal (Feudal);
// Drush→FC, Fast Castle, Tower Rush; combined Dark→Feudal forms; Unknown.
func ClassifyOpening(m *model.Match, player string) string {
	pa, ok := m.Analysis[player]
	if !ok {
		return "Unknown"
	}

	feudalTs, hasFeudal := m.AgeUpTimestamp(player, model.EraFeudal)
	castleTs, hasCastle := m.AgeUpTimestamp(player, model.EraCastle)

	militia := pa.UnitProduction["Militia"]
	maaResearched := false
	for _, r := range pa.Researches {
		if r.Tech == "Man-at-Arms" {
			maaResearched = true
			break
		}
	}

	darkAge := ""
	if militia > 0 {
		// four or more militia out of one barracks means production started
		// before the mill went up
		if militia >= 4 {
			darkAge = "Pre-Mill Drush"
		} else {
			darkAge = "Drush"
		}
		if maaResearched {
			darkAge = "M@A"
		}
	}

	ranges := pa.Buildings["Archery Range"]
	stables := pa.Buildings["Stable"]
	barracks := pa.Buildings["Barracks"]
	archers := pa.UnitProduction["Archer"]
	skirms := pa.UnitProduction["Skirmisher"]
	scouts := pa.UnitProduction["Scout Cavalry"]
	spears := pa.UnitProduction["Spearman"]

	feudal := ""
	switch {
	case stables > 0 && scouts > 0:
		if ranges > 0 && archers > scouts {
			feudal = "Scouts→Archers"
		} else {
			feudal = "Scout Rush"
		}
	case ranges > 0:
		switch {
		case skirms > 0 && archers > 0:
			feudal = "Archers+Skirms"
		case archers > 0:
			feudal = "Straight Archers"
		default:
			feudal = "Full Feudal"
		}
	case barracks > 0 && spears > 0:
		feudal = "Full Feudal"
	}

	fastCastle := false
	if hasFeudal && hasCastle {
		if castleTs-feudalTs < 200 || feudalTs > 650 {
			fastCastle = true
		}
	}

	towers := pa.Buildings["Watch Tower"] + pa.Buildings["Guard Tower"]
	if towers >= 2 {
		return "Tower Rush"
	}

	if fastCastle {
		if darkAge == "Drush" {
			return "Drush→FC"
		}
		return "Fast Castle"
	}

	switch {
	case darkAge != "" && feudal != "":
		return fmt.Sprintf("%s→%s", darkAge, feudal)
	case darkAge != "":
		return darkAge
	case feudal != "":
		return feudal
	}
	return "Unknown"
}
