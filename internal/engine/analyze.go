// Package engine reconstructs a match timeline from a replay's command
// stream: era intervals, TC queue idle simulation, housing bound estimation,
// and per-building production. The engine performs no I/O and holds no
// mutable state across matches, so callers may analyze matches in parallel.
package engine

import (
	"sort"

	"github.com/blzulian/agelytics/internal/civdata"
	"github.com/blzulian/agelytics/internal/decode"
	"github.com/blzulian/agelytics/internal/model"
)

// Analyzer runs the full per-match analysis pipeline.
type Analyzer struct {
	sim     model.SimulationConfig
	housing model.HousingConfig
}

func NewAnalyzer(sim model.SimulationConfig, housing model.HousingConfig) *Analyzer {
	return &Analyzer{sim: sim, housing: housing}
}

// Analyze turns a decoded replay into a fully analyzed match. All derived
// quantities are computed here; the returned match is never mutated afterward.
func (a *Analyzer) Analyze(raw *decode.RawMatch) *model.Match {
	m := &model.Match{
		FileHash:     raw.FileHash,
		FilePath:     raw.FilePath,
		PlayedAt:     raw.PlayedAt,
		DurationSecs: float64(raw.DurationMs) / 1000,
		MapName:      civdata.MapName(raw.MapID, raw.MapName),
		MapID:        raw.MapID,
		GameType:     raw.GameType,
		Diplomacy:    raw.Diplomacy,
		Speed:        raw.Speed,
		PopLimit:     raw.PopLimit,
		Completed:    raw.Completed,
		Version:      raw.Version,
		AgeUps:       ParseAgeUps(raw.AgeLines),
		Analysis:     map[string]*model.PlayerAnalysis{},
	}

	for _, rp := range raw.Players {
		if !rp.Human {
			continue
		}
		m.Players = append(m.Players, model.Player{
			Name:          rp.Name,
			Number:        rp.Number,
			CivID:         rp.Civilization,
			CivName:       civdata.CivName(rp.Civilization),
			ColorID:       rp.ColorID,
			Winner:        rp.Winner,
			UserID:        rp.UserID,
			Elo:           rp.RateSnapshot,
			Eapm:          rp.Eapm,
			ResourceScore: rp.ResourceScore,
		})
	}

	cmds := Normalize(raw.Commands)
	for i := range m.Players {
		name := m.Players[i].Name
		m.Analysis[name] = a.analyzePlayer(cmds, m.AgeUps, name, m.DurationSecs)
	}
	return m
}

func (a *Analyzer) analyzePlayer(cmds []model.Command, ageUps []model.AgeUp, actor string, durationSecs float64) *model.PlayerAnalysis {
	eras := BuildEraTimeline(ageUps, actor, durationSecs)
	queue := SimulateTcQueue(cmds, actor, eras, a.sim)
	housing := EstimateHousing(cmds, actor, eras, durationSecs, a.sim, a.housing)

	pa := &model.PlayerAnalysis{
		TcIdleSecs:  queue.IdleSecs,
		IdleGaps:    queue.Gaps,
		IdleByClass: queue.ByClass,
		TcIdleByEra: queue.ByEra,

		HousedLowerSecs:  housing.LowerSecs,
		HousedUpperSecs:  housing.UpperSecs,
		HousedLowerByEra: housing.LowerByEra,
		HousedUpperByEra: housing.UpperByEra,

		TcIdleEffectiveLower: queue.IdleSecs + housing.LowerSecs,
		TcIdleEffectiveUpper: queue.IdleSecs + housing.UpperSecs,

		Eras: eras,

		UnitProduction: map[string]int{},
		Buildings:      map[string]int{},
		Productions:    SimulateProduction(cmds, actor),
	}

	for _, c := range cmds {
		if c.Actor != actor {
			continue
		}
		switch c.Kind {
		case model.KindQueue:
			pa.UnitProduction[c.Queue.Unit] += c.Queue.Amount
			if c.Queue.Unit == "Villager" {
				pa.VillagerQueueTimestamps = append(pa.VillagerQueueTimestamps, c.TimestampSecs)
			} else if !ecoUnits[c.Queue.Unit] && pa.FirstMilitaryTimestamp == nil {
				ts := c.TimestampSecs
				pa.FirstMilitaryTimestamp = &ts
			}
		case model.KindBuild:
			pa.Buildings[c.Build.Building]++
			switch c.Build.Building {
			case "Farm":
				pa.FarmBuildTimestamps = append(pa.FarmBuildTimestamps, c.TimestampSecs)
			case "Town Center":
				pa.TcBuildTimestamps = append(pa.TcBuildTimestamps, c.TimestampSecs)
			}
		case model.KindResearch:
			pa.Researches = append(pa.Researches, model.Research{Tech: c.Research.Technology, TimestampSecs: c.TimestampSecs})
		}
	}
	sort.Float64s(pa.FarmBuildTimestamps)
	sort.Float64s(pa.TcBuildTimestamps)
	sort.Float64s(pa.VillagerQueueTimestamps)
	return pa
}
