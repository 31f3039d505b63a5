package engine

import (
	"math"
	"sort"

	"github.com/blzulian/agelytics/internal/model"
)

// EstimateHousing computes the dual-bound housed-time estimate for one actor.
//
// The lower bound is conservative: a villager-queue gap only counts as housed
// when at least two house builds cluster around it. The upper bound is
// liberal: a full population/capacity/death timeline sampled every second,
// where any second with produced population (net of deaths) at or above
// capacity counts as housed. After cross-validation the lower bound never
// exceeds the upper for any era.
func EstimateHousing(cmds []model.Command, actor string, eras model.EraTimeline, durationSecs float64, sim model.SimulationConfig, housing model.HousingConfig) model.HousingResult {
	res := model.HousingResult{
		LowerByEra: map[model.Era]float64{},
		UpperByEra: map[model.Era]float64{},
	}

	var mine []model.Command
	for _, c := range cmds {
		if c.Actor == actor {
			mine = append(mine, c)
		}
	}

	housingLower(mine, eras, sim, housing, res.LowerByEra)
	housingUpper(mine, eras, durationSecs, sim, housing, res.UpperByEra)

	for _, era := range model.EraOrder {
		lower, upper := res.LowerByEra[era], res.UpperByEra[era]
		if upper < lower {
			// the gap+house-burst heuristic fired where the structural
			// simulation says housing was impossible: false positive
			res.LowerByEra[era] = 0
			lower = 0
		}
		res.LowerSecs += lower
		res.UpperSecs += upper
	}
	return res
}

// housingLower scans consecutive villager-queue timestamps for gaps beyond
// one training cycle plus tolerance, and attributes the excess to housing
// when at least two house builds occurred near the gap.
func housingLower(cmds []model.Command, eras model.EraTimeline, sim model.SimulationConfig, housing model.HousingConfig, byEra map[model.Era]float64) {
	var vills, houses []float64
	for _, c := range cmds {
		switch {
		case c.Kind == model.KindQueue && c.Queue.Unit == "Villager":
			vills = append(vills, c.TimestampSecs)
		case c.Kind == model.KindBuild && c.Build.Building == "House":
			houses = append(houses, c.TimestampSecs)
		}
	}
	sort.Float64s(vills)
	sort.Float64s(houses)

	threshold := sim.VillagerTrainSecs + sim.IdleToleranceSecs
	for i := 1; i < len(vills); i++ {
		start, end := vills[i-1], vills[i]
		gap := end - start
		if gap <= threshold {
			continue
		}
		if countInRange(houses, start-5, end+10) < 2 {
			continue
		}
		housed := gap - sim.VillagerTrainSecs
		mid := (start + end) / 2
		if era, ok := eras.At(mid); ok {
			byEra[era] += housed
		}
	}
}

func countInRange(sorted []float64, lo, hi float64) int {
	n := 0
	for _, v := range sorted {
		if v > hi {
			break
		}
		if v >= lo {
			n++
		}
	}
	return n
}

// popEvent is a +delta step in one of the upper-bound timelines.
type popEvent struct {
	at    float64
	delta int
}

// housingUpper builds capacity, produced-population, and death step functions
// and samples every integer second of the match.
func housingUpper(cmds []model.Command, eras model.EraTimeline, durationSecs float64, sim model.SimulationConfig, housing model.HousingConfig, byEra map[model.Era]float64) {
	if durationSecs <= 0 {
		return
	}

	var capEvents, popEvents, deathEvents []popEvent
	var militaryCompletions []float64
	lastAction := map[int]float64{}

	for _, c := range cmds {
		switch c.Kind {
		case model.KindBuild:
			switch c.Build.Building {
			case "House":
				capEvents = append(capEvents, popEvent{at: c.TimestampSecs + housing.HouseBuildSecs, delta: 5})
			case "Town Center":
				capEvents = append(capEvents, popEvent{at: c.TimestampSecs + sim.TcBuildDelaySecs, delta: 5})
			}
		case model.KindQueue:
			d := trainSecsFor(c.Queue.Unit)
			for i := 0; i < c.Queue.Amount; i++ {
				done := c.TimestampSecs + d*float64(i+1)
				popEvents = append(popEvents, popEvent{at: done, delta: 1})
				if !ecoUnits[c.Queue.Unit] {
					militaryCompletions = append(militaryCompletions, done)
				}
			}
		case model.KindDelete:
			deathEvents = append(deathEvents, popEvent{at: c.TimestampSecs, delta: 1})
		case model.KindActivity:
			for _, id := range c.ObjectIDs {
				if c.TimestampSecs > lastAction[id] {
					lastAction[id] = c.TimestampSecs
				}
			}
		}
	}

	deathEvents = append(deathEvents, inferredMilitaryDeaths(lastAction, militaryCompletions, durationSecs, housing)...)

	sortEvents := func(evs []popEvent) {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].at < evs[j].at })
	}
	sortEvents(capEvents)
	sortEvents(popEvents)
	sortEvents(deathEvents)

	capacity, pop, deaths := 5, 4, 0
	ci, pi, di := 0, 0, 0
	for t := 0.0; t <= durationSecs; t++ {
		for ci < len(capEvents) && capEvents[ci].at <= t {
			capacity += capEvents[ci].delta
			ci++
		}
		for pi < len(popEvents) && popEvents[pi].at <= t {
			pop += popEvents[pi].delta
			pi++
		}
		for di < len(deathEvents) && deathEvents[di].at <= t {
			deaths += deathEvents[di].delta
			di++
		}
		if pop-deaths >= capacity {
			if era, ok := eras.At(t); ok {
				byEra[era]++
			}
		}
	}
}

// inferredMilitaryDeaths applies the inactivity heuristic: an object whose
// last recorded action predates match end by more than the inactivity window
// is presumed dead a grace period after that action. The number of inferred
// deaths never exceeds the number of military units completed by the presumed
// death time, keeping the heuristic from killing units that never existed.
func inferredMilitaryDeaths(lastAction map[int]float64, militaryCompletions []float64, durationSecs float64, housing model.HousingConfig) []popEvent {
	if len(lastAction) == 0 || len(militaryCompletions) == 0 {
		return nil
	}
	cutoff := durationSecs - housing.MilitaryInactivitySec

	stale := make([]float64, 0, len(lastAction))
	for _, ts := range lastAction {
		if ts < cutoff {
			stale = append(stale, ts)
		}
	}
	sort.Float64s(stale)
	sort.Float64s(militaryCompletions)

	var deaths []popEvent
	for _, ts := range stale {
		at := ts + housing.DeathGraceSecs
		completed := sort.SearchFloat64s(militaryCompletions, math.Nextafter(at, math.Inf(1)))
		if len(deaths) >= completed {
			continue
		}
		deaths = append(deaths, popEvent{at: at, delta: 1})
	}
	return deaths
}
