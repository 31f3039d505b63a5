// Package metrics computes derived per-match metrics from analyzed matches.
//
// Every function returns a pointer (or nil slice) so that "cannot be
// computed" stays distinct from "value is zero". Callers must never coerce a
// nil metric to a numeric default.
package metrics

import (
	"math"
	"sort"

	"github.com/blzulian/agelytics/internal/model"
)

// TcCountPoint is one step of the TC count progression.
type TcCountPoint struct {
	TimestampSecs float64
	Count         int
}

// TcIdlePercent returns TC idle time as a percentage of match duration.
// Nil when the duration is unusable or the player was not analyzed.
func TcIdlePercent(m *model.Match, player string) *float64 {
	if m.DurationSecs <= 0 {
		return nil
	}
	pa, ok := m.Analysis[player]
	if !ok {
		return nil
	}
	v := round2(pa.TcIdleSecs / m.DurationSecs * 100)
	return &v
}

// FarmGapAverage returns the mean gap between consecutive farm builds at or
// after the player's Castle Age time. Farm depletion is not in the replay, so
// reseed commands are the proxy; gaps over 120s are pauses or transitions,
// not reseeds, and are excluded. Nil when Castle Age was never reached or
// fewer than two qualifying farms exist.
func FarmGapAverage(m *model.Match, player string) *float64 {
	castleTs, ok := m.AgeUpTimestamp(player, model.EraCastle)
	if !ok {
		return nil
	}
	pa, ok := m.Analysis[player]
	if !ok {
		return nil
	}

	var post []float64
	for _, ts := range pa.FarmBuildTimestamps {
		if ts >= castleTs {
			post = append(post, ts)
		}
	}
	if len(post) < 2 {
		return nil
	}
	sort.Float64s(post)

	var sum float64
	var n int
	for i := 1; i < len(post); i++ {
		gap := post[i] - post[i-1]
		if gap > 0 && gap <= 120 {
			sum += gap
			n++
		}
	}
	if n == 0 {
		return nil
	}
	v := round2(sum / float64(n))
	return &v
}

// MilitaryTimingIndex returns first-military-unit time divided by Castle Age
// time. Values well below 1 indicate a rush, well above 1 a boom. Nil when
// either timestamp is missing or Castle Age time is non-positive.
func MilitaryTimingIndex(m *model.Match, player string) *float64 {
	pa, ok := m.Analysis[player]
	if !ok || pa.FirstMilitaryTimestamp == nil {
		return nil
	}
	castleTs, ok := m.AgeUpTimestamp(player, model.EraCastle)
	if !ok || castleTs <= 0 {
		return nil
	}
	v := round3(*pa.FirstMilitaryTimestamp / castleTs)
	return &v
}

// TcCountProgression returns the cumulative TC count over time, starting at
// (0, 1) for the initial TC and shifting each build command by the
// construction delay. When raw building totals show additional TCs but no
// build timestamps survived, it returns nil rather than fabricating
// placements in time.
func TcCountProgression(m *model.Match, player string, buildDelaySecs float64) []TcCountPoint {
	pa, ok := m.Analysis[player]
	if !ok {
		return nil
	}

	progression := []TcCountPoint{{TimestampSecs: 0, Count: 1}}
	if len(pa.TcBuildTimestamps) == 0 {
		if pa.Buildings["Town Center"] > 0 {
			return nil
		}
		return progression
	}

	ts := append([]float64(nil), pa.TcBuildTimestamps...)
	sort.Float64s(ts)
	for i, t := range ts {
		progression = append(progression, TcCountPoint{TimestampSecs: t + buildDelaySecs, Count: i + 2})
	}
	return progression
}

// VillagerRateByEra returns villagers queued per minute for each era the
// player reached. Nil when no villager-queue timestamps exist at all.
func VillagerRateByEra(m *model.Match, player string) map[model.Era]float64 {
	pa, ok := m.Analysis[player]
	if !ok || len(pa.VillagerQueueTimestamps) == 0 {
		return nil
	}

	rates := map[model.Era]float64{}
	for _, iv := range pa.Eras {
		mins := iv.Duration() / 60
		if mins <= 0 {
			continue
		}
		count := 0
		for _, ts := range pa.VillagerQueueTimestamps {
			if ts >= iv.StartSecs && ts < iv.EndSecs {
				count++
			}
		}
		rates[iv.Era] = round2(float64(count) / mins)
	}
	return rates
}

// ResourceEfficiency returns end-of-game resource score per villager queued.
// Nil when the score is absent or no villagers were queued; the score is
// never estimated when the decoder did not supply one.
func ResourceEfficiency(m *model.Match, player string) *float64 {
	p, ok := m.PlayerByName(player)
	if !ok || p.ResourceScore == nil {
		return nil
	}
	pa, ok := m.Analysis[player]
	if !ok {
		return nil
	}
	villagers := pa.UnitProduction["Villager"]
	if villagers <= 0 {
		return nil
	}
	v := round2(float64(*p.ResourceScore) / float64(villagers))
	return &v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
