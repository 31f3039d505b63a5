package engine

import (
	"sort"

	"github.com/blzulian/agelytics/internal/model"
)

type queueTask struct {
	clickTime float64
	duration  float64
}

// tcTimeline is the step function tc_count(t): one Town Center at t=0, plus
// one for each build command once its construction delay elapses. Never below
// 1; TC destruction is not modeled.
type tcTimeline struct {
	// activation timestamps of additional TCs, sorted ascending
	activations []float64
}

func newTcTimeline(tcBuildTimestamps []float64, buildDelaySecs float64) *tcTimeline {
	act := make([]float64, len(tcBuildTimestamps))
	for i, ts := range tcBuildTimestamps {
		act[i] = ts + buildDelaySecs
	}
	sort.Float64s(act)
	return &tcTimeline{activations: act}
}

func (tl *tcTimeline) countAt(t float64) int {
	n := 1
	for _, a := range tl.activations {
		if a > t {
			break
		}
		n++
	}
	return n
}

// SimulateTcQueue replays one actor's villager-queue and TC-research commands
// against the time-varying Town Center count, producing total idle seconds,
// the per-class gap breakdown, and per-era idle attribution.
//
// Only gaps longer than the tolerance count; a qualifying gap contributes its
// full duration to the total. Effective task duration is divided by the TC
// count at click time, modeling parallel production.
func SimulateTcQueue(cmds []model.Command, actor string, eras model.EraTimeline, sim model.SimulationConfig) model.QueueSimResult {
	research := researchTable(sim)

	var tasks []queueTask
	var tcBuilds []float64
	for _, c := range cmds {
		if c.Actor != actor {
			continue
		}
		switch c.Kind {
		case model.KindQueue:
			if c.Queue.Unit != "Villager" {
				continue
			}
			for i := 0; i < c.Queue.Amount; i++ {
				tasks = append(tasks, queueTask{clickTime: c.TimestampSecs, duration: sim.VillagerTrainSecs})
			}
		case model.KindResearch:
			if d, ok := research[c.Research.Technology]; ok {
				tasks = append(tasks, queueTask{clickTime: c.TimestampSecs, duration: d})
			}
		case model.KindBuild:
			if c.Build.Building == "Town Center" {
				tcBuilds = append(tcBuilds, c.TimestampSecs)
			}
		}
	}

	res := model.QueueSimResult{
		ByClass: map[model.GapClass]model.GapTotal{},
		ByEra:   map[model.Era]float64{},
	}
	if len(tasks) == 0 {
		return res
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].clickTime < tasks[j].clickTime })
	tcs := newTcTimeline(tcBuilds, sim.TcBuildDelaySecs)

	tcFreeAt := 0.0
	for _, task := range tasks {
		n := float64(tcs.countAt(task.clickTime))
		if task.clickTime >= tcFreeAt {
			gap := task.clickTime - tcFreeAt
			if gap > sim.IdleToleranceSecs {
				g := model.IdleGap{StartSecs: tcFreeAt, EndSecs: task.clickTime, Class: classifyGap(gap)}
				res.Gaps = append(res.Gaps, g)
				res.IdleSecs += gap
				tot := res.ByClass[g.Class]
				tot.Count++
				tot.Seconds += gap
				res.ByClass[g.Class] = tot
			}
			tcFreeAt = task.clickTime + task.duration/n
		} else {
			tcFreeAt += task.duration / n
		}
	}

	for _, g := range res.Gaps {
		attributeGapByEra(res.ByEra, g, eras)
	}
	return res
}

func classifyGap(gap float64) model.GapClass {
	switch {
	case gap >= 60:
		return model.GapAfk
	case gap >= 15:
		return model.GapMacro
	default:
		return model.GapMicro
	}
}

// attributeGapByEra splits one gap across every era interval it overlaps,
// proportional to the overlap duration.
func attributeGapByEra(byEra map[model.Era]float64, g model.IdleGap, eras model.EraTimeline) {
	if len(eras) == 0 {
		return
	}
	for i, iv := range eras {
		end := iv.EndSecs
		if i == len(eras)-1 && g.EndSecs > end {
			// gaps may run past the recorded duration; the last era absorbs them
			end = g.EndSecs
		}
		overlap := min(g.EndSecs, end) - max(g.StartSecs, iv.StartSecs)
		if overlap > 0 {
			byEra[iv.Era] += overlap
		}
	}
}

func researchTable(sim model.SimulationConfig) map[string]float64 {
	if len(sim.ResearchDurations) == 0 {
		return researchDurationSecs
	}
	merged := make(map[string]float64, len(researchDurationSecs)+len(sim.ResearchDurations))
	for k, v := range researchDurationSecs {
		merged[k] = v
	}
	for k, v := range sim.ResearchDurations {
		merged[k] = v
	}
	return merged
}
