package engine

import (
	"sort"

	"github.com/blzulian/agelytics/internal/model"
)

// SimulateProduction replays one actor's unit-queue commands against
// per-building production queues and returns the completion events.
//
// Commands carrying a building ID queue at that specific building; commands
// without one share a single queue per building type. Each building processes
// its queue serially: a unit starts when the building frees up or when it was
// clicked, whichever is later.
func SimulateProduction(cmds []model.Command, actor string) []model.UnitCompletion {
	type key struct {
		buildingType string
		buildingID   int
	}
	freeAt := map[key]float64{}

	var queued []model.Command
	for _, c := range cmds {
		if c.Actor == actor && c.Kind == model.KindQueue {
			queued = append(queued, c)
		}
	}
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].TimestampSecs < queued[j].TimestampSecs
	})

	var completions []model.UnitCompletion
	for _, c := range queued {
		bt := buildingTypeFor(c.Queue.Unit)
		k := key{buildingType: bt, buildingID: c.Queue.BuildingID}
		d := trainSecsFor(c.Queue.Unit)
		for i := 0; i < c.Queue.Amount; i++ {
			start := max(c.TimestampSecs, freeAt[k])
			done := start + d
			freeAt[k] = done
			completions = append(completions, model.UnitCompletion{
				Unit:         c.Queue.Unit,
				BuildingType: bt,
				BuildingID:   c.Queue.BuildingID,
				QueuedAt:     c.TimestampSecs,
				CompletedAt:  done,
			})
		}
	}
	return completions
}
