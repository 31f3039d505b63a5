package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blzulian/agelytics/internal/model"
)

func simConfig() model.SimulationConfig {
	return model.SimulationConfig{
		VillagerTrainSecs: 25,
		TcBuildDelaySecs:  150,
		IdleToleranceSecs: 5,
	}
}

func villagerQueue(actor string, ts float64, amount int) model.Command {
	return model.Command{
		Actor:         actor,
		TimestampSecs: ts,
		Kind:          model.KindQueue,
		Queue:         &model.QueuePayload{Unit: "Villager", Amount: amount},
	}
}

func darkTimeline(duration float64) model.EraTimeline {
	return model.EraTimeline{{Era: model.EraDark, StartSecs: 0, EndSecs: duration}}
}

func TestSimulateTcQueueNoTasks(t *testing.T) {
	res := SimulateTcQueue(nil, "Alice", darkTimeline(2400), simConfig())
	assert.Zero(t, res.IdleSecs)
	assert.Empty(t, res.Gaps)
	assert.Empty(t, res.ByClass)
	assert.Empty(t, res.ByEra)
}

func TestSimulateTcQueueDetectsGap(t *testing.T) {
	cmds := []model.Command{
		villagerQueue("Alice", 0, 1),
		villagerQueue("Alice", 25, 1),
		villagerQueue("Alice", 90, 1),
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(600), simConfig())

	// queue frees at 50; the click at 90 leaves a 40s gap, counted in full
	require.Len(t, res.Gaps, 1)
	assert.InDelta(t, 40, res.IdleSecs, 1e-9)
	assert.InDelta(t, 50, res.Gaps[0].StartSecs, 1e-9)
	assert.InDelta(t, 90, res.Gaps[0].EndSecs, 1e-9)
	assert.Equal(t, model.GapMacro, res.Gaps[0].Class)
	assert.Equal(t, 1, res.ByClass[model.GapMacro].Count)
	assert.InDelta(t, 40, res.ByEra[model.EraDark], 1e-9)
}

func TestSimulateTcQueueToleranceNotCounted(t *testing.T) {
	cmds := []model.Command{
		villagerQueue("Alice", 0, 1),
		villagerQueue("Alice", 29, 1), // 4s gap, within tolerance
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(600), simConfig())
	assert.Zero(t, res.IdleSecs)
	assert.Empty(t, res.Gaps)
}

func TestSimulateTcQueueBatchExpansion(t *testing.T) {
	cmds := []model.Command{
		villagerQueue("Alice", 0, 3), // three tasks back to back
		villagerQueue("Alice", 75, 1),
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(600), simConfig())
	// batch finishes exactly at 75; no gap
	assert.Zero(t, res.IdleSecs)
}

func TestSimulateTcQueueResearchOccupiesQueue(t *testing.T) {
	cmds := []model.Command{
		villagerQueue("Alice", 0, 1),
		{Actor: "Alice", TimestampSecs: 25, Kind: model.KindResearch,
			Research: &model.ResearchPayload{Technology: "Loom"}},
		{Actor: "Alice", TimestampSecs: 30, Kind: model.KindResearch,
			Research: &model.ResearchPayload{Technology: "Sanctity"}}, // not a TC tech
		villagerQueue("Alice", 50, 1),
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(600), simConfig())
	// Loom holds the queue until 50; Sanctity is ignored
	assert.Zero(t, res.IdleSecs)
}

func TestSimulateTcQueueSecondTcHalvesDuration(t *testing.T) {
	cmds := []model.Command{
		{Actor: "Alice", TimestampSecs: 950, Kind: model.KindBuild,
			Build: &model.BuildPayload{Building: "Town Center"}},
		villagerQueue("Alice", 1200, 2),
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(2400), simConfig())

	// the TC activates at 1100, so both tasks run at duration/2
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, model.GapAfk, res.Gaps[0].Class)
	assert.InDelta(t, 1200, res.IdleSecs, 1e-9)
}

func TestSimulateTcQueueIgnoresOtherActors(t *testing.T) {
	cmds := []model.Command{
		villagerQueue("Bob", 0, 5),
		villagerQueue("Alice", 100, 1),
	}

	res := SimulateTcQueue(cmds, "Alice", darkTimeline(600), simConfig())
	// Alice's only gap is 0 -> 100
	require.Len(t, res.Gaps, 1)
	assert.InDelta(t, 100, res.IdleSecs, 1e-9)
}

func TestAttributeGapByEraProportional(t *testing.T) {
	eras := model.EraTimeline{
		{Era: model.EraDark, StartSecs: 0, EndSecs: 600},
		{Era: model.EraFeudal, StartSecs: 600, EndSecs: 1200},
	}
	byEra := map[model.Era]float64{}
	attributeGapByEra(byEra, model.IdleGap{StartSecs: 580, EndSecs: 640}, eras)

	assert.InDelta(t, 20, byEra[model.EraDark], 1e-9)
	assert.InDelta(t, 40, byEra[model.EraFeudal], 1e-9)
}

func TestClassifyGap(t *testing.T) {
	tests := []struct {
		gap  float64
		want model.GapClass
	}{
		{6, model.GapMicro},
		{14.9, model.GapMicro},
		{15, model.GapMacro},
		{59.9, model.GapMacro},
		{60, model.GapAfk},
		{600, model.GapAfk},
	}
	for _, tt := range tests {
		if got := classifyGap(tt.gap); got != tt.want {
			t.Errorf("classifyGap(%v) = %v, want %v", tt.gap, got, tt.want)
		}
	}
}
