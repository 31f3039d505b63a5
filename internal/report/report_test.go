package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blzulian/agelytics/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{59, "0:59"},
		{61.7, "1:01"},
		{612.5, "10:12"},
		{3600, "1:00:00"},
		{5025, "1:23:45"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.secs), "%v secs", tt.secs)
	}
}

func reportMatch() *model.Match {
	elo := 1203
	return &model.Match{
		PlayedAt:     "2025-11-02T20:15:00",
		DurationSecs: 2400,
		MapName:      "Arabia",
		GameType:     "RM 1v1",
		Speed:        "Normal",
		PopLimit:     200,
		Players: []model.Player{
			{Name: "Alice", Number: 1, CivName: "Franks", Winner: true, Elo: &elo},
			{Name: "Bob", Number: 2, CivName: "Britons"},
		},
		AgeUps: []model.AgeUp{
			{Player: "Alice", Age: model.EraFeudal, TimestampSecs: 612},
			{Player: "Bob", Age: model.EraFeudal, TimestampSecs: 655},
		},
		Analysis: map[string]*model.PlayerAnalysis{
			"Alice": {
				TcIdleSecs:           180,
				TcIdleByEra:          map[model.Era]float64{model.EraDark: 120, model.EraFeudal: 60},
				HousedLowerSecs:      30,
				HousedUpperSecs:      95,
				TcIdleEffectiveLower: 210,
				TcIdleEffectiveUpper: 275,
				Opening:              "Scout Rush",
				UnitProduction:       map[string]int{"Villager": 40, "Scout Cavalry": 8, "Skirmisher": 3},
			},
			"Bob": {},
		},
	}
}

func TestMatchReportPerspective(t *testing.T) {
	out := Match(reportMatch(), "Alice", 150)

	assert.Contains(t, out, "VICTORY")
	assert.Contains(t, out, "Alice (Franks) vs Bob (Britons)")
	assert.Contains(t, out, "ELO 1203")
	assert.Contains(t, out, "Scout Rush")
	assert.Contains(t, out, "8 Scout Cavalry, 3 Skirmisher")
	assert.Contains(t, out, "10:12")
}

func TestMatchReportAbsentMetricsRenderPlaceholder(t *testing.T) {
	m := reportMatch()
	m.DurationSecs = 0 // TC idle percent cannot be computed
	out := Match(m, "Alice", 150)
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "0.00%", "absent metrics must not render as zero")
}

func TestMatchReportDefeatPerspective(t *testing.T) {
	out := Match(reportMatch(), "Bob", 150)
	assert.Contains(t, out, "DEFEAT")
	assert.Contains(t, out, "Bob (Britons) vs Alice (Franks)")
}

func TestMatchReportNoPlayers(t *testing.T) {
	out := Match(&model.Match{}, "", 150)
	assert.Equal(t, "No player data available.", out)
}

func TestMatchReportUnknownPlayerFallsBackToFirst(t *testing.T) {
	out := Match(reportMatch(), "Carol", 150)
	require.True(t, strings.Contains(out, "Alice (Franks) vs Bob (Britons)"))
}
