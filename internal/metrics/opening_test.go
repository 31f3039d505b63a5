package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blzulian/agelytics/internal/model"
)

func openingMatch(units map[string]int, buildings map[string]int, feudal, castle float64) *model.Match {
	m := &model.Match{
		DurationSecs: 2400,
		Players:      []model.Player{{Name: "Alice"}},
		Analysis: map[string]*model.PlayerAnalysis{
			"Alice": {UnitProduction: units, Buildings: buildings},
		},
	}
	if feudal > 0 {
		m.AgeUps = append(m.AgeUps, model.AgeUp{Player: "Alice", Age: model.EraFeudal, TimestampSecs: feudal})
	}
	if castle > 0 {
		m.AgeUps = append(m.AgeUps, model.AgeUp{Player: "Alice", Age: model.EraCastle, TimestampSecs: castle})
	}
	return m
}

func TestClassifyOpening(t *testing.T) {
	tests := []struct {
		name      string
		units     map[string]int
		buildings map[string]int
		feudal    float64
		castle    float64
		want      string
	}{
		{
			name:      "scout rush",
			units:     map[string]int{"Scout Cavalry": 5},
			buildings: map[string]int{"Stable": 1},
			feudal:    540,
			want:      "Scout Rush",
		},
		{
			name:      "straight archers",
			units:     map[string]int{"Archer": 8},
			buildings: map[string]int{"Archery Range": 2},
			feudal:    560,
			want:      "Straight Archers",
		},
		{
			name:      "archers and skirms",
			units:     map[string]int{"Archer": 5, "Skirmisher": 4},
			buildings: map[string]int{"Archery Range": 2},
			feudal:    560,
			want:      "Archers+Skirms",
		},
		{
			name:      "scouts into archers",
			units:     map[string]int{"Scout Cavalry": 3, "Archer": 10},
			buildings: map[string]int{"Stable": 1, "Archery Range": 2},
			feudal:    540,
			want:      "Scouts→Archers",
		},
		{
			name:      "drush into feudal archers",
			units:     map[string]int{"Militia": 3, "Archer": 6},
			buildings: map[string]int{"Barracks": 1, "Archery Range": 1},
			feudal:    580,
			want:      "Drush→Straight Archers",
		},
		{
			name:      "pre-mill drush",
			units:     map[string]int{"Militia": 5},
			buildings: map[string]int{"Barracks": 1},
			want:      "Pre-Mill Drush",
		},
		{
			name:      "fast castle",
			units:     map[string]int{},
			buildings: map[string]int{},
			feudal:    700,
			castle:    880,
			want:      "Fast Castle",
		},
		{
			name:      "drush into fast castle",
			units:     map[string]int{"Militia": 3},
			buildings: map[string]int{"Barracks": 1},
			feudal:    680,
			castle:    860,
			want:      "Drush→FC",
		},
		{
			name:      "tower rush beats everything",
			units:     map[string]int{"Archer": 5},
			buildings: map[string]int{"Archery Range": 1, "Watch Tower": 3},
			feudal:    540,
			want:      "Tower Rush",
		},
		{
			name:      "nothing to classify",
			units:     map[string]int{},
			buildings: map[string]int{},
			want:      "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := openingMatch(tt.units, tt.buildings, tt.feudal, tt.castle)
			assert.Equal(t, tt.want, ClassifyOpening(m, "Alice"))
		})
	}
}

func TestClassifyOpeningManAtArms(t *testing.T) {
	m := openingMatch(map[string]int{"Militia": 3}, map[string]int{"Barracks": 1}, 600, 0)
	m.Analysis["Alice"].Researches = []model.Research{{Tech: "Man-at-Arms", TimestampSecs: 650}}
	assert.Equal(t, "M@A", ClassifyOpening(m, "Alice"))
}

func TestClassifyOpeningUnknownPlayer(t *testing.T) {
	m := openingMatch(nil, nil, 0, 0)
	assert.Equal(t, "Unknown", ClassifyOpening(m, "Bob"))
}
