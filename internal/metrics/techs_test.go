package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blzulian/agelytics/internal/model"
)

func TestKeyTechsSortedAndCategorized(t *testing.T) {
	m := &model.Match{
		Analysis: map[string]*model.PlayerAnalysis{
			"Alice": {
				Researches: []model.Research{
					{Tech: "Wheelbarrow", TimestampSecs: 700},
					{Tech: "Loom", TimestampSecs: 45},
					{Tech: "Feudal Age", TimestampSecs: 612}, // not tracked
					{Tech: "Ballistics", TimestampSecs: 1100},
					{Tech: "Forging", TimestampSecs: 650},
				},
			},
		},
	}

	techs := KeyTechs(m, "Alice")
	require.Len(t, techs, 4)
	assert.Equal(t, "Loom", techs[0].Tech)
	assert.Equal(t, "Economy", techs[0].Category)
	assert.Equal(t, "Forging", techs[1].Tech)
	assert.Equal(t, "Blacksmith", techs[1].Category)
	assert.Equal(t, "Wheelbarrow", techs[2].Tech)
	assert.Equal(t, "Ballistics", techs[3].Tech)
	assert.Equal(t, "Military", techs[3].Category, "dual-listed techs resolve by category order")
}

func TestKeyTechsUnknownPlayer(t *testing.T) {
	assert.Nil(t, KeyTechs(&model.Match{}, "Nobody"))
}

func TestAssessTiming(t *testing.T) {
	assert.Equal(t, "Good", AssessTiming("Loom", 25))
	assert.Equal(t, "Average", AssessTiming("Loom", 50))
	assert.Equal(t, "Poor", AssessTiming("Loom", 130))
	assert.Equal(t, "Unknown", AssessTiming("Treadmill Crane", 1500))
}

func TestFormatTiming(t *testing.T) {
	assert.Equal(t, "00:45", FormatTiming(45))
	assert.Equal(t, "10:12", FormatTiming(612.5))
	assert.Equal(t, "25:00", FormatTiming(1500))
}
