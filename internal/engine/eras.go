package engine

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/blzulian/agelytics/internal/model"
)

// ageLineRe matches age-advancement log lines of the form
// "[H:MM:SS.ffffff] <actor> -> Age.<ENUM>".
var ageLineRe = regexp.MustCompile(`^\[(\d+):(\d{2}):(\d{2})\.(\d{6})\]\s+(.+?)\s+->\s+Age\.(FEUDAL_AGE|CASTLE_AGE|IMPERIAL_AGE)$`)

var ageEnumEras = map[string]model.Era{
	"FEUDAL_AGE":   model.EraFeudal,
	"CASTLE_AGE":   model.EraCastle,
	"IMPERIAL_AGE": model.EraImperial,
}

// ParseAgeUps extracts age-advancement events from the decoder's log lines.
// Lines that do not match the pattern are skipped.
func ParseAgeUps(lines []string) []model.AgeUp {
	ups := make([]model.AgeUp, 0, len(lines))
	for _, line := range lines {
		m := ageLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		micro, _ := strconv.Atoi(m[4])
		ts := float64(h)*3600 + float64(min)*60 + float64(sec) + float64(micro)/1e6
		ups = append(ups, model.AgeUp{
			Player:        m[5],
			Age:           ageEnumEras[m[6]],
			TimestampSecs: ts,
		})
	}
	sort.SliceStable(ups, func(i, j int) bool {
		return ups[i].TimestampSecs < ups[j].TimestampSecs
	})
	return ups
}

// BuildEraTimeline turns one actor's age-up events into contiguous era
// intervals. Dark Age always starts at 0; each era ends where the next
// begins, and the last reached era closes at the match duration. Eras the
// actor never reached are absent.
func BuildEraTimeline(ageUps []model.AgeUp, actor string, durationSecs float64) model.EraTimeline {
	starts := map[model.Era]float64{model.EraDark: 0}
	for _, up := range ageUps {
		if up.Player != actor {
			continue
		}
		if _, seen := starts[up.Age]; !seen {
			starts[up.Age] = up.TimestampSecs
		}
	}

	timeline := make(model.EraTimeline, 0, len(starts))
	for _, era := range model.EraOrder {
		start, ok := starts[era]
		if !ok {
			continue
		}
		timeline = append(timeline, model.EraInterval{Era: era, StartSecs: start, EndSecs: durationSecs})
	}
	for i := 0; i < len(timeline)-1; i++ {
		timeline[i].EndSecs = timeline[i+1].StartSecs
	}
	return timeline
}
