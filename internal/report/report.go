// Package report renders analyzed matches and career aggregates as text.
// Every metric may be absent; absent values render as a placeholder, never
// as zero.
package report

import (
	"fmt"
	"strings"

	"github.com/blzulian/agelytics/internal/metrics"
	"github.com/blzulian/agelytics/internal/model"
)

const divider = "────────────────────────────────────"

// FormatDuration renders seconds as M:SS or H:MM:SS.
func FormatDuration(secs float64) string {
	total := int(secs)
	if total <= 0 {
		return "0:00"
	}
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}

// Match renders a single-match report from the given player's perspective.
// With an empty player name, the first participant's perspective is used.
func Match(m *model.Match, player string, buildDelaySecs float64) string {
	if len(m.Players) == 0 {
		return "No player data available."
	}

	me := &m.Players[0]
	if player != "" {
		if p, ok := m.PlayerByName(player); ok {
			me = p
		}
	}
	var opponents []string
	for i := range m.Players {
		if m.Players[i].Name != me.Name {
			opponents = append(opponents, fmt.Sprintf("%s (%s)", m.Players[i].Name, m.Players[i].CivName))
		}
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("════════════════════════════════════")
	line("  AGELYTICS - Match Report")
	line("════════════════════════════════════")
	line("")
	result := "DEFEAT"
	if me.Winner {
		result = "VICTORY"
	}
	opp := "?"
	if len(opponents) > 0 {
		opp = strings.Join(opponents, " vs ")
	}
	line("  %s", result)
	line("  %s (%s) vs %s", me.Name, me.CivName, opp)
	line("")
	line("  %s | %s | %s", m.PlayedAt, m.MapName, FormatDuration(m.DurationSecs))
	line("  %s | %s | Pop %d", m.GameType, m.Speed, m.PopLimit)
	line("")
	line("  %s", divider)

	line("  Players:")
	for i := range m.Players {
		p := &m.Players[i]
		crown := " "
		if p.Winner {
			crown = "*"
		}
		elo := "ELO ?"
		if p.Elo != nil {
			elo = fmt.Sprintf("ELO %d", *p.Elo)
		}
		marker := ""
		if p.Name == me.Name {
			marker = " <"
		}
		line("  %s %s - %s (%s)%s", crown, p.Name, p.CivName, elo, marker)
	}
	line("  %s", divider)

	if len(m.AgeUps) > 0 {
		line("")
		line("  Age-Up Times:")
		for _, era := range []model.Era{model.EraFeudal, model.EraCastle, model.EraImperial} {
			var parts []string
			for i := range m.Players {
				if ts, ok := m.AgeUpTimestamp(m.Players[i].Name, era); ok {
					parts = append(parts, fmt.Sprintf("%s %s", m.Players[i].Name, FormatDuration(ts)))
				}
			}
			if len(parts) > 0 {
				line("    %-12s %s", era+":", strings.Join(parts, " | "))
			}
		}
	}

	if pa, ok := m.Analysis[me.Name]; ok {
		line("")
		line("  Economy (%s):", me.Name)
		line("    TC idle:        %s", FormatDuration(pa.TcIdleSecs))
		for _, era := range model.EraOrder {
			if v, ok := pa.TcIdleByEra[era]; ok && v > 0 {
				line("      %-12s %s", era+":", FormatDuration(v))
			}
		}
		line("    Housed (est.):  %s – %s", FormatDuration(pa.HousedLowerSecs), FormatDuration(pa.HousedUpperSecs))
		line("    Effective idle: %s – %s", FormatDuration(pa.TcIdleEffectiveLower), FormatDuration(pa.TcIdleEffectiveUpper))

		line("")
		line("  Metrics:")
		line("    TC idle %%:        %s", formatOptional(metrics.TcIdlePercent(m, me.Name), "%"))
		line("    Farm gap:         %s", formatOptional(metrics.FarmGapAverage(m, me.Name), "s"))
		line("    Military timing:  %s", formatOptional(metrics.MilitaryTimingIndex(m, me.Name), ""))
		line("    Resource eff.:    %s", formatOptional(metrics.ResourceEfficiency(m, me.Name), ""))
		if prog := metrics.TcCountProgression(m, me.Name, buildDelaySecs); prog != nil {
			var parts []string
			for _, p := range prog {
				parts = append(parts, fmt.Sprintf("%s×%d", FormatDuration(p.TimestampSecs), p.Count))
			}
			line("    TC progression:   %s", strings.Join(parts, " → "))
		} else {
			line("    TC progression:   N/A")
		}
		if pa.Opening != "" {
			line("    Opening:          %s", pa.Opening)
		}

		if techs := metrics.KeyTechs(m, me.Name); len(techs) > 0 {
			line("")
			line("  Key Techs:")
			for _, t := range techs {
				line("    %-22s %s  [%s, %s]", t.Tech, metrics.FormatTiming(t.TimestampSecs),
					t.Category, metrics.AssessTiming(t.Tech, t.TimestampSecs))
			}
		}

		if army := armyComposition(pa); army != "" {
			line("")
			line("  Army: %s", army)
		}
	}

	return b.String()
}

// armyComposition summarizes military unit counts, largest first.
func armyComposition(pa *model.PlayerAnalysis) string {
	type entry struct {
		unit  string
		count int
	}
	var entries []entry
	for unit, count := range pa.UnitProduction {
		if unit == "Villager" || count == 0 {
			continue
		}
		entries = append(entries, entry{unit, count})
	}
	if len(entries) == 0 {
		return ""
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].count > entries[i].count ||
				(entries[j].count == entries[i].count && entries[j].unit < entries[i].unit) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	var parts []string
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%d %s", e.count, e.unit))
	}
	return strings.Join(parts, ", ")
}
