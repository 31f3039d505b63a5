package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/blzulian/agelytics/internal/model"
	"github.com/blzulian/agelytics/internal/stats"
	"github.com/blzulian/agelytics/internal/store"
)

// Career renders a player's cross-match statistics: record, per-civ and
// per-map win rates, winsorized metric averages, and trend classifications.
func Career(ctx context.Context, repo *store.StatsRepo, player string, trendWindow int) (string, error) {
	overall, err := repo.Career(ctx, player)
	if err != nil {
		return "", fmt.Errorf("career stats: %w", err)
	}
	if overall.TotalGames == 0 {
		return fmt.Sprintf("Career Stats: %s\n\nNo games found for this player.\n", player), nil
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("Career Stats: %s", player)
	line("%s", strings.Repeat("=", 50))
	line("")
	line("Overall Performance")
	line("  Games Played: %d", overall.TotalGames)
	line("  Wins: %d | Losses: %d", overall.Wins, overall.Losses)
	line("  Win Rate: %.1f%%", overall.WinRate)
	line("  Avg Game Duration: %.1f minutes", overall.AvgDurationMins)
	if overall.EloAvg != nil && overall.EloMin != nil && overall.EloMax != nil {
		line("  ELO: %d (range: %d-%d)", int(*overall.EloAvg), *overall.EloMin, *overall.EloMax)
	}
	line("")

	writeGrouped := func(title string, groups []store.GroupedWinRate) {
		if len(groups) == 0 {
			return
		}
		line("%s", title)
		limit := len(groups)
		if limit > 10 {
			limit = 10
		}
		for _, g := range groups[:limit] {
			line("  %s: %.1f%% (%d/%d games)", g.Key, g.WinRate, g.Wins, g.Games)
		}
		line("")
	}

	if civs, err := repo.WinRateByCiv(ctx, player); err == nil {
		writeGrouped("Performance by Civilization", civs)
	}
	if maps, err := repo.WinRateByMap(ctx, player); err == nil {
		writeGrouped("Performance by Map", maps)
	}
	if openings, err := repo.WinRateByOpening(ctx, player); err == nil {
		writeGrouped("Performance by Opening Strategy", openings)
	}

	if matchups, err := repo.Matchups(ctx, player); err == nil && len(matchups) > 0 {
		line("Matchups (worst first, min. 2 games)")
		limit := len(matchups)
		if limit > 10 {
			limit = 10
		}
		for _, mu := range matchups[:limit] {
			line("  %s vs %s: %.1f%% (%d/%d games, avg %s)",
				mu.MyCiv, mu.OppCiv, mu.WinRate, mu.Wins, mu.Games, FormatDuration(mu.AvgDurationSecs))
		}
		line("")
	}

	line("Average Metrics (winsorized)")
	for _, col := range []struct {
		column string
		label  string
		unit   string
	}{
		{"tc_idle_secs", "TC Idle Time", "s"},
		{"tc_idle_percent", "TC Idle", "%"},
		{"farm_gap_average", "Farm Gap", "s"},
		{"housed_lower_secs", "Housed (lower)", "s"},
		{"housed_upper_secs", "Housed (upper)", "s"},
	} {
		values, err := repo.MetricHistory(ctx, player, col.column)
		if err != nil || len(values) == 0 {
			line("  %s: N/A", col.label)
			continue
		}
		line("  %s: %.1f%s (%d games)", col.label, stats.WinsorizedMean(values), col.unit, len(values))
	}
	if byEra, err := repo.EraIdleAverages(ctx, player); err == nil && byEra != nil {
		line("  TC Idle by Era:")
		for _, era := range []model.Era{model.EraDark, model.EraFeudal, model.EraCastle, model.EraImperial} {
			if v, ok := byEra[string(era)]; ok && v > 0 {
				line("    %s: %s avg", era, FormatDuration(v))
			}
		}
	}
	line("")

	if eco, err := repo.EcoHealth(ctx, player); err == nil && eco.Sample > 0 {
		line("Economy Health (%d games)", eco.Sample)
		line("  Avg TC Idle: %s", FormatDuration(eco.AvgIdleSecs))
		if eco.AvgIdlePct != nil {
			line("  Avg TC Idle %%: %.1f%%", *eco.AvgIdlePct)
		}
		if eco.WinIdlePct != nil && eco.LossIdlePct != nil {
			line("  TC Idle %% in wins: %.1f%% | in losses: %.1f%%", *eco.WinIdlePct, *eco.LossIdlePct)
		}
		line("")
	}

	line("Trends (last %d vs previous %d games)", trendWindow, trendWindow)
	for _, era := range []model.Era{model.EraFeudal, model.EraCastle, model.EraImperial} {
		times, err := repo.AgeUpHistory(ctx, player, string(era))
		if err != nil || len(times) == 0 {
			continue
		}
		trend := stats.ClassifyAgeUpTrend(times, trendWindow, 10)
		line("  %s up: %s (avg %s)", era, trend, FormatDuration(stats.WinsorizedMean(times)))
	}
	if elos, err := repo.EloProgression(ctx, player); err == nil && len(elos) >= 2 {
		values := make([]float64, len(elos))
		for i, e := range elos {
			values[i] = float64(e.Elo)
		}
		line("  Rating: %s (slope %+.1f/game)", stats.ClassifyRatingTrend(values, trendWindow, 1), stats.Slope(values))
	}

	return b.String(), nil
}
