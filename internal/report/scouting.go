package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blzulian/agelytics/internal/api"
	"github.com/blzulian/agelytics/internal/stats"
)

// Scouting renders an opponent dossier from remote match-history data:
// current standing, recent form, and civilization/map tendencies.
func Scouting(ctx context.Context, client *api.Client, opponent string, historyCount int) (string, error) {
	profile, err := client.SearchPlayer(ctx, opponent)
	if err != nil {
		return "", fmt.Errorf("search player: %w", err)
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("Scouting Report: %s", profile.Alias)
	line("%s", strings.Repeat("=", 50))
	line("")
	line("Profile")
	line("  Profile ID: %d", profile.ProfileID)
	if profile.Country != "" {
		line("  Country: %s", profile.Country)
	}
	line("  Rating: %d (rank #%d, peak %d)", profile.Rating, profile.Rank, profile.HighestRating)
	total := profile.Wins + profile.Losses
	if total > 0 {
		line("  Record: %d-%d (%.1f%%), streak %+d",
			profile.Wins, profile.Losses, float64(profile.Wins)/float64(total)*100, profile.Streak)
	}
	line("")

	history, err := client.MatchHistory(ctx, profile.ProfileID, historyCount)
	if err != nil {
		line("Recent matches: unavailable (%v)", err)
		return b.String(), nil
	}

	civCounts := map[string]int{}
	civWins := map[string]int{}
	mapCounts := map[string]int{}
	wins := 0
	var durations []float64
	for _, m := range history {
		mapCounts[m.Map]++
		if m.DurationSecs > 0 {
			durations = append(durations, float64(m.DurationSecs))
		}
		for _, p := range m.Players {
			if p.ProfileID != profile.ProfileID {
				continue
			}
			civCounts[p.CivName]++
			if p.Won {
				wins++
				civWins[p.CivName]++
			}
		}
	}

	line("Recent Form (%d matches)", len(history))
	line("  Win Rate: %.1f%%", float64(wins)/float64(len(history))*100)
	if len(durations) > 0 {
		line("  Typical Duration: %s", FormatDuration(stats.WinsorizedMean(durations)))
	}
	line("")

	line("Favorite Civilizations")
	for _, kv := range sortedCounts(civCounts, 5) {
		winRate := float64(civWins[kv.key]) / float64(kv.count) * 100
		line("  %s: %d games (%.0f%% win)", kv.key, kv.count, winRate)
	}
	line("")

	line("Most Played Maps")
	for _, kv := range sortedCounts(mapCounts, 5) {
		line("  %s: %d games", kv.key, kv.count)
	}

	if len(history) > 0 {
		last := history[0]
		line("")
		line("Last Match: %s on %s (%s)",
			time.Unix(last.StartTime, 0).Format("2006-01-02"), last.Map, last.Leaderboard)
	}

	return b.String(), nil
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
