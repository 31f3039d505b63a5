package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CareerStats is a player's overall record across stored matches.
type CareerStats struct {
	Player          string
	TotalGames      int
	Wins            int
	Losses          int
	WinRate         float64
	AvgDurationMins float64
	EloMin          *int
	EloMax          *int
	EloAvg          *float64
}

// GroupedWinRate is a win rate bucketed by civilization, map, or opening.
type GroupedWinRate struct {
	Key     string
	Games   int
	Wins    int
	WinRate float64
}

// EloPoint is one rated match in a player's Elo history, oldest first.
type EloPoint struct {
	PlayedAt string
	Elo      int
	Won      bool
}

// StatsRepo answers cross-match aggregate queries.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Career returns a player's overall win/loss record and Elo range.
func (r *StatsRepo) Career(ctx context.Context, player string) (*CareerStats, error) {
	row := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN mp.winner = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(m.duration_secs), 0),
			MIN(mp.elo), MAX(mp.elo), AVG(mp.elo)
		FROM match_players mp
		JOIN matches m ON mp.match_id = m.id
		WHERE mp.name = ?`, player)

	cs := &CareerStats{Player: player}
	var avgDuration float64
	var eloMin, eloMax sql.NullInt64
	var eloAvg sql.NullFloat64
	if err := row.Scan(&cs.TotalGames, &cs.Wins, &avgDuration, &eloMin, &eloMax, &eloAvg); err != nil {
		return nil, fmt.Errorf("career stats: %w", err)
	}
	cs.Losses = cs.TotalGames - cs.Wins
	if cs.TotalGames > 0 {
		cs.WinRate = float64(cs.Wins) / float64(cs.TotalGames) * 100
	}
	cs.AvgDurationMins = avgDuration / 60
	if eloMin.Valid {
		v := int(eloMin.Int64)
		cs.EloMin = &v
	}
	if eloMax.Valid {
		v := int(eloMax.Int64)
		cs.EloMax = &v
	}
	if eloAvg.Valid {
		cs.EloAvg = &eloAvg.Float64
	}
	return cs, nil
}

// WinRateByCiv returns the player's record per civilization, most played
// first.
func (r *StatsRepo) WinRateByCiv(ctx context.Context, player string) ([]GroupedWinRate, error) {
	return r.grouped(ctx, `SELECT civ_name, COUNT(*),
			SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END)
		FROM match_players WHERE name = ?
		GROUP BY civ_name ORDER BY COUNT(*) DESC`, player)
}

// WinRateByMap returns the player's record per map, most played first.
func (r *StatsRepo) WinRateByMap(ctx context.Context, player string) ([]GroupedWinRate, error) {
	return r.grouped(ctx, `SELECT m.map_name, COUNT(*),
			SUM(CASE WHEN mp.winner = 1 THEN 1 ELSE 0 END)
		FROM match_players mp JOIN matches m ON mp.match_id = m.id
		WHERE mp.name = ?
		GROUP BY m.map_name ORDER BY COUNT(*) DESC`, player)
}

// WinRateByOpening returns the player's record per opening strategy.
func (r *StatsRepo) WinRateByOpening(ctx context.Context, player string) ([]GroupedWinRate, error) {
	return r.grouped(ctx, `SELECT opening_strategy, COUNT(*),
			SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END)
		FROM match_players WHERE name = ? AND opening_strategy IS NOT NULL
		GROUP BY opening_strategy ORDER BY COUNT(*) DESC`, player)
}

func (r *StatsRepo) grouped(ctx context.Context, query, player string) ([]GroupedWinRate, error) {
	rows, err := r.db.QueryContext(ctx, query, player)
	if err != nil {
		return nil, fmt.Errorf("grouped win rate: %w", err)
	}
	defer rows.Close()

	var out []GroupedWinRate
	for rows.Next() {
		var g GroupedWinRate
		if err := rows.Scan(&g.Key, &g.Games, &g.Wins); err != nil {
			return nil, fmt.Errorf("scan win rate: %w", err)
		}
		if g.Games > 0 {
			g.WinRate = float64(g.Wins) / float64(g.Games) * 100
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Matchup is the player's record for one own-civ/opponent-civ pairing.
type Matchup struct {
	MyCiv           string
	OppCiv          string
	Games           int
	Wins            int
	WinRate         float64
	AvgDurationSecs float64
}

// Matchups returns the player's record per civ-vs-civ pairing with at least
// two games, worst win rate first.
func (r *StatsRepo) Matchups(ctx context.Context, player string) ([]Matchup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
			mp.civ_name, op.civ_name, COUNT(*),
			SUM(CASE WHEN mp.winner = 1 THEN 1 ELSE 0 END),
			AVG(m.duration_secs)
		FROM match_players mp
		JOIN matches m ON mp.match_id = m.id
		JOIN match_players op ON op.match_id = m.id AND op.name != mp.name
		WHERE mp.name = ?
		GROUP BY mp.civ_name, op.civ_name
		HAVING COUNT(*) >= 2
		ORDER BY CAST(SUM(CASE WHEN mp.winner = 1 THEN 1 ELSE 0 END) AS REAL) / COUNT(*) ASC,
			COUNT(*) DESC`, player)
	if err != nil {
		return nil, fmt.Errorf("matchup stats: %w", err)
	}
	defer rows.Close()

	var out []Matchup
	for rows.Next() {
		var mu Matchup
		if err := rows.Scan(&mu.MyCiv, &mu.OppCiv, &mu.Games, &mu.Wins, &mu.AvgDurationSecs); err != nil {
			return nil, fmt.Errorf("scan matchup: %w", err)
		}
		if mu.Games > 0 {
			mu.WinRate = float64(mu.Wins) / float64(mu.Games) * 100
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

// EcoHealth summarizes the player's TC idle habit across stored matches,
// split by outcome.
type EcoHealth struct {
	Sample      int
	AvgIdleSecs float64
	AvgIdlePct  *float64
	WinIdlePct  *float64
	LossIdlePct *float64
}

// EcoHealth returns economy health aggregates for a player.
func (r *StatsRepo) EcoHealth(ctx context.Context, player string) (*EcoHealth, error) {
	row := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(AVG(mp.tc_idle_secs), 0),
			AVG(CASE WHEN m.duration_secs > 0 THEN mp.tc_idle_secs / m.duration_secs * 100 END),
			AVG(CASE WHEN m.duration_secs > 0 AND mp.winner = 1 THEN mp.tc_idle_secs / m.duration_secs * 100 END),
			AVG(CASE WHEN m.duration_secs > 0 AND mp.winner = 0 THEN mp.tc_idle_secs / m.duration_secs * 100 END)
		FROM match_players mp
		JOIN matches m ON mp.match_id = m.id
		WHERE mp.name = ?`, player)

	eh := &EcoHealth{}
	var avg, win, loss sql.NullFloat64
	if err := row.Scan(&eh.Sample, &eh.AvgIdleSecs, &avg, &win, &loss); err != nil {
		return nil, fmt.Errorf("eco health: %w", err)
	}
	if avg.Valid {
		eh.AvgIdlePct = &avg.Float64
	}
	if win.Valid {
		eh.WinIdlePct = &win.Float64
	}
	if loss.Valid {
		eh.LossIdlePct = &loss.Float64
	}
	return eh, nil
}

// EraIdleAverages returns the player's average TC idle seconds per era.
func (r *StatsRepo) EraIdleAverages(ctx context.Context, player string) (map[string]float64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(AVG(tc_idle_dark), 0), COALESCE(AVG(tc_idle_feudal), 0),
			COALESCE(AVG(tc_idle_castle), 0), COALESCE(AVG(tc_idle_imperial), 0)
		FROM match_players WHERE name = ?`, player)

	var n int
	var dark, feudal, castle, imperial float64
	if err := row.Scan(&n, &dark, &feudal, &castle, &imperial); err != nil {
		return nil, fmt.Errorf("era idle averages: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return map[string]float64{
		"Dark Age": dark, "Feudal Age": feudal,
		"Castle Age": castle, "Imperial Age": imperial,
	}, nil
}

// EloProgression returns the player's rated matches oldest first.
func (r *StatsRepo) EloProgression(ctx context.Context, player string) ([]EloPoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT m.played_at, mp.elo, mp.winner
		FROM match_players mp JOIN matches m ON mp.match_id = m.id
		WHERE mp.name = ? AND mp.elo IS NOT NULL
		ORDER BY m.played_at ASC`, player)
	if err != nil {
		return nil, fmt.Errorf("elo progression: %w", err)
	}
	defer rows.Close()

	var out []EloPoint
	for rows.Next() {
		var p EloPoint
		var winner int
		if err := rows.Scan(&p.PlayedAt, &p.Elo, &winner); err != nil {
			return nil, fmt.Errorf("scan elo point: %w", err)
		}
		p.Won = winner != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// MetricHistory returns one metric column's values for a player, oldest
// first, skipping NULLs.
func (r *StatsRepo) MetricHistory(ctx context.Context, player, column string) ([]float64, error) {
	switch column {
	case "tc_idle_secs", "tc_idle_percent", "farm_gap_average",
		"military_timing_index", "housed_lower_secs", "housed_upper_secs",
		"tc_idle_effective_lower", "tc_idle_effective_upper":
	default:
		return nil, fmt.Errorf("unknown metric column %q", column)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT mp.%s
		FROM match_players mp JOIN matches m ON mp.match_id = m.id
		WHERE mp.name = ? AND mp.%s IS NOT NULL
		ORDER BY m.played_at ASC`, column, column), player)
	if err != nil {
		return nil, fmt.Errorf("metric history: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AgeUpHistory returns a player's age-up times for one age, oldest match
// first.
func (r *StatsRepo) AgeUpHistory(ctx context.Context, player, age string) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.timestamp_secs
		FROM age_ups a JOIN matches m ON a.match_id = m.id
		WHERE a.player = ? AND a.age = ?
		ORDER BY m.played_at ASC`, player, age)
	if err != nil {
		return nil, fmt.Errorf("age up history: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan age up: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
