package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blzulian/agelytics/internal/model"
)

// ErrDuplicate is returned when a match with the same file hash was already
// ingested.
var ErrDuplicate = errors.New("match already ingested")

// PlayerMetrics carries the derived per-player metric values persisted
// alongside the simulation outputs. Nil fields persist as NULL so that
// "cannot be computed" survives the round trip.
type PlayerMetrics struct {
	TcIdlePercent       *float64
	FarmGapAverage      *float64
	MilitaryTimingIndex *float64
	ResourceEfficiency  *float64
	Opening             string
}

// MatchRepo handles persistence for analyzed matches.
type MatchRepo struct {
	db *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Insert stores a match, its players with their analysis, and its age-up
// events. Returns ErrDuplicate when the file hash is already present.
func (r *MatchRepo) Insert(ctx context.Context, m *model.Match, playerMetrics map[string]PlayerMetrics) (int64, error) {
	var existing int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM matches WHERE file_hash = ?`, m.FileHash).Scan(&existing)
	if err == nil {
		return 0, ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check duplicate: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO matches
		(file_hash, file_path, played_at, duration_secs, map_name, map_id,
		 game_type, diplomacy, speed, pop_limit, completed, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.FileHash, m.FilePath, m.PlayedAt, m.DurationSecs, m.MapName, m.MapID,
		m.GameType, m.Diplomacy, m.Speed, m.PopLimit, boolInt(m.Completed), m.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("match id: %w", err)
	}

	for _, p := range m.Players {
		pa := m.Analysis[p.Name]
		if pa == nil {
			pa = &model.PlayerAnalysis{}
		}
		pm := playerMetrics[p.Name]

		_, err = tx.ExecContext(ctx, `INSERT INTO match_players
			(match_id, name, number, civ_id, civ_name, color_id, winner,
			 user_id, elo, eapm,
			 tc_idle_secs, tc_idle_dark, tc_idle_feudal, tc_idle_castle, tc_idle_imperial,
			 housed_lower_secs, housed_upper_secs,
			 housed_lower_dark, housed_lower_feudal, housed_lower_castle, housed_lower_imperial,
			 housed_upper_dark, housed_upper_feudal, housed_upper_castle, housed_upper_imperial,
			 tc_idle_effective_lower, tc_idle_effective_upper,
			 tc_idle_percent, farm_gap_average, military_timing_index,
			 resource_efficiency, opening_strategy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			        ?, ?, ?, ?, ?,
			        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			        ?, ?, ?, ?, ?, ?, ?)`,
			matchID, p.Name, p.Number, p.CivID, p.CivName, p.ColorID, boolInt(p.Winner),
			p.UserID, p.Elo, p.Eapm,
			pa.TcIdleSecs,
			pa.TcIdleByEra[model.EraDark], pa.TcIdleByEra[model.EraFeudal],
			pa.TcIdleByEra[model.EraCastle], pa.TcIdleByEra[model.EraImperial],
			pa.HousedLowerSecs, pa.HousedUpperSecs,
			pa.HousedLowerByEra[model.EraDark], pa.HousedLowerByEra[model.EraFeudal],
			pa.HousedLowerByEra[model.EraCastle], pa.HousedLowerByEra[model.EraImperial],
			pa.HousedUpperByEra[model.EraDark], pa.HousedUpperByEra[model.EraFeudal],
			pa.HousedUpperByEra[model.EraCastle], pa.HousedUpperByEra[model.EraImperial],
			pa.TcIdleEffectiveLower, pa.TcIdleEffectiveUpper,
			pm.TcIdlePercent, pm.FarmGapAverage, pm.MilitaryTimingIndex,
			pm.ResourceEfficiency, nullString(pm.Opening),
		)
		if err != nil {
			return 0, fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}

	for _, a := range m.AgeUps {
		_, err = tx.ExecContext(ctx, `INSERT INTO age_ups (match_id, player, age, timestamp_secs)
			VALUES (?, ?, ?, ?)`, matchID, a.Player, string(a.Age), a.TimestampSecs)
		if err != nil {
			return 0, fmt.Errorf("insert age up: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return matchID, nil
}

// GetByID reconstructs a stored match. The command stream was never
// persisted, so the result supports metric and aggregate reads but not a
// simulation re-run.
func (r *MatchRepo) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, file_hash, file_path, played_at,
		duration_secs, map_name, map_id, game_type, diplomacy, speed, pop_limit,
		completed, version FROM matches WHERE id = ?`, id)
	return r.scanMatch(ctx, row)
}

// Last returns the most recently played stored match.
func (r *MatchRepo) Last(ctx context.Context) (*model.Match, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, file_hash, file_path, played_at,
		duration_secs, map_name, map_id, game_type, diplomacy, speed, pop_limit,
		completed, version FROM matches ORDER BY played_at DESC LIMIT 1`)
	return r.scanMatch(ctx, row)
}

// List returns stored matches newest first, optionally restricted to those a
// player participated in.
func (r *MatchRepo) List(ctx context.Context, player string, limit int) ([]*model.Match, error) {
	var rows *sql.Rows
	var err error
	if player != "" {
		rows, err = r.db.QueryContext(ctx, `SELECT DISTINCT m.id, m.file_hash, m.file_path,
			m.played_at, m.duration_secs, m.map_name, m.map_id, m.game_type, m.diplomacy,
			m.speed, m.pop_limit, m.completed, m.version
			FROM matches m JOIN match_players mp ON mp.match_id = m.id
			WHERE mp.name = ? ORDER BY m.played_at DESC LIMIT ?`, player, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT id, file_hash, file_path, played_at,
			duration_secs, map_name, map_id, game_type, diplomacy, speed, pop_limit,
			completed, version FROM matches ORDER BY played_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var matches []*model.Match
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	for i, m := range matches {
		if err := r.loadDetails(ctx, ids[i], m); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// Count returns the number of stored matches.
func (r *MatchRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

// HasHash reports whether a replay with the given file hash was already
// ingested.
func (r *MatchRepo) HasHash(ctx context.Context, hash string) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM matches WHERE file_hash = ?`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check hash: %w", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MatchRepo) scanMatch(ctx context.Context, row rowScanner) (*model.Match, error) {
	m, err := scanMatchRow(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, m.ID, m); err != nil {
		return nil, err
	}
	return m, nil
}

func scanMatchRow(row rowScanner) (*model.Match, error) {
	m := &model.Match{Analysis: map[string]*model.PlayerAnalysis{}}
	var completed int
	err := row.Scan(&m.ID, &m.FileHash, &m.FilePath, &m.PlayedAt, &m.DurationSecs,
		&m.MapName, &m.MapID, &m.GameType, &m.Diplomacy, &m.Speed, &m.PopLimit,
		&completed, &m.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan match: %w", err)
	}
	m.Completed = completed != 0
	return m, nil
}

func (r *MatchRepo) loadDetails(ctx context.Context, matchID int64, m *model.Match) error {
	rows, err := r.db.QueryContext(ctx, `SELECT name, number, civ_id, civ_name, color_id,
		winner, user_id, elo, eapm,
		tc_idle_secs, tc_idle_dark, tc_idle_feudal, tc_idle_castle, tc_idle_imperial,
		housed_lower_secs, housed_upper_secs,
		housed_lower_dark, housed_lower_feudal, housed_lower_castle, housed_lower_imperial,
		housed_upper_dark, housed_upper_feudal, housed_upper_castle, housed_upper_imperial,
		tc_idle_effective_lower, tc_idle_effective_upper, opening_strategy
		FROM match_players WHERE match_id = ? ORDER BY number`, matchID)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Player
		var winner int
		pa := &model.PlayerAnalysis{
			TcIdleByEra:      map[model.Era]float64{},
			HousedLowerByEra: map[model.Era]float64{},
			HousedUpperByEra: map[model.Era]float64{},
		}
		var opening sql.NullString
		var idleDark, idleFeudal, idleCastle, idleImp float64
		var lowDark, lowFeudal, lowCastle, lowImp float64
		var upDark, upFeudal, upCastle, upImp float64
		err := rows.Scan(&p.Name, &p.Number, &p.CivID, &p.CivName, &p.ColorID,
			&winner, &p.UserID, &p.Elo, &p.Eapm,
			&pa.TcIdleSecs, &idleDark, &idleFeudal, &idleCastle, &idleImp,
			&pa.HousedLowerSecs, &pa.HousedUpperSecs,
			&lowDark, &lowFeudal, &lowCastle, &lowImp,
			&upDark, &upFeudal, &upCastle, &upImp,
			&pa.TcIdleEffectiveLower, &pa.TcIdleEffectiveUpper, &opening)
		if err != nil {
			return fmt.Errorf("scan player: %w", err)
		}
		p.Winner = winner != 0
		pa.TcIdleByEra[model.EraDark] = idleDark
		pa.TcIdleByEra[model.EraFeudal] = idleFeudal
		pa.TcIdleByEra[model.EraCastle] = idleCastle
		pa.TcIdleByEra[model.EraImperial] = idleImp
		pa.HousedLowerByEra[model.EraDark] = lowDark
		pa.HousedLowerByEra[model.EraFeudal] = lowFeudal
		pa.HousedLowerByEra[model.EraCastle] = lowCastle
		pa.HousedLowerByEra[model.EraImperial] = lowImp
		pa.HousedUpperByEra[model.EraDark] = upDark
		pa.HousedUpperByEra[model.EraFeudal] = upFeudal
		pa.HousedUpperByEra[model.EraCastle] = upCastle
		pa.HousedUpperByEra[model.EraImperial] = upImp
		pa.Opening = opening.String
		m.Players = append(m.Players, p)
		m.Analysis[p.Name] = pa
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	ageRows, err := r.db.QueryContext(ctx, `SELECT player, age, timestamp_secs
		FROM age_ups WHERE match_id = ? ORDER BY timestamp_secs`, matchID)
	if err != nil {
		return fmt.Errorf("load age ups: %w", err)
	}
	defer ageRows.Close()
	for ageRows.Next() {
		var a model.AgeUp
		var age string
		if err := ageRows.Scan(&a.Player, &age, &a.TimestampSecs); err != nil {
			return fmt.Errorf("scan age up: %w", err)
		}
		a.Age = model.Era(age)
		m.AgeUps = append(m.AgeUps, a)
	}
	return ageRows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
