package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blzulian/agelytics/internal/model"
)

func newTestRepo(t *testing.T) *MatchRepo {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMatchRepo(db)
}

func testMatch(hash string) *model.Match {
	elo := 1203
	return &model.Match{
		FileHash:     hash,
		FilePath:     "/replays/game.aoe2record",
		PlayedAt:     "2025-11-02T20:15:00",
		DurationSecs: 2400,
		MapName:      "Arabia",
		MapID:        9,
		GameType:     "RM 1v1",
		Speed:        "Normal",
		PopLimit:     200,
		Completed:    true,
		Players: []model.Player{
			{Name: "Alice", Number: 1, CivID: 2, CivName: "Franks", Winner: true, Elo: &elo},
			{Name: "Bob", Number: 2, CivID: 1, CivName: "Britons"},
		},
		AgeUps: []model.AgeUp{
			{Player: "Alice", Age: model.EraFeudal, TimestampSecs: 612.5},
		},
		Analysis: map[string]*model.PlayerAnalysis{
			"Alice": {
				TcIdleSecs: 180,
				TcIdleByEra: map[model.Era]float64{
					model.EraDark:   120,
					model.EraFeudal: 60,
				},
				HousedLowerSecs:      30,
				HousedUpperSecs:      95,
				HousedLowerByEra:     map[model.Era]float64{model.EraFeudal: 30},
				HousedUpperByEra:     map[model.Era]float64{model.EraFeudal: 95},
				TcIdleEffectiveLower: 210,
				TcIdleEffectiveUpper: 275,
			},
			"Bob": {},
		},
	}
}

func TestInsertAndReadBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pct := 7.5
	id, err := repo.Insert(ctx, testMatch("hash-1"), map[string]PlayerMetrics{
		"Alice": {TcIdlePercent: &pct, Opening: "Scout Rush"},
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "hash-1", got.FileHash)
	assert.Equal(t, "Arabia", got.MapName)
	assert.True(t, got.Completed)
	require.Len(t, got.Players, 2)
	assert.True(t, got.Players[0].Winner)
	require.NotNil(t, got.Players[0].Elo)
	assert.Equal(t, 1203, *got.Players[0].Elo)
	assert.Nil(t, got.Players[1].Elo)

	pa := got.Analysis["Alice"]
	require.NotNil(t, pa)
	assert.InDelta(t, 180, pa.TcIdleSecs, 1e-9)
	assert.InDelta(t, 120, pa.TcIdleByEra[model.EraDark], 1e-9)
	assert.InDelta(t, 60, pa.TcIdleByEra[model.EraFeudal], 1e-9)
	assert.InDelta(t, 30, pa.HousedLowerByEra[model.EraFeudal], 1e-9)
	assert.InDelta(t, 95, pa.HousedUpperByEra[model.EraFeudal], 1e-9)
	assert.InDelta(t, 275, pa.TcIdleEffectiveUpper, 1e-9)
	assert.Equal(t, "Scout Rush", pa.Opening)

	require.Len(t, got.AgeUps, 1)
	assert.Equal(t, model.EraFeudal, got.AgeUps[0].Age)
	assert.InDelta(t, 612.5, got.AgeUps[0].TimestampSecs, 1e-9)
}

func TestInsertDuplicateHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testMatch("hash-dup"), nil)
	require.NoError(t, err)

	_, err = repo.Insert(ctx, testMatch("hash-dup"), nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHasHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seen, err := repo.HasHash(ctx, "hash-x")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = repo.Insert(ctx, testMatch("hash-x"), nil)
	require.NoError(t, err)

	seen, err = repo.HasHash(ctx, "hash-x")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestListFiltersByPlayer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m1 := testMatch("hash-a")
	m1.PlayedAt = "2025-11-01T10:00:00"
	_, err := repo.Insert(ctx, m1, nil)
	require.NoError(t, err)

	m2 := testMatch("hash-b")
	m2.PlayedAt = "2025-11-02T10:00:00"
	m2.Players = []model.Player{{Name: "Carol", Number: 1, CivName: "Goths"}}
	m2.Analysis = map[string]*model.PlayerAnalysis{"Carol": {}}
	m2.AgeUps = nil
	_, err = repo.Insert(ctx, m2, nil)
	require.NoError(t, err)

	all, err := repo.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hash-b", all[0].FileHash, "newest first")

	alices, err := repo.List(ctx, "Alice", 10)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "hash-a", alices[0].FileHash)

	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hash-b", last.FileHash)
}

func TestNullMetricsSurviveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testMatch("hash-n"), map[string]PlayerMetrics{
		"Alice": {}, // everything absent
	})
	require.NoError(t, err)

	sr := NewStatsRepo(repo.db)
	history, err := sr.MetricHistory(ctx, "Alice", "farm_gap_average")
	require.NoError(t, err)
	assert.Empty(t, history, "NULL metrics must not surface as zeros")
}
