package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blzulian/agelytics/internal/decode"
	"github.com/blzulian/agelytics/internal/ingest"
	"github.com/blzulian/agelytics/internal/model"
	"github.com/blzulian/agelytics/internal/store"
)

type stubDecoder struct{}

func (stubDecoder) Decode(path string) (*decode.RawMatch, error) {
	return &decode.RawMatch{
		PlayedAt:   "2025-11-02T20:15:00",
		DurationMs: 600_000,
		MapName:    "Arabia",
		Completed:  true,
		Players: []decode.RawPlayer{
			{Name: "Alice", Number: 1, Human: true, Winner: true},
		},
	}, nil
}

func testConfig() model.Config {
	return model.Config{
		Watcher:    model.WatcherConfig{DebounceMs: 50},
		Simulation: model.SimulationConfig{VillagerTrainSecs: 25, TcBuildDelaySecs: 150, IdleToleranceSecs: 5},
		Housing:    model.HousingConfig{HouseBuildSecs: 25, MilitaryInactivitySec: 120, DeathGraceSecs: 60},
		Logging:    model.LoggingConfig{Level: "error"},
	}
}

func TestIsReplay(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"game.aoe2record", true},
		{"GAME.AOE2RECORD", true},
		{"old.mgz", true},
		{"notes.txt", false},
		{"game.aoe2record.tmp", false},
		{"aoe2record", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isReplay(tt.path), tt.path)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	cfg := testConfig()
	w := New(filepath.Join(t.TempDir(), "nope"), cfg, nil, nil, nil)
	err := w.Run(context.Background())
	assert.Error(t, err)
}

func TestRunIngestsNewReplay(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	in := ingest.New(stubDecoder{}, store.NewMatchRepo(db), cfg, nil)

	matches := make(chan *model.Match, 1)
	w := New(dir, cfg, in, func(m *model.Match) { matches <- m }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "game.aoe2record")
	require.NoError(t, os.WriteFile(path, []byte("replay-bytes"), 0o644))

	select {
	case m := <-matches:
		assert.Equal(t, "Arabia", m.MapName)
		require.Positive(t, m.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no match ingested before timeout")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
