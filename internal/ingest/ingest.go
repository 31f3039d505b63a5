// Package ingest runs the replay pipeline: decode, analyze, derive metrics,
// persist. Matches are independent, so a batch fans out across workers.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blzulian/agelytics/internal/decode"
	"github.com/blzulian/agelytics/internal/engine"
	"github.com/blzulian/agelytics/internal/logging"
	"github.com/blzulian/agelytics/internal/metrics"
	"github.com/blzulian/agelytics/internal/model"
	"github.com/blzulian/agelytics/internal/store"
)

// Summary counts the outcomes of one batch run.
type Summary struct {
	Ingested   int
	Duplicates int
	Failed     int
}

// Ingester decodes, analyzes, and stores replay files.
type Ingester struct {
	decoder  decode.Decoder
	analyzer *engine.Analyzer
	repo     *store.MatchRepo
	cfg      model.Config
	logger   *log.Logger
	logLevel logging.Level
	workers  int
}

func New(decoder decode.Decoder, repo *store.MatchRepo, cfg model.Config, logger *log.Logger) *Ingester {
	return &Ingester{
		decoder:  decoder,
		analyzer: engine.NewAnalyzer(cfg.Simulation, cfg.Housing),
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
		logLevel: logging.ParseLevel(cfg.Logging.Level),
		workers:  4,
	}
}

// Run ingests a batch of replay files. Individual file failures are counted
// and logged, never fatal to the batch.
func (in *Ingester) Run(ctx context.Context, paths []string) (Summary, error) {
	var mu sync.Mutex
	var sum Summary

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := in.One(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, store.ErrDuplicate):
				sum.Duplicates++
			case err != nil:
				sum.Failed++
				in.log(logging.LevelWarn, "ingest file=%s error=%v", path, err)
			default:
				sum.Ingested++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}

	in.log(logging.LevelInfo, "batch done ingested=%d duplicates=%d failed=%d",
		sum.Ingested, sum.Duplicates, sum.Failed)
	return sum, nil
}

// One ingests a single replay file and returns the analyzed match.
// Returns store.ErrDuplicate when the file was already ingested.
func (in *Ingester) One(ctx context.Context, path string) (*model.Match, error) {
	hash, err := fileHash(path)
	if err != nil {
		return nil, fmt.Errorf("hash replay: %w", err)
	}
	if seen, err := in.repo.HasHash(ctx, hash); err != nil {
		return nil, err
	} else if seen {
		return nil, store.ErrDuplicate
	}

	raw, err := in.decoder.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	raw.FilePath = path
	if raw.FileHash == "" {
		raw.FileHash = hash
	}

	m := in.analyzer.Analyze(raw)

	playerMetrics := make(map[string]store.PlayerMetrics, len(m.Players))
	for _, p := range m.Players {
		opening := metrics.ClassifyOpening(m, p.Name)
		if pa := m.Analysis[p.Name]; pa != nil {
			pa.Opening = opening
		}
		playerMetrics[p.Name] = store.PlayerMetrics{
			TcIdlePercent:       metrics.TcIdlePercent(m, p.Name),
			FarmGapAverage:      metrics.FarmGapAverage(m, p.Name),
			MilitaryTimingIndex: metrics.MilitaryTimingIndex(m, p.Name),
			ResourceEfficiency:  metrics.ResourceEfficiency(m, p.Name),
			Opening:             opening,
		}
	}

	id, err := in.repo.Insert(ctx, m, playerMetrics)
	if err != nil {
		return nil, err
	}
	m.ID = id
	in.log(logging.LevelDebug, "ingested file=%s match_id=%d players=%d", path, id, len(m.Players))
	return m, nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (in *Ingester) log(level logging.Level, format string, args ...any) {
	if level < in.logLevel || in.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	in.logger.Printf("%s %s ingest: %s", time.Now().Format(time.RFC3339), level, msg)
}
