package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/blzulian/agelytics/internal/api"
	"github.com/blzulian/agelytics/internal/config"
	"github.com/blzulian/agelytics/internal/decode"
	"github.com/blzulian/agelytics/internal/ingest"
	"github.com/blzulian/agelytics/internal/logging"
	"github.com/blzulian/agelytics/internal/model"
	"github.com/blzulian/agelytics/internal/report"
	"github.com/blzulian/agelytics/internal/store"
	"github.com/blzulian/agelytics/internal/watch"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(os.Args[2:])
	case "report":
		runReport(os.Args[2:])
	case "stats":
		runStats(os.Args[2:])
	case "scout":
		runScout(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("agelytics %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: agelytics <command> [options]

commands:
  ingest   parse and store replay files
  report   show the report for a stored match
  stats    show career statistics for a player
  scout    build an opponent dossier from ranked history
  watch    monitor the replay directory and ingest new games
  version  print version`)
}

func loadConfig(path string) model.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fatal("load config: %v", err)
	}
	return cfg
}

func openStore(cfg model.Config) *store.MatchRepo {
	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		fatal("open database: %v", err)
	}
	return store.NewMatchRepo(db)
}

func newIngester(cfg model.Config, repo *store.MatchRepo) *ingest.Ingester {
	logger := log.New(os.Stderr, "", 0)
	return ingest.New(decode.NewJSONDecoder(), repo, cfg, logger)
}

func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", "agelytics.yaml", "config file path")
	dir := fs.String("dir", "", "replay directory (defaults to config replay_dir)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	repo := openStore(cfg)
	ingester := newIngester(cfg, repo)

	paths := fs.Args()
	if len(paths) == 0 {
		scanDir := *dir
		if scanDir == "" {
			scanDir = cfg.ReplayDir
		}
		if scanDir == "" {
			fatal("no replay files given and no replay_dir configured")
		}
		var err error
		paths, err = replayFiles(scanDir)
		if err != nil {
			fatal("scan %s: %v", scanDir, err)
		}
	}
	if len(paths) == 0 {
		fmt.Println("nothing to ingest")
		return
	}

	sum, err := ingester.Run(context.Background(), paths)
	if err != nil {
		fatal("ingest: %v", err)
	}
	fmt.Printf("ingested %d, duplicates %d, failed %d\n", sum.Ingested, sum.Duplicates, sum.Failed)
}

func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "agelytics.yaml", "config file path")
	matchID := fs.Int64("match", 0, "match id (default: most recent)")
	player := fs.String("player", "", "perspective player (defaults to config player)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	repo := openStore(cfg)

	ctx := context.Background()
	var m *model.Match
	var err error
	if *matchID > 0 {
		m, err = repo.GetByID(ctx, *matchID)
	} else {
		m, err = repo.Last(ctx)
	}
	if err != nil {
		fatal("load match: %v", err)
	}

	name := *player
	if name == "" {
		name = cfg.Player
	}
	fmt.Print(report.Match(m, name, cfg.Simulation.TcBuildDelaySecs))
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "agelytics.yaml", "config file path")
	player := fs.String("player", "", "player name (defaults to config player)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	name := *player
	if name == "" {
		name = cfg.Player
	}
	if name == "" {
		fatal("no player given and none configured")
	}

	db, err := store.NewDB(cfg.Database.Path)
	if err != nil {
		fatal("open database: %v", err)
	}
	out, err := report.Career(context.Background(), store.NewStatsRepo(db), name, cfg.Trends.Window)
	if err != nil {
		fatal("stats: %v", err)
	}
	fmt.Print(out)
}

func runScout(args []string) {
	fs := flag.NewFlagSet("scout", flag.ExitOnError)
	configPath := fs.String("config", "agelytics.yaml", "config file path")
	count := fs.Int("count", 50, "number of recent matches to analyze")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("usage: agelytics scout [options] <opponent name>")
	}
	opponent := fs.Arg(0)

	cfg := loadConfig(*configPath)
	logger := log.New(os.Stderr, "", 0)
	client := api.NewClient(cfg.API, logger, logging.ParseLevel(cfg.Logging.Level))

	out, err := report.Scouting(context.Background(), client, opponent, *count)
	if err != nil {
		fatal("scout: %v", err)
	}
	fmt.Print(out)
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "agelytics.yaml", "config file path")
	dir := fs.String("dir", "", "replay directory (defaults to config replay_dir)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	watchDir := *dir
	if watchDir == "" {
		watchDir = cfg.ReplayDir
	}
	if watchDir == "" {
		fatal("no replay directory given and none configured")
	}

	repo := openStore(cfg)
	ingester := newIngester(cfg, repo)
	logger := log.New(os.Stderr, "", 0)

	onMatch := func(m *model.Match) {
		fmt.Print(report.Match(m, cfg.Player, cfg.Simulation.TcBuildDelaySecs))
	}
	w := watch.New(watchDir, cfg, ingester, onMatch, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		fatal("watch: %v", err)
	}
}

// replayFiles lists replay recordings in a directory, oldest first by name.
func replayFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".aoe2record", ".mgz":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
