// Package config loads the agelytics YAML configuration file.
package config

import (
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/blzulian/agelytics/internal/model"
)

// Default returns a Config with every tunable at its standard value.
func Default() model.Config {
	return model.Config{
		Database: model.DatabaseConfig{Path: "data/agelytics.db"},
		API: model.APIConfig{
			CompanionURL:  "https://data.aoe2companion.com/api",
			WorldsEdgeURL: "https://aoe-api.worldsedgelink.com/community/leaderboard",
			TimeoutSec:    15,
			CacheTTLSec:   300,
			CacheSize:     256,
		},
		Watcher: model.WatcherConfig{DebounceMs: 500},
		Simulation: model.SimulationConfig{
			VillagerTrainSecs: 25,
			TcBuildDelaySecs:  150,
			IdleToleranceSecs: 5,
		},
		Housing: model.HousingConfig{
			HouseBuildSecs:        25,
			MilitaryInactivitySec: 120,
			DeathGraceSecs:        60,
		},
		Trends:  model.TrendsConfig{Window: 10},
		Logging: model.LoggingConfig{Level: "info"},
	}
}

// Load reads the config file at path and merges it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (model.Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg model.Config) error {
	if cfg.Simulation.VillagerTrainSecs <= 0 {
		return fmt.Errorf("simulation.villager_train_secs must be positive, got %v", cfg.Simulation.VillagerTrainSecs)
	}
	if cfg.Simulation.TcBuildDelaySecs < 0 {
		return fmt.Errorf("simulation.tc_build_delay_secs must not be negative, got %v", cfg.Simulation.TcBuildDelaySecs)
	}
	if cfg.Simulation.IdleToleranceSecs < 0 {
		return fmt.Errorf("simulation.idle_tolerance_secs must not be negative, got %v", cfg.Simulation.IdleToleranceSecs)
	}
	if cfg.Trends.Window <= 0 {
		return fmt.Errorf("trends.window must be positive, got %d", cfg.Trends.Window)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	return nil
}
