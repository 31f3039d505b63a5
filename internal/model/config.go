package model

type Config struct {
	Player     string           `yaml:"player"`
	ReplayDir  string           `yaml:"replay_dir"`
	Database   DatabaseConfig   `yaml:"database"`
	API        APIConfig        `yaml:"api"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Simulation SimulationConfig `yaml:"simulation"`
	Housing    HousingConfig    `yaml:"housing"`
	Trends     TrendsConfig     `yaml:"trends"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	CompanionURL  string `yaml:"companion_url"`
	WorldsEdgeURL string `yaml:"worldsedge_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	CacheTTLSec   int    `yaml:"cache_ttl_sec"`
	CacheSize     int    `yaml:"cache_size"`
}

type WatcherConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// SimulationConfig carries the TC queue simulation constants. The research
// duration table uses base durations only; civilization cost discounts are not
// modeled, which underestimates idle time for civs with cheap key techs.
// ResearchDurations entries override or extend the built-in table.
type SimulationConfig struct {
	VillagerTrainSecs float64            `yaml:"villager_train_secs"`
	TcBuildDelaySecs  float64            `yaml:"tc_build_delay_secs"`
	IdleToleranceSecs float64            `yaml:"idle_tolerance_secs"`
	ResearchDurations map[string]float64 `yaml:"research_durations,omitempty"`
}

// HousingConfig carries the housed-time estimation constants. The military
// death heuristic (inactivity window + grace) is an approximation with no
// ground truth in the input stream; tune it here rather than in code.
type HousingConfig struct {
	HouseBuildSecs        float64 `yaml:"house_build_secs"`
	MilitaryInactivitySec float64 `yaml:"military_inactivity_secs"`
	DeathGraceSecs        float64 `yaml:"death_grace_secs"`
}

type TrendsConfig struct {
	Window int `yaml:"window"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}
