package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	// Target congress for ingestion and analysis
	Congress int `mapstructure:"congress"`

	Storage  StorageConfig  `mapstructure:"storage"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Poll     PollConfig     `mapstructure:"poll"`
}

// StorageConfig selects and locates the record store backend.
type StorageConfig struct {
	Type     string `mapstructure:"type"` // "file", "bolt"
	DataDir  string `mapstructure:"data_dir"`
	BoltPath string `mapstructure:"bolt_path"`
}

// UpstreamConfig configures the Congress.gov data supplier client.
type UpstreamConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	RateLimit int    `mapstructure:"rate_limit"` // requests per second
	PageSize  int    `mapstructure:"page_size"`
	Retries   int    `mapstructure:"retries"`
}

// AnalysisConfig carries every threshold the scoring engine uses. All of
// them are tunable so the classification bands are configuration, not code.
type AnalysisConfig struct {
	MinVotes          int     `mapstructure:"min_votes"`          // unity sample floor
	LoyalistThreshold float64 `mapstructure:"loyalist_threshold"` // unity >= x -> Loyalist
	MaverickThreshold float64 `mapstructure:"maverick_threshold"` // unity <= 1-x -> Maverick
	SwingLow          float64 `mapstructure:"swing_low"`
	SwingHigh         float64 `mapstructure:"swing_high"`

	// Structural-significance filter for major defections
	SignificantDefections int `mapstructure:"significant_defections"` // bill qualifies at >= x
	HighDefections        int `mapstructure:"high_defections"`        // significance "High" at >= x

	// Divisive-vote detection
	DivergenceThreshold  float64 `mapstructure:"divergence_threshold"`   // magnitude variant
	DivisiveShare        float64 `mapstructure:"divisive_share"`         // recency variant minority share
	DivisivePartyMinimum int     `mapstructure:"divisive_party_minimum"` // recency variant sample floor

	// Party-line roll-call classification
	PartyLineUnity float64 `mapstructure:"party_line_unity"`

	// Tie-break for an exactly even party Yea/Nay split. "Yea" matches the
	// historical behavior; kept configurable because the choice is arbitrary.
	TieBreak string `mapstructure:"tie_break"`

	TrendMonths      int `mapstructure:"trend_months"`
	RankingSize      int `mapstructure:"ranking_size"`
	MaverickLimit    int `mapstructure:"maverick_limit"`
	DivisiveLimit    int `mapstructure:"divisive_limit"`
	TopCollaborators int `mapstructure:"top_collaborators"`
}

// APIConfig configures the HTTP serving layer.
type APIConfig struct {
	Addr     string        `mapstructure:"addr"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CacheConfig configures the response cache. With no redis address the
// in-process TTL cache is used instead.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// PollConfig configures the periodic batch scheduler.
type PollConfig struct {
	Schedule    string `mapstructure:"schedule"` // cron expression
	IngestFirst bool   `mapstructure:"ingest_first"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Congress: 119,
		Storage: StorageConfig{
			Type:     "file",
			DataDir:  filepath.Join(homeDir, ".legis", "data"),
			BoltPath: filepath.Join(homeDir, ".legis", "lake.db"),
		},
		Upstream: UpstreamConfig{
			BaseURL:   "https://api.congress.gov/v3",
			RateLimit: 5,
			PageSize:  250,
			Retries:   3,
		},
		Analysis: AnalysisConfig{
			MinVotes:              3,
			LoyalistThreshold:     0.95,
			MaverickThreshold:     0.85,
			SwingLow:              0.40,
			SwingHigh:             0.60,
			SignificantDefections: 3,
			HighDefections:        5,
			DivergenceThreshold:   0.70,
			DivisiveShare:         0.30,
			DivisivePartyMinimum:  10,
			PartyLineUnity:        0.80,
			TieBreak:              "Yea",
			TrendMonths:           12,
			RankingSize:           20,
			MaverickLimit:         10,
			DivisiveLimit:         5,
			TopCollaborators:      5,
		},
		API: APIConfig{
			Addr:     ":8080",
			CacheTTL: 5 * time.Minute,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Poll: PollConfig{
			Schedule:    "0 3 * * *", // daily at 03:00
			IngestFirst: true,
		},
	}
}

// Load loads configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("congress", cfg.Congress)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("upstream", cfg.Upstream)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("api", cfg.API)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("poll", cfg.Poll)

	v.SetEnvPrefix("LEGIS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".legis")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".legis"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Congress <= 0 {
		return fmt.Errorf("congress must be positive, got %d", c.Congress)
	}
	switch c.Storage.Type {
	case "file", "bolt":
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	a := c.Analysis
	if a.MinVotes < 1 {
		return fmt.Errorf("analysis.min_votes must be at least 1")
	}
	if a.LoyalistThreshold <= 0 || a.LoyalistThreshold > 1 {
		return fmt.Errorf("analysis.loyalist_threshold out of range: %v", a.LoyalistThreshold)
	}
	if a.SwingLow > a.SwingHigh {
		return fmt.Errorf("analysis.swing_low %v above swing_high %v", a.SwingLow, a.SwingHigh)
	}
	if a.TieBreak != "Yea" && a.TieBreak != "Nay" {
		return fmt.Errorf("analysis.tie_break must be Yea or Nay, got %q", a.TieBreak)
	}
	return nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".legis", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies well-known environment variables on top of the
// file/default configuration.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("CONGRESS_API_KEY"); key != "" {
		cfg.Upstream.APIKey = key
	}
	if url := os.Getenv("CONGRESS_API_URL"); url != "" {
		cfg.Upstream.BaseURL = url
	}
	if rateLimit := os.Getenv("CONGRESS_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.Upstream.RateLimit = rate
		}
	}
	if congress := os.Getenv("LEGIS_CONGRESS"); congress != "" {
		if n, err := strconv.Atoi(congress); err == nil {
			cfg.Congress = n
		}
	}
	if storageType := os.Getenv("LEGIS_STORAGE_TYPE"); storageType != "" {
		cfg.Storage.Type = storageType
	}
	if dir := os.Getenv("LEGIS_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = expandPath(dir)
	}
	if path := os.Getenv("LEGIS_BOLT_PATH"); path != "" {
		cfg.Storage.BoltPath = expandPath(path)
	}
	if addr := os.Getenv("LEGIS_API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Cache.RedisPassword = password
	}
	if schedule := os.Getenv("LEGIS_POLL_SCHEDULE"); schedule != "" {
		cfg.Poll.Schedule = schedule
	}
	if ttl := os.Getenv("LEGIS_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.Cache.TTL = d
			cfg.API.CacheTTL = d
		}
	}
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
