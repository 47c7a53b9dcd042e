package config

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/addrcache/internal/addrcache"
	"github.com/sells-group/addrcache/internal/region"
)

// Config holds the full application configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Acquire AcquireConfig `yaml:"acquire" mapstructure:"acquire"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Regions RegionsConfig `yaml:"regions" mapstructure:"regions"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CacheConfig locates the on-disk cache.
type CacheConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"` // empty = ~/.addrcache/cache/addresses
	KeepArchives bool   `yaml:"keep_archives" mapstructure:"keep_archives"`
}

// AcquireConfig configures acquisition runs.
type AcquireConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// FetchConfig configures archive downloads.
type FetchConfig struct {
	UserAgent          string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ConnectTimeoutSecs int     `yaml:"connect_timeout_secs" mapstructure:"connect_timeout_secs"`
	MaxRetries         int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec         float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// RegionsConfig overrides regional archive URLs, keyed by region name
// (us_west, ...). Useful for mirrors and local testing.
type RegionsConfig struct {
	Endpoints map[string]string `yaml:"endpoints" mapstructure:"endpoints"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.addrcache")

	// Environment
	v.SetEnvPrefix("ADDRCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.keep_archives", true)
	v.SetDefault("acquire.limit", 10000)
	v.SetDefault("fetch.user_agent", "addrcache/1.0")
	v.SetDefault("fetch.timeout_secs", 600)
	v.SetDefault("fetch.connect_timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges and region endpoint names.
func (c *Config) Validate() error {
	var errs []string

	if c.Acquire.Limit < 1 {
		errs = append(errs, "acquire.limit must be >= 1")
	}
	if c.Fetch.TimeoutSecs < 1 {
		errs = append(errs, "fetch.timeout_secs must be >= 1")
	}
	if c.Fetch.ConnectTimeoutSecs < 1 {
		errs = append(errs, "fetch.connect_timeout_secs must be >= 1")
	}
	if c.Fetch.MaxRetries < 0 {
		errs = append(errs, "fetch.max_retries must be >= 0")
	}
	if c.Fetch.RatePerSec < 0 {
		errs = append(errs, "fetch.rate_per_sec must be >= 0")
	}
	for name := range c.Regions.Endpoints {
		if _, ok := region.Parse(name); !ok {
			errs = append(errs, "regions.endpoints: unknown region "+name)
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// Endpoints returns the region URL overrides. Unknown region names are
// dropped; Validate reports them.
func (c *Config) Endpoints() map[region.Region]string {
	out := make(map[region.Region]string, len(c.Regions.Endpoints))
	for name, url := range c.Regions.Endpoints {
		if r, ok := region.Parse(name); ok && url != "" {
			out[r] = url
		}
	}
	return out
}

// CacheRoot returns cache.dir, or the default root under the home directory
// when it is unset.
func (c *Config) CacheRoot() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return addrcache.DefaultRoot(os.UserHomeDir)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
