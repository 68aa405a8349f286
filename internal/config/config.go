// Package config loads and validates docsentry configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob the pipeline consumes. It is constructed
// once at startup and passed explicitly into components; nothing reads
// process-wide state after this.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Repo    RepoConfig    `mapstructure:"repo"`
	Verify  VerifyConfig  `mapstructure:"verify"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScanConfig locates the documentation tree.
type ScanConfig struct {
	Root    string `mapstructure:"root"`
	Pattern string `mapstructure:"pattern"`
}

// RepoConfig identifies the repository whose commit relative links are
// checked against. Commit wins over Ref; an empty Ref means the default
// branch, resolved through the API with Token when Commit is unset.
type RepoConfig struct {
	Host   string `mapstructure:"host"`
	Owner  string `mapstructure:"owner"`
	Name   string `mapstructure:"name"`
	Commit string `mapstructure:"commit"`
	Ref    string `mapstructure:"ref"`
	Token  string `mapstructure:"token"`
}

// VerifyConfig governs the dispatcher pool and verification strategies.
type VerifyConfig struct {
	PoolSize        int    `mapstructure:"pool_size"`
	NavTimeoutSec   int    `mapstructure:"nav_timeout_seconds"`
	ProbeTimeoutSec int    `mapstructure:"probe_timeout_seconds"`
	UserAgent       string `mapstructure:"user_agent"`
	AcceptLanguage  string `mapstructure:"accept_language"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCSENTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindRepoIdentity(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.root", ".")
	v.SetDefault("scan.pattern", "**.md")
	v.SetDefault("repo.host", "github.com")
	v.SetDefault("verify.pool_size", 4)
	v.SetDefault("verify.nav_timeout_seconds", 30)
	v.SetDefault("verify.probe_timeout_seconds", 10)
	v.SetDefault("verify.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("verify.accept_language", "en-US,en;q=0.9")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// bindRepoIdentity binds the repository identity keys to their
// DOCSENTRY_* variables. These keys carry no defaults, and Unmarshal
// only sees environment values for keys viper already knows about.
func bindRepoIdentity(v *viper.Viper) {
	for _, key := range []string{"repo.owner", "repo.name", "repo.commit", "repo.ref", "repo.token"} {
		_ = v.BindEnv(key)
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scan.Root == "" {
		return fmt.Errorf("scan.root must be set")
	}
	if c.Repo.Owner == "" || c.Repo.Name == "" {
		return fmt.Errorf("repo.owner and repo.name must be set")
	}
	if c.Verify.PoolSize <= 0 {
		return fmt.Errorf("verify.pool_size must be > 0")
	}
	if c.Verify.PoolSize > 10 {
		return fmt.Errorf("verify.pool_size must be <= 10")
	}
	if c.Verify.NavTimeoutSec <= 0 {
		return fmt.Errorf("verify.nav_timeout_seconds must be > 0")
	}
	if c.Verify.ProbeTimeoutSec <= 0 {
		return fmt.Errorf("verify.probe_timeout_seconds must be > 0")
	}
	return nil
}

// NavTimeout returns the navigation timeout as a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Verify.NavTimeoutSec) * time.Second
}

// ProbeTimeout returns the HEAD probe timeout as a duration.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Verify.ProbeTimeoutSec) * time.Second
}
