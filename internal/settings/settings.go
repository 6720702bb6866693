// Package settings loads tool settings for the lattice CLI and servers.
// Settings describe how lattice runs (store backend, ports, timeouts), never
// what it runs; that lives in the latticefile.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. LATTICE_STORE_BACKEND.
const EnvPrefix = "LATTICE"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Settings holds the tool configuration.
type Settings struct {
	// File is the latticefile path.
	File string `mapstructure:"file"`

	LogLevel string `mapstructure:"log_level"`

	// CommandTimeout bounds each command. Zero disables the limit.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	Store StoreSettings `mapstructure:"store"`
	HTTP  HTTPSettings  `mapstructure:"http"`
	Lock  LockSettings  `mapstructure:"lock"`
}

// StoreSettings selects where run records are kept.
type StoreSettings struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	Redis   RedisSettings `mapstructure:"redis"`
}

// RedisSettings configures the redis store and locker.
type RedisSettings struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPSettings configures `lattice serve`.
type HTTPSettings struct {
	Port int `mapstructure:"port"`
}

// LockSettings serializes runs of one environment across processes (redis only).
type LockSettings struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load reads settings from configPath, or from .lattice/settings.yaml in the
// working directory or home directory when configPath is empty. The file is
// optional; LATTICE_* environment variables override it.
func Load(configPath string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".lattice")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lattice"))
		}
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerations and ranges.
func (s *Settings) Validate() error {
	switch s.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("invalid store backend %q (want memory, file or redis)", s.Store.Backend)
	}
	if s.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative")
	}
	if s.HTTP.Port < 0 || s.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", s.HTTP.Port)
	}
	if s.Lock.Enabled && s.Store.Backend != BackendRedis {
		return fmt.Errorf("lock requires the redis store backend")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("file", "lattice.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("command_timeout", "0s")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", filepath.Join(".lattice", "runs"))
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "lattice:run:")
	v.SetDefault("store.redis.ttl", "0s")
	v.SetDefault("http.port", 8080)
	v.SetDefault("lock.enabled", false)
	v.SetDefault("lock.ttl", "30m")
}
