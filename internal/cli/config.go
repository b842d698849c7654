package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/stagekit/imageseq/pkg/pipeline"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/imageseq/config.toml (or $XDG_CONFIG_HOME/imageseq/config.toml).
// All fields have working defaults; the file is optional.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig carries default layout parameters for all commands.
type LayoutConfig struct {
	PixelsPerInch float64 `toml:"pixels_per_inch"`
	GapFraction   float64 `toml:"gap_fraction"`
	CurveFraction float64 `toml:"curve_fraction"`
	ImagesPerRow  int     `toml:"images_per_row"`
	RootPath      string  `toml:"root_path"`
}

// CacheConfig selects the cache backend.
// Backend is one of "file" (default), "redis", "mongo", or "none".
type CacheConfig struct {
	Backend string `toml:"backend"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig carries defaults for the serve command.
type ServerConfig struct {
	Bind           string `toml:"bind"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			PixelsPerInch: pipeline.DefaultPixelsPerInch,
			GapFraction:   pipeline.DefaultGapFraction,
			CurveFraction: 0,
			ImagesPerRow:  pipeline.DefaultImagesPerRow,
			RootPath:      pipeline.DefaultRootPath,
		},
		Cache: CacheConfig{
			Backend:         "file",
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "cache",
		},
		Server: ServerConfig{
			Bind:           "localhost",
			Port:           8080,
			TimeoutSeconds: 30,
		},
	}
}

// LoadConfig reads the config file, layering it over the defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile reads a specific config file, layering it over the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// configPath returns the config file path using XDG standard
// (~/.config/imageseq/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
