package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Timezone       string `yaml:"timezone"`
	TickIntervalMS int    `yaml:"tick_interval_ms"`
}

type Config struct {
	DataPath     string
	DBPath       string
	StateDir     string
	HooksDir     string
	JournalDir   string
	Location     *time.Location
	TickInterval time.Duration
}

// New resolves the data directory and reads the optional config.yaml inside it.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataPath = filepath.Join(home, ".tempo")
	}

	cfg := Config{
		DataPath:     dataPath,
		DBPath:       filepath.Join(dataPath, "tempo.db"),
		StateDir:     filepath.Join(dataPath, "state"),
		HooksDir:     filepath.Join(dataPath, "hooks"),
		JournalDir:   filepath.Join(dataPath, "journal"),
		Location:     time.Local,
		TickInterval: time.Second,
	}

	raw, err := os.ReadFile(filepath.Join(dataPath, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if fc.Timezone != "" {
		loc, err := time.LoadLocation(fc.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("load timezone %q: %w", fc.Timezone, err)
		}
		cfg.Location = loc
	}
	if fc.TickIntervalMS > 0 {
		cfg.TickInterval = time.Duration(fc.TickIntervalMS) * time.Millisecond
	}
	return cfg, nil
}
