// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file values. A double
// underscore separates table and key: CODETYPE_PRACTICE__WORDS=30.
const EnvPrefix = "CODETYPE_"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice" koanf:"practice"`
	Log      LogConfig      `toml:"log" koanf:"log"`
	Metrics  MetricsConfig  `toml:"metrics" koanf:"metrics"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Path            *string  `toml:"path" koanf:"path"`
	Ext             *string  `toml:"ext" koanf:"ext"`
	Words           *int     `toml:"words" koanf:"words"`
	Strict          *bool    `toml:"strict" koanf:"strict"`
	SkipWordOnSpace *bool    `toml:"skip_word" koanf:"skip_word"`
	MinAccuracy     *float64 `toml:"min_accuracy" koanf:"min_accuracy"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level" koanf:"level"`
	File  *string `toml:"file" koanf:"file"`
}

// MetricsConfig maps metrics export settings.
type MetricsConfig struct {
	File *string `toml:"file" koanf:"file"`
}

// LoadConfig reads a TOML config from the given path and applies
// environment overrides. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	return applyEnv(cfg)
}

func loadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// applyEnv overlays CODETYPE_* variables on cfg. Only keys present in the
// environment are touched.
func applyEnv(cfg FileConfig) (FileConfig, error) {
	k := koanf.New(".")
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(provider, nil); err != nil {
		return FileConfig{}, fmt.Errorf("failed to load environment: %w", err)
	}
	if len(k.Keys()) == 0 {
		return cfg, nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode environment: %w", err)
	}
	return cfg, nil
}
