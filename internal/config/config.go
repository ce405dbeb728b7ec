// Package config loads banksort settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/viper"

	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/pipeline"
)

// EnvPrefix prefixes every environment override, e.g.
// BANKSORT_SIMILARITY_THRESHOLD or BANKSORT_TARGETS_TYPE_OPEN.
const EnvPrefix = "BANKSORT"

// Config is the effective configuration.
type Config struct {
	EasyThreshold       float64 `mapstructure:"easy_threshold" json:"easy_threshold"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`
	MinAttemptsFloor    float64 `mapstructure:"min_attempts_floor" json:"min_attempts_floor"`

	Revision RevisionConfig `mapstructure:"revision" json:"revision"`
	Targets  TargetsConfig  `mapstructure:"targets" json:"targets"`

	MaxInputBytes int64  `mapstructure:"max_input_bytes" json:"max_input_bytes"`
	DB            string `mapstructure:"db" json:"db"`

	Log   LogConfig   `mapstructure:"log" json:"log"`
	Cache CacheConfig `mapstructure:"cache" json:"cache"`
}

type RevisionConfig struct {
	DiscriminationFloor float64 `mapstructure:"discrimination_floor" json:"discrimination_floor"`
	EasiestShare        float64 `mapstructure:"easiest_share" json:"easiest_share"`
}

type TargetsConfig struct {
	Type         TypeTargets  `mapstructure:"type" json:"type"`
	Level        LevelTargets `mapstructure:"level" json:"level"`
	MinQuestions int          `mapstructure:"min_questions" json:"min_questions"`
}

type TypeTargets struct {
	Open   float64 `mapstructure:"open" json:"open"`
	Closed float64 `mapstructure:"closed" json:"closed"`
}

type LevelTargets struct {
	Easy   float64 `mapstructure:"easy" json:"easy"`
	Medium float64 `mapstructure:"medium" json:"medium"`
	Hard   float64 `mapstructure:"hard" json:"hard"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	// File enables a rotated JSON log file in addition to stderr.
	File string `mapstructure:"file" json:"file"`
}

type CacheConfig struct {
	// KeepRuns is how many runs the SQLite store retains.
	KeepRuns int `mapstructure:"keep_runs" json:"keep_runs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := pipeline.DefaultParams()
	return &Config{
		EasyThreshold:       p.Categorize.EasyThreshold,
		SimilarityThreshold: p.Matching.Threshold,
		MinAttemptsFloor:    p.Categorize.MinAttemptsFloor,
		Revision: RevisionConfig{
			DiscriminationFloor: p.Categorize.DiscriminationFloor,
			EasiestShare:        p.Categorize.EasiestShare,
		},
		Targets: TargetsConfig{
			Type:         TypeTargets{Open: p.Targets.Open, Closed: p.Targets.Closed},
			Level:        LevelTargets{Easy: p.Targets.Easy, Medium: p.Targets.Medium, Hard: p.Targets.Hard},
			MinQuestions: p.Targets.MinQuestions,
		},
		MaxInputBytes: p.MaxInputBytes,
		Log:           LogConfig{Level: "warn"},
		Cache:         CacheConfig{KeepRuns: 10},
	}
}

// Load reads the configuration. An explicit path must exist; with an empty
// path banksort.yaml is looked up in the working directory and then in
// $XDG_CONFIG_HOME/banksort, and its absence is not an error. A .env file
// in the working directory is loaded first without overriding variables
// that are already set.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("banksort")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads name into the process environment if it exists.
func LoadDotEnv(name string) error {
	err := godotenv.Load(name)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", name, err)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("easy_threshold", d.EasyThreshold)
	v.SetDefault("similarity_threshold", d.SimilarityThreshold)
	v.SetDefault("min_attempts_floor", d.MinAttemptsFloor)
	v.SetDefault("revision.discrimination_floor", d.Revision.DiscriminationFloor)
	v.SetDefault("revision.easiest_share", d.Revision.EasiestShare)
	v.SetDefault("targets.type.open", d.Targets.Type.Open)
	v.SetDefault("targets.type.closed", d.Targets.Type.Closed)
	v.SetDefault("targets.level.easy", d.Targets.Level.Easy)
	v.SetDefault("targets.level.medium", d.Targets.Level.Medium)
	v.SetDefault("targets.level.hard", d.Targets.Level.Hard)
	v.SetDefault("targets.min_questions", d.Targets.MinQuestions)
	v.SetDefault("max_input_bytes", d.MaxInputBytes)
	v.SetDefault("db", d.DB)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("cache.keep_runs", d.Cache.KeepRuns)
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "banksort"), nil
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// Params converts c into pipeline parameters.
func (c *Config) Params() pipeline.Params {
	p := pipeline.DefaultParams()

	p.Categorize.EasyThreshold = c.EasyThreshold
	p.Categorize.DiscriminationFloor = c.Revision.DiscriminationFloor
	p.Categorize.EasiestShare = c.Revision.EasiestShare
	p.Categorize.MinAttemptsFloor = c.MinAttemptsFloor

	p.Matching.Threshold = c.SimilarityThreshold

	p.Targets = balance.Targets{
		Open:         c.Targets.Type.Open,
		Closed:       c.Targets.Type.Closed,
		Easy:         c.Targets.Level.Easy,
		Medium:       c.Targets.Level.Medium,
		Hard:         c.Targets.Level.Hard,
		MinQuestions: c.Targets.MinQuestions,
	}
	p.Balance.DiscriminationFloor = c.Revision.DiscriminationFloor
	p.Balance.EasiestShare = c.Revision.EasiestShare

	if c.MaxInputBytes > 0 {
		p.MaxInputBytes = c.MaxInputBytes
	}
	return p
}
