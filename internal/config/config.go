// Package config holds the settings of a collection run.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"wikidump/internal/dump"
	"wikidump/pkg/wikipedia"
)

// Config describes what to collect and where to write it.
type Config struct {
	Lang      string   `yaml:"lang"`
	Targets   []string `yaml:"targets"`
	Count     int      `yaml:"count"`
	Output    string   `yaml:"output"`
	UserAgent string   `yaml:"user_agent"`
	Kafka     Kafka    `yaml:"kafka"`
}

// Kafka configures the optional record stream. Empty broker disables it.
type Kafka struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// Enabled reports whether records should be published.
func (k Kafka) Enabled() bool { return k.Broker != "" }

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		Lang:      "en",
		Targets:   []string{"sv", "fi", "de", "cs"},
		Count:     10,
		Output:    dump.DefaultPath,
		UserAgent: wikipedia.DefaultUserAgent,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the config can drive a run.
func (c Config) Validate() error {
	if !wikipedia.ValidLanguage(c.Lang) {
		return fmt.Errorf("lang: %w: %q", wikipedia.ErrBadLanguage, c.Lang)
	}
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}

	for _, t := range c.Targets {
		if !wikipedia.ValidLanguage(t) {
			return fmt.Errorf("targets: %w: %q", wikipedia.ErrBadLanguage, t)
		}
		if t == c.Lang {
			return fmt.Errorf("target %q is the primary language", t)
		}
	}
	if dups := lo.FindDuplicates(c.Targets); len(dups) > 0 {
		return fmt.Errorf("duplicate target languages: %v", dups)
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("kafka topic is required when a broker is set")
	}
	return nil
}
