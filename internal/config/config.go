package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverOpensearch = "opensearch"
	DriverMemory     = "memory"

	envPrefix = "USERSEARCH_"
)

type Config struct {
	HTTP struct {
		Addr           string   `koanf:"addr"`
		ReadTimeout    int      `koanf:"read_timeout"`
		WriteTimeout   int      `koanf:"write_timeout"`
		IdleTimeout    int      `koanf:"idle_timeout"`
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"http"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
	Store struct {
		Driver string `koanf:"driver"`
	} `koanf:"store"`
	Opensearch struct {
		URLs               []string `koanf:"urls"`
		Username           string   `koanf:"username"`
		Password           string   `koanf:"password"`
		MaxRetries         int      `koanf:"max_retries"`
		InsecureSkipVerify bool     `koanf:"insecure_skip_verify"`
		Refresh            string   `koanf:"refresh"`
		CreateIndices      bool     `koanf:"create_indices"`
	} `koanf:"opensearch"`
	Kafka struct {
		Brokers []string `koanf:"brokers"`
		Topic   struct {
			Name       string `koanf:"name"`
			Partitions int    `koanf:"partitions"`
		} `koanf:"topic"`
		ConsumerGroup string `koanf:"consumer_group"`
		Retry         struct {
			Max     int `koanf:"max"`
			Backoff int `koanf:"backoff"`
		} `koanf:"retry"`
	} `koanf:"kafka"`
	Ingest struct {
		File string `koanf:"file"`
	} `koanf:"ingest"`
}

// Load reads the YAML file at path, then lets USERSEARCH_* environment
// variables override it. A double underscore separates nested keys, e.g.
// USERSEARCH_OPENSEARCH__URLS.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	c.setDefaults()
	return &c, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func (c *Config) setDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverOpensearch
	}
	if c.Opensearch.Refresh == "" {
		c.Opensearch.Refresh = "wait_for"
	}
	if c.Ingest.File == "" {
		c.Ingest.File = "users.jsonl"
	}
}

// Validate checks the settings every mode needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverOpensearch:
		if len(c.Opensearch.URLs) == 0 {
			return fmt.Errorf("config: opensearch.urls is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch c.Opensearch.Refresh {
	case "true", "false", "wait_for":
	default:
		return fmt.Errorf("config: opensearch.refresh must be true, false or wait_for")
	}
	return nil
}

// ValidateKafka checks the settings the ingest and index modes need.
func (c *Config) ValidateKafka() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required")
	}
	if c.Kafka.Topic.Name == "" {
		return fmt.Errorf("config: kafka.topic.name is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		return fmt.Errorf("config: kafka.consumer_group is required")
	}
	return nil
}
