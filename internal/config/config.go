package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Listen is the host:port the API server binds.
	Listen string `yaml:"listen" validate:"required,hostname_port"`
	// BasePath prefixes every route, e.g. "/api".
	BasePath string `yaml:"base_path" validate:"required,startswith=/"`
	// DataDir holds the local replica file and the client's resolution cache.
	DataDir string `yaml:"data_dir" validate:"required"`

	Redis     Redis     `yaml:"redis"`
	Log       Log       `yaml:"log"`
	Client    Client    `yaml:"client"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

// RateLimit bounds write traffic per client IP. Reads are never limited.
type RateLimit struct {
	RPS   float64 `yaml:"rps" validate:"gt=0"`
	Burst float64 `yaml:"burst" validate:"gt=0"`
}

type Redis struct {
	// Addr empty means "run on the local file backend" — useful for
	// development and the offline replica.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type Client struct {
	// Bases are remote API bases the failover client tries before the
	// fixed local default, e.g. the page origin's /api.
	Bases []string `yaml:"bases" validate:"dive,url"`
}

func Default() *Config {
	return &Config{
		Listen:    "0.0.0.0:8787",
		BasePath:  "/api",
		DataDir:   "data",
		Log:       Log{Level: "info"},
		RateLimit: RateLimit{RPS: 5, Burst: 20},
	}
}

// Load builds the config from defaults, an optional yaml file and env
// overrides, then validates the result. A missing file is not an error;
// defaults plus env are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("can't parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("can't read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	host, port := splitListen(cfg.Listen)
	if v := os.Getenv("FORUM_HOST"); v != "" {
		host = v
	}
	if v := os.Getenv("FORUM_PORT"); v != "" {
		port = v
	}
	cfg.Listen = host + ":" + port

	if v := os.Getenv("FORUM_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("FORUM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FORUM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func splitListen(listen string) (host, port string) {
	host, port = "0.0.0.0", "8787"
	for i := len(listen) - 1; i >= 0; i-- {
		if listen[i] == ':' {
			return listen[:i], listen[i+1:]
		}
	}
	return host, port
}
