package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env            string        `yaml:"env"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	FrontendOrigin string        `yaml:"frontend_origin"`
	JWT            struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttlHours"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisCfg struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type S3Cfg struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

type KafkaCfg struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type GroqCfg struct {
	APIKey string `yaml:"apiKey"`
}

type Config struct {
	App   AppCfg   `yaml:"app"`
	Mongo MongoCfg `yaml:"mongo"`
	Redis RedisCfg `yaml:"redis"`
	Brevo BrevoCfg `yaml:"brevo"`
	S3    S3Cfg    `yaml:"s3"`
	Kafka KafkaCfg `yaml:"kafka"`
	Groq  GroqCfg  `yaml:"groq"`
}

// Load reads the yaml config and applies environment overrides. A
// missing yaml file is fine if the environment carries everything.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
		}
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("FRONTEND_URL", func(v string) { cfg.App.FrontendOrigin = v })
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("JWT_TTL_HOURS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.TTLHours = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("REDIS_DB", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	})
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("S3_REGION", func(v string) { cfg.S3.Region = v })
	override("S3_BUCKET", func(v string) { cfg.S3.Bucket = v })
	override("KAFKA_BROKERS", func(v string) { cfg.Kafka.Brokers = strings.Split(v, ",") })
	override("KAFKA_TOPIC", func(v string) { cfg.Kafka.Topic = v })
	override("GROQ_API_KEY", func(v string) { cfg.Groq.APIKey = v })

	if cfg.App.Port == 0 {
		cfg.App.Port = 3000
	}
	if cfg.App.JWT.TTLHours == 0 {
		cfg.App.JWT.TTLHours = 24
	}
	if cfg.Redis.CacheTTLSeconds == 0 {
		cfg.Redis.CacheTTLSeconds = 300
	}

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.Mongo.Database == "" {
		return nil, errors.New("MONGO_DB is required")
	}
	return cfg, nil
}
