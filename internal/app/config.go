package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/db"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/observability"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/openai"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime/bus"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port            string
	LogMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	Postgres     db.PostgresConfig
	JWTSecretKey string
	Redis        bus.RedisConfig

	OpenAI openai.Config
	Groq   openai.Config

	Hub        realtime.Options
	SessionTTL time.Duration

	Otel observability.OtelConfig
}

// LoadConfig reads defaults, then the optional YAML file named by CONFIG_FILE, then the
// environment. Nested keys map to env vars with dots as underscores (postgres.host -> POSTGRES_HOST).
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_mode", "development")
	v.SetDefault("cors_origins", "")
	v.SetDefault("shutdown_timeout", "15s")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "skillskirmish")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)

	v.SetDefault("jwt_secret_key", defaultJWTSecret)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", "60s")
	v.SetDefault("openai.max_retries", 2)

	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.base_url", "")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.timeout", "30s")
	v.SetDefault("groq.max_retries", 1)

	v.SetDefault("hub.buffer_size", 64)
	v.SetDefault("hub.leave_policy", "user")

	v.SetDefault("assessment.session_ttl", "0s")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "skillskirmish")
	v.SetDefault("otel.environment", "")
	v.SetDefault("otel.version", "")
	v.SetDefault("otel.exporter_otlp_endpoint", "")
	v.SetDefault("otel.exporter_otlp_headers", "")
	v.SetDefault("otel.exporter_otlp_insecure", false)
	v.SetDefault("otel.sampler_ratio", 0.1)
}

func fromViper(v *viper.Viper) (Config, error) {
	leave, err := parseLeavePolicy(v.GetString("hub.leave_policy"))
	if err != nil {
		return Config{}, err
	}
	ttl := v.GetDuration("assessment.session_ttl")
	if ttl < 0 {
		return Config{}, errors.New("assessment.session_ttl must not be negative")
	}

	cfg := Config{
		Port:            v.GetString("port"),
		LogMode:         v.GetString("log_mode"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		Postgres: db.PostgresConfig{
			Host:         v.GetString("postgres.host"),
			Port:         v.GetInt("postgres.port"),
			User:         v.GetString("postgres.user"),
			Password:     v.GetString("postgres.password"),
			Name:         v.GetString("postgres.name"),
			SSLMode:      v.GetString("postgres.sslmode"),
			MaxOpenConns: v.GetInt("postgres.max_open_conns"),
			MaxIdleConns: v.GetInt("postgres.max_idle_conns"),
		},
		JWTSecretKey: v.GetString("jwt_secret_key"),
		Redis: bus.RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Channel:  v.GetString("redis.channel"),
		},
		OpenAI: openai.Config{
			APIKey:     v.GetString("openai.api_key"),
			BaseURL:    v.GetString("openai.base_url"),
			Model:      v.GetString("openai.model"),
			Timeout:    v.GetDuration("openai.timeout"),
			MaxRetries: v.GetInt("openai.max_retries"),
		},
		Groq: openai.Config{
			APIKey:     v.GetString("groq.api_key"),
			BaseURL:    v.GetString("groq.base_url"),
			Model:      v.GetString("groq.model"),
			Timeout:    v.GetDuration("groq.timeout"),
			MaxRetries: v.GetInt("groq.max_retries"),
		},
		Hub: realtime.Options{
			BufferSize:  v.GetInt("hub.buffer_size"),
			LeavePolicy: leave,
		},
		SessionTTL: ttl,
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service_name"),
			Environment: v.GetString("otel.environment"),
			Version:     v.GetString("otel.version"),
			Endpoint:    v.GetString("otel.exporter_otlp_endpoint"),
			Headers:     observability.ParseHeaders(v.GetString("otel.exporter_otlp_headers")),
			Insecure:    v.GetBool("otel.exporter_otlp_insecure"),
			SampleRatio: v.GetFloat64("otel.sampler_ratio"),
		},
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	return cfg, nil
}

func parseLeavePolicy(raw string) (realtime.LeavePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "user":
		return realtime.LeaveByUser, nil
	case "connection":
		return realtime.LeaveByConnection, nil
	default:
		return 0, fmt.Errorf("hub.leave_policy: unknown value %q (want user or connection)", raw)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
