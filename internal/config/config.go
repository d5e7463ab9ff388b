package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env          string        `mapstructure:"env"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type MongoCfg struct {
	URI                  string `mapstructure:"uri"`
	Database             string `mapstructure:"database"`
	UsersCollection      string `mapstructure:"users_collection"`
	PassengersCollection string `mapstructure:"passengers_collection"`
	TokensCollection     string `mapstructure:"tokens_collection"`
}

type RedisCfg struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTCfg struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	Audience string        `mapstructure:"audience"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SecurityCfg struct {
	PasswordHashCost int `mapstructure:"password_hash_cost"`
}

type RateLimitCfg struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type CleanupCfg struct {
	Interval time.Duration `mapstructure:"interval"`
}

type KafkaCfg struct {
	Brokers            []string      `mapstructure:"brokers"`
	Topic              string        `mapstructure:"topic"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

type Config struct {
	App       AppCfg       `mapstructure:"app"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	Redis     RedisCfg     `mapstructure:"redis"`
	JWT       JWTCfg       `mapstructure:"jwt"`
	Security  SecurityCfg  `mapstructure:"security"`
	RateLimit RateLimitCfg `mapstructure:"ratelimit"`
	Cleanup   CleanupCfg   `mapstructure:"cleanup"`
	Kafka     KafkaCfg     `mapstructure:"kafka"`
}

// Load reads the YAML file at path, applies defaults and lets any key be
// overridden from the environment (mongo.uri -> MONGO_URI).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.read_timeout", 10*time.Second)
	v.SetDefault("app.write_timeout", 10*time.Second)
	v.SetDefault("app.idle_timeout", 60*time.Second)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "Poseidon")
	v.SetDefault("mongo.users_collection", "Users")
	v.SetDefault("mongo.passengers_collection", "Passengers")
	v.SetDefault("mongo.tokens_collection", "Tokens")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "poseidon-service")
	v.SetDefault("jwt.audience", "poseidon-clients")
	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("security.password_hash_cost", 10)

	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("cleanup.interval", 24*time.Hour)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "poseidon.events")
	v.SetDefault("kafka.breaker_max_failures", 5)
	v.SetDefault("kafka.breaker_timeout", 30*time.Second)
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	if c.Cleanup.Interval <= 0 {
		return errors.New("cleanup.interval must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("ratelimit.requests and ratelimit.window must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
