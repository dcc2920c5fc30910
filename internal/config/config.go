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

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Visits    VisitsConfig    `mapstructure:"visits"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // debug/release/test
}

// AppConfig 访问记录中携带的环境与版本标记
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	NodeID      int64  `mapstructure:"node_id"` // snowflake 节点号
}

type DBConfig struct {
	Type         string `mapstructure:"type"` // postgres/mysql/sqlite
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RedisConfig 缓存网关配置
type RedisConfig struct {
	URL               string        `mapstructure:"url"` // redis://[:password@]host:port[/db]
	PoolSize          int           `mapstructure:"pool_size"`
	KeepAliveInterval time.Duration `mapstructure:"keepalive_interval"`
	BreakerThreshold  int           `mapstructure:"breaker_threshold"`
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown"`
	TTL               time.Duration `mapstructure:"ttl"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout"`
}

type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// VisitsConfig 后台任务队列配置
type VisitsConfig struct {
	QueueSize   int           `mapstructure:"queue_size"`
	Workers     int           `mapstructure:"workers"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.node_id", 1)

	// 没有默认值的键也要注册，否则 AutomaticEnv 在 Unmarshal 时不会生效
	v.SetDefault("db.type", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("webhook.url", "")
	v.SetDefault("admin.token", "")
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.max_open_conns", 20)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.keepalive_interval", 30*time.Second)
	v.SetDefault("redis.breaker_threshold", 5)
	v.SetDefault("redis.breaker_cooldown", 30*time.Second)
	v.SetDefault("redis.ttl", 300*time.Second)
	v.SetDefault("redis.dial_timeout", 2*time.Second)

	v.SetDefault("webhook.timeout", 5*time.Second)

	v.SetDefault("visits.queue_size", 1024)
	v.SetDefault("visits.workers", 2)
	v.SetDefault("visits.task_timeout", 10*time.Second)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.limit", 10)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/shortlink.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 7)
}

// Load 读取配置：默认值 < config.yaml < .env < 环境变量
// configPath 为空或文件不存在时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	// .env 不存在不是错误
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// REDIS_URL -> redis.url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server mode: %s", c.Server.Mode)
	}
	switch c.DB.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported db type: %s", c.DB.Type)
	}
	if c.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis.pool_size must be positive")
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive")
	}
	if c.Redis.BreakerThreshold <= 0 {
		return fmt.Errorf("redis.breaker_threshold must be positive")
	}
	if c.Visits.Workers <= 0 || c.Visits.QueueSize <= 0 {
		return fmt.Errorf("visits.workers and visits.queue_size must be positive")
	}
	return nil
}
