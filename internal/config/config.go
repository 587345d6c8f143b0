package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool   `mapstructure:"-"`
	MigrateOnly  bool   `mapstructure:"-"`
	SeedFile     string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// 子章节列表缓存时长（秒），0 表示不缓存
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// ViewerConfig controls the lesson viewer.
type ViewerConfig struct {
	// Source is "local" (read this service's own database) or "remote"
	// (call another instance of the REST API through apiclient).
	Source         string `mapstructure:"source"`
	RemoteBaseURL  string `mapstructure:"remote_base_url"`
	RemoteTimeout  int    `mapstructure:"remote_timeout_seconds"`
	LockScope      string `mapstructure:"lock_scope"`
	RetainAnswers  bool   `mapstructure:"retain_practice_answers"`
	ViewTTLMinutes int    `mapstructure:"view_ttl_minutes"`
	// 未找到页面上"返回"链接的地址
	BackURL string `mapstructure:"back_url"`
}

const (
	ViewerSourceLocal  = "local"
	ViewerSourceRemote = "remote"

	LockScopeLesson     = "lesson"
	LockScopeSubsection = "subsection"
)

func (v ViewerConfig) ViewTTL() time.Duration {
	if v.ViewTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(v.ViewTTLMinutes) * time.Minute
}

func (v ViewerConfig) Timeout() time.Duration {
	if v.RemoteTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(v.RemoteTimeout) * time.Second
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("redis.cache_ttl_seconds", 60)
	viper.SetDefault("viewer.source", ViewerSourceLocal)
	viper.SetDefault("viewer.lock_scope", LockScopeSubsection)
	viper.SetDefault("viewer.view_ttl_minutes", 30)
	viper.SetDefault("viewer.remote_timeout_seconds", 10)
	viper.SetDefault("viewer.back_url", "/")
	viper.SetDefault("rate_limit.max_requests", 1000)
	viper.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LEXSTUDY")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Viewer
	viper.BindEnv("viewer.source", "VIEWER_SOURCE")
	viper.BindEnv("viewer.remote_base_url", "VIEWER_REMOTE_BASE_URL")
	viper.BindEnv("viewer.lock_scope", "VIEWER_LOCK_SCOPE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验配置之间的约束
func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	switch c.Viewer.Source {
	case ViewerSourceLocal:
	case ViewerSourceRemote:
		if c.Viewer.RemoteBaseURL == "" {
			return fmt.Errorf("viewer.remote_base_url is required when viewer.source is %q", ViewerSourceRemote)
		}
	default:
		return fmt.Errorf("unknown viewer.source %q", c.Viewer.Source)
	}

	switch c.Viewer.LockScope {
	case LockScopeLesson, LockScopeSubsection:
	default:
		return fmt.Errorf("unknown viewer.lock_scope %q", c.Viewer.LockScope)
	}

	return nil
}
