package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from an optional YAML file
// and environment variables. Environment variables win over the file.
type Config struct {
	AppEnv      string
	ServerPort  string
	DBDriver    string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	UploadDir   string
	LogLevel    string
	LogFormat   string
	SwaggerHost string
	ResetDB     bool
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "user:password@tcp(localhost:3306)/tms?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("swagger.host", "")
	v.SetDefault("reset_db", false)
}

// Load builds Config from defaults, the optional config file and the environment.
// An empty configFile means no file is read.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		AppEnv:      v.GetString("app.env"),
		ServerPort:  v.GetString("server.port"),
		DBDriver:    strings.ToLower(v.GetString("database.driver")),
		DatabaseDSN: v.GetString("database.dsn"),
		RedisAddr:   v.GetString("redis.addr"),
		RedisDB:     v.GetInt("redis.db"),
		RedisPass:   v.GetString("redis.password"),
		JWTSecret:   v.GetString("jwt.secret"),
		AccessTTL:   v.GetDuration("jwt.access_ttl"),
		RefreshTTL:  v.GetDuration("jwt.refresh_ttl"),
		UploadDir:   v.GetString("upload.dir"),
		LogLevel:    strings.ToLower(v.GetString("log.level")),
		LogFormat:   strings.ToLower(v.GetString("log.format")),
		SwaggerHost: v.GetString("swagger.host"),
		ResetDB:     v.GetBool("reset_db"),
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive (access=%s refresh=%s)", cfg.AccessTTL, cfg.RefreshTTL)
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	return cfg, nil
}
