// Package config loads runtime settings from an optional YAML file, a .env
// file and JOBBOARD_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/arllen133/jobboard/internal/database"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "JOBBOARD"

type Config struct {
	Server    Server
	Database  Database
	Session   Session
	Log       Log
	Telemetry Telemetry
}

type Server struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PageSize     int
}

type Database struct {
	database.Config
	LogQueries         bool
	SlowQueryThreshold time.Duration
}

type Session struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Options converts the section into session manager options.
func (s Session) Options() session.Options {
	return session.Options{
		Secret:     s.Secret,
		CookieName: s.CookieName,
		MaxAge:     s.MaxAge,
		Secure:     s.Secure,
	}
}

type Log struct {
	Level  string
	Format string
}

type Telemetry struct {
	Tracing bool
	Metrics bool
}

var ErrSessionSecret = errors.New("config: session.secret must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.page_size", 10)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "jobboard.db")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "0s")
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.slow_query_threshold", "200ms")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", session.DefaultCookieName)
	v.SetDefault("session.max_age", "24h")
	v.SetDefault("session.secure", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telemetry.tracing", true)
	v.SetDefault("telemetry.metrics", true)
}

// Load reads the configuration. path names a YAML file and may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server:    getServer(v),
		Database:  getDatabase(v),
		Session:   getSession(v),
		Log:       getLog(v),
		Telemetry: getTelemetry(v),
	}
	return cfg, nil
}

// Validate checks the settings needed to serve HTTP.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return ErrSessionSecret
	}
	if _, err := database.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	return nil
}

func getServer(v *viper.Viper) Server {
	return Server{
		Addr:         v.GetString("server.addr"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		PageSize:     v.GetInt("server.page_size"),
	}
}

func getDatabase(v *viper.Viper) Database {
	return Database{
		Config: database.Config{
			Driver:          v.GetString("database.driver"),
			DSN:             v.GetString("database.dsn"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			Name:            v.GetString("database.name"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Charset:         v.GetString("database.charset"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		LogQueries:         v.GetBool("database.log_queries"),
		SlowQueryThreshold: v.GetDuration("database.slow_query_threshold"),
	}
}

func getSession(v *viper.Viper) Session {
	return Session{
		Secret:     v.GetString("session.secret"),
		CookieName: v.GetString("session.cookie_name"),
		MaxAge:     v.GetDuration("session.max_age"),
		Secure:     v.GetBool("session.secure"),
	}
}

func getLog(v *viper.Viper) Log {
	return Log{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}
}

func getTelemetry(v *viper.Viper) Telemetry {
	return Telemetry{
		Tracing: v.GetBool("telemetry.tracing"),
		Metrics: v.GetBool("telemetry.metrics"),
	}
}

// SlogLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the process logger.
func (l Log) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
