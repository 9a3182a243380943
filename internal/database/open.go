package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
)

// Config describes a database connection. DSN takes precedence over the
// individual connection fields.
type Config struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Charset  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// driverName maps a dialect to the database/sql driver registered for it.
func driverName(d Dialect) string {
	if d.Name() == PostgreSQL.Name() {
		return "pgx"
	}
	return d.Name()
}

// DataSourceName returns the driver-specific connection string.
func (c Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	dialect, err := DialectFor(c.Driver)
	if err != nil {
		return "", err
	}

	switch dialect.(type) {
	case MySQLDialect:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.host(), strconv.Itoa(c.port(3306)))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		if c.Charset != "" {
			mc.Params = map[string]string{"charset": c.Charset}
		}
		return mc.FormatDSN(), nil
	case PostgreSQLDialect:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.host(), strconv.Itoa(c.port(5432))),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	default:
		name := c.Name
		if name == "" {
			name = "jobboard.db"
		}
		return "file:" + name + "?_foreign_keys=1&_busy_timeout=5000", nil
	}
}

func (c Config) host() string {
	if c.Host == "" {
		return "127.0.0.1"
	}
	return c.Host
}

func (c Config) port(def int) int {
	if c.Port == 0 {
		return def
	}
	return c.Port
}

// Open connects to the configured database and verifies it with a ping.
func Open(ctx context.Context, cfg Config, opts ...SessionOption) (*Session, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open %s: %w", dialect.Name(), err)
	}

	switch {
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	case dialect.Name() == SQLite.Name():
		// one writer; a second connection would also see a different :memory: database
		db.SetMaxOpenConns(1)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to ping %s: %w", dialect.Name(), err)
	}

	return NewSession(db, dialect, opts...), nil
}
