package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = SQLiteDialect{}
	MySQL      = MySQLDialect{}
	PostgreSQL = PostgreSQLDialect{}
)

// Dialect abstracts the SQL differences between the supported databases.
//
//   - Placeholder format: MySQL/SQLite use ?, PostgreSQL uses $1, $2
//   - Upsert syntax: MySQL uses ON DUPLICATE KEY UPDATE, PostgreSQL/SQLite use ON CONFLICT
//   - Generated keys: PostgreSQL has no LastInsertId and needs RETURNING
//   - Column types used by Migrate
type Dialect interface {
	// Name returns the driver name: "mysql", "postgres" or "sqlite3".
	Name() string

	PlaceholderFormat() sq.PlaceholderFormat

	// UpsertClause generates the suffix for "update if exists, insert if not".
	//
	//	MySQL:      ON DUPLICATE KEY UPDATE meta_value=VALUES(meta_value)
	//	PostgreSQL: ON CONFLICT (post_id, meta_key) DO UPDATE SET meta_value=EXCLUDED.meta_value
	UpsertClause(tableName string, conflictCols []string, updateCols []string) string

	// InsertReturning reports whether generated keys must be read with
	// INSERT ... RETURNING instead of sql.Result.LastInsertId.
	InsertReturning() bool

	// SerialPrimaryKey is the column definition of an auto-increment key.
	SerialPrimaryKey() string

	TimestampType() string

	// TableOptions is appended to CREATE TABLE statements.
	TableOptions() string
}

// DialectFor maps a driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}
}

// buildOnConflictUpsert generates ON CONFLICT ... DO UPDATE SET, or DO
// NOTHING when there is nothing to update.
func buildOnConflictUpsert(conflictCols, updateCols []string, excludedPrefix string) string {
	if len(conflictCols) == 0 {
		return ""
	}

	conflictTarget := strings.Join(conflictCols, ", ")

	if len(updateCols) == 0 {
		return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", conflictTarget)
	}

	clause := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET ", conflictTarget)
	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s=%s.%s", col, excludedPrefix, col)
	}

	return clause + strings.Join(updates, ", ")
}

// MySQLDialect implements the MySQL dialect. The conflict target of an
// upsert is inferred by the server from the primary or unique key.
type MySQLDialect struct{}

func (MySQLDialect) Name() string { return "mysql" }

func (MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (MySQLDialect) UpsertClause(tableName string, conflictCols []string, updateCols []string) string {
	// MySQL has no DO NOTHING
	if len(updateCols) == 0 {
		return ""
	}

	clause := "ON DUPLICATE KEY UPDATE "
	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s=VALUES(%s)", col, col)
	}

	return clause + strings.Join(updates, ", ")
}

func (MySQLDialect) InsertReturning() bool { return false }

func (MySQLDialect) SerialPrimaryKey() string { return "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY" }

func (MySQLDialect) TimestampType() string { return "DATETIME" }

func (MySQLDialect) TableOptions() string { return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4" }

// PostgreSQLDialect implements the PostgreSQL dialect.
type PostgreSQLDialect struct{}

func (PostgreSQLDialect) Name() string { return "postgres" }

func (PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

func (PostgreSQLDialect) UpsertClause(tableName string, conflictCols []string, updateCols []string) string {
	return buildOnConflictUpsert(conflictCols, updateCols, "EXCLUDED")
}

func (PostgreSQLDialect) InsertReturning() bool { return true }

func (PostgreSQLDialect) SerialPrimaryKey() string { return "BIGSERIAL PRIMARY KEY" }

func (PostgreSQLDialect) TimestampType() string { return "TIMESTAMP" }

func (PostgreSQLDialect) TableOptions() string { return "" }

// SQLiteDialect implements the SQLite dialect. Upsert requires SQLite 3.24+.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite3" }

func (SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (SQLiteDialect) UpsertClause(tableName string, conflictCols []string, updateCols []string) string {
	return buildOnConflictUpsert(conflictCols, updateCols, "excluded")
}

func (SQLiteDialect) InsertReturning() bool { return false }

func (SQLiteDialect) SerialPrimaryKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

func (SQLiteDialect) TimestampType() string { return "DATETIME" }

func (SQLiteDialect) TableOptions() string { return "" }
