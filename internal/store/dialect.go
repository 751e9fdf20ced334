package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// dialect captures what differs between the SQL backends. Queries are
// written with '?' placeholders and rebound per dialect.
type dialect struct {
	name         string
	driver       string
	numbered     bool
	retryable    func(error) bool
	fkViolation  func(error) bool
	migrateDrv   func(*sql.DB) (database.Driver, error)
	migrationDir string
}

var sqliteDialect = dialect{
	name:         "sqlite",
	driver:       "sqlite3",
	retryable:    isSQLiteBusy,
	fkViolation:  isSQLiteForeignKey,
	migrationDir: "migrations/sqlite",
	migrateDrv: func(db *sql.DB) (database.Driver, error) {
		return migratesqlite.WithInstance(db, &migratesqlite.Config{})
	},
}

var postgresDialect = dialect{
	name:         "postgres",
	driver:       "pgx",
	numbered:     true,
	retryable:    isPostgresRetryable,
	fkViolation:  isPostgresForeignKey,
	migrationDir: "migrations/postgres",
	migrateDrv: func(db *sql.DB) (database.Driver, error) {
		return migratepgx.WithInstance(db, &migratepgx.Config{})
	},
}

// parseDatabaseURL picks a dialect and a driver DSN. Bare paths and
// sqlite:// URLs are SQLite files; postgres:// and postgresql:// go to pgx.
func parseDatabaseURL(raw string, busyTimeout time.Duration) (dialect, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dialect{}, "", errors.New("database url is empty")
	}
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return postgresDialect, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		raw = strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "sqlite:"):
		raw = strings.TrimPrefix(raw, "sqlite:")
	case strings.Contains(raw, "://"):
		return dialect{}, "", fmt.Errorf("unsupported database url scheme: %s", raw)
	}
	if raw == "" {
		return dialect{}, "", errors.New("sqlite path is empty")
	}
	return sqliteDialect, sqliteDSN(raw, busyTimeout), nil
}

func sqliteDSN(path string, busyTimeout time.Duration) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	if busyTimeout > 0 {
		params.Set("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))
	}
	return "file:" + path + "?" + params.Encode()
}

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSQLiteBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

func isSQLiteForeignKey(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func isPostgresRetryable(err error) bool {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pgerrcode.IsTransactionRollback(pe.Code)
	}
	return false
}

func isPostgresForeignKey(err error) bool {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == pgerrcode.ForeignKeyViolation
	}
	return false
}
