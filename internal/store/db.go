package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Database drivers accepted by OpenDB.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver reports a driver name OpenDB does not know.
var ErrUnsupportedDriver = errors.New("store: unsupported database driver")

// ErrDSNRequired reports an empty data source name.
var ErrDSNRequired = errors.New("store: dsn is required")

// OpenDB opens a database/sql handle for driver and wraps it in Bun with
// the matching dialect. The connection is lazy; the first query dials.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDSNRequired
	}

	sqlDriver, dialect, err := resolveDialect(driver)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if sqlDriver == "sqlite3" {
		// in-memory databases vanish when the last connection closes
		sqldb.SetMaxOpenConns(1)
	}
	return bun.NewDB(sqldb, dialect), nil
}

func resolveDialect(driver string) (string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		return "sqlite3", sqlitedialect.New(), nil
	case DriverPostgres, "postgresql", "pg":
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
