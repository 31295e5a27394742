// Package testsupport holds helpers shared by package tests: in-memory
// databases and fixture files.
package testsupport

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a shared-cache in-memory SQLite database named
// after name, so parallel tests with distinct names never see each other's
// tables. The caller closes the returned handle.
func NewSQLiteMemoryDB(name string) (*bun.DB, error) {
	clean := strings.NewReplacer("/", "_", " ", "_").Replace(name)
	sqldb, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", clean))
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
