package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	configlibsql "sigahorarios/lib/configutil/libsql"
	"strings"
	"testing"
)

// OpenMemoryDB opens an in-memory sqlite database with the given schema
// applied, it is closed automatically when the test ends.
func OpenMemoryDB(t testing.TB, schema string) *sql.DB {
	db, err := configlibsql.OpenSqlite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if schema == "" {
		return db
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}
	return db
}

// ReadFixture reads a file relative to the testdata directory of the
// package under test.
func ReadFixture(t testing.TB, name string) string {
	contents, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}
