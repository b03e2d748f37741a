package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct configures the relational store, a local sqlite file or a remote
// libsql database when Url is set.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) Configured() bool {
	return config.File != "" || config.Url != ""
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	return OpenSqlite(config.File)
}

func (config Struct) openRemote() (*sql.DB, error) {
	dsn, err := url.Parse(config.Url)
	if err != nil {
		return nil, err
	}
	if config.AuthToken != "" {
		query := dsn.Query()
		query.Set("authToken", config.AuthToken)
		dsn.RawQuery = query.Encode()
	}
	db, err := sql.Open("libsql", dsn.String())
	if err != nil {
		return nil, err
	}
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSqlite opens (creating it if needed) a sqlite database at path, ":memory:"
// is allowed.
func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	// a single connection also keeps ":memory:" databases and per-connection
	// pragmas alive for the lifetime of the *sql.DB.
	db.SetMaxOpenConns(1)
	pragmas := []string{"PRAGMA foreign_keys = ON"}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		_, err = db.Exec(p)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
