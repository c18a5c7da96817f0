package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	devenv "check24-backend/dev/env"
	"check24-backend/lib/telemetry"

	_ "modernc.org/sqlite"
)

type StoreParams struct {
	Name string
	// if unspecified, it will skip setting up a schema
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type StoreResult struct {
	DB *sql.DB
}

// SetupStore opens a sqlite database with the given schema and sets up
// test telemetry. An in-memory database is private to a single connection
// so the pool is pinned to one.
func SetupStore(t testing.TB, params StoreParams) (StoreResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	if dbpath == ":memory:" {
		sqlite.SetMaxOpenConns(1)
	}
	if params.DbSchema != "" {
		_, err = sqlite.Exec(params.DbSchema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
	}

	return StoreResult{DB: sqlite}, func() {
		sqlite.Close()
		cleanup()
	}
}
