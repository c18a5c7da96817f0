package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "check24-backend/dev/env"
	"check24-backend/lib/offerstore"
)

func createDb(filename, schema string) error {
	dbPath, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(dbPath)
	if err == nil {
		fmt.Println("database already created at", dbPath)
		return nil
	}

	fmt.Println("creating database at", dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(schema)
	return err
}

// CreateOffersDB creates the database the check24 cli writes to by default.
func CreateOffersDB() error {
	return createDb("offers.db", offerstore.Schema)
}

const liveTestConfig = `{
  // set to true to let tests crawl the real bank sites
  enabled: false,
  // optional base url overrides keyed by source name
  base_urls: {},
}
`

func CreateLiveTestConfig() error {
	path, err := devenv.GetStateFilePath("live_config.json5")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("live test config already created at", path)
		return nil
	}
	fmt.Println("creating live test config at", path)
	return os.WriteFile(path, []byte(liveTestConfig), 0600)
}

func PrintConfigLocations() {
	slog.Info("some tests will require you to edit config files in dev/.state/... in order to run properly, please look at the result of skipped tests in `go test -v` to understand where to write the files.")
}
