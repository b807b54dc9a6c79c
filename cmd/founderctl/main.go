// Command founderctl browses the catalogs from a terminal and keeps saved,
// enrolled and completed items in a local SQLite database.
package main

import (
	"fmt"
	"os"

	"founder-hub/app/store"
)

func main() {
	cmd := newRootCmd(os.Stdout, openSQLite)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openSQLite(path, profile string) (store.Backend, func() error, error) {
	db, err := store.OpenSQLite(path, profile)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
