package main

import (
	"fmt"

	"github.com/pkg/errors"
)

// initDB verifies the database file. Opening a connection applies the
// schema (CREATE TABLE IF NOT EXISTS), so a successful ping means the
// tables exist.
func (cli *commandLine) initDB() error {
	if err := cli.dbPing(); err != nil {
		return errors.Wrap(err, "database unreachable")
	}
	fmt.Println("database schema is up to date")
	return nil
}
