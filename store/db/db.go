// Package db provides the storage driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/tablevoice/tablevoice/server/profile"
	"github.com/tablevoice/tablevoice/store"
	"github.com/tablevoice/tablevoice/store/db/mysql"
	"github.com/tablevoice/tablevoice/store/db/postgres"
	"github.com/tablevoice/tablevoice/store/db/sqlite"
)

// NewDriver creates the store driver named by profile.Driver.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "mysql":
		return mysql.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
}
