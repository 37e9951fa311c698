package mysql

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/tablevoice/tablevoice/server/profile"
)

// DB is the MySQL implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a MySQL connection pool for the given DSN
// (e.g. "user:pass@tcp(localhost:3306)/tablevoice").
func NewDB(profile *profile.Profile) (*DB, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}
	db, err := sql.Open("mysql", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open mysql db %s", profile.DSN)
	}
	return &DB{db: db, profile: profile}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
