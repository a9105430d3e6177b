package sqlite

import "database/sql"

// SQL exposes the underlying connection to tests.
func (db *DB) SQL() *sql.DB {
	return db.db
}
