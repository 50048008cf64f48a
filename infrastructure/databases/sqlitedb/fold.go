package sqlitedb

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver opened by this package. It is the
// stock sqlite3 driver plus the functions registered below.
const DriverName = "sqlite3_tasktracker"

// FoldFunc is the SQL name of a Unicode aware lower(). SQLite's built in
// LOWER only folds ASCII letters.
const FoldFunc = "unicode_lower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(FoldFunc, strings.ToLower, true)
		},
	})
}
