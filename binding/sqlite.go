package binding

import (
	"strconv"
	"time"

	"github.com/d-nagy/ch2"
	_ "modernc.org/sqlite"
)

const (
	PropertySqlitePath               = "sqlite.path"
	PropertySqlitePathDefault        = "/tmp/tpcc-tables/ch2.db"
	PropertySqliteTablePrefix        = "sqlite.tableprefix"
	PropertySqliteTablePrefixDefault = ""
	// Timeout of one unit save, in milliseconds.
	PropertySqliteTimeout        = "sqlite.timeout"
	PropertySqliteTimeoutDefault = "30000"
)

// SqliteStore saves units as rows of a table per CH2 table in one SQLite
// database file. Loader routines share the file.
type SqliteStore struct {
	*sqlStore
}

func NewSqliteStore() *SqliteStore {
	return &SqliteStore{
		sqlStore: newSQLStore(dialect{
			driver:    "sqlite",
			quote:     func(name string) string { return `"` + name + `"` },
			docColumn: "TEXT",
		}),
	}
}

func (self *SqliteStore) Init() error {
	props := self.GetProperties()
	propStr := props.GetDefault(PropertySqliteTimeout, PropertySqliteTimeoutDefault)
	timeout, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil {
		return err
	}
	path := props.GetDefault(PropertySqlitePath, PropertySqlitePathDefault)
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(" + propStr + ")"
	return self.open(dsn,
		props.GetDefault(PropertySqliteTablePrefix, PropertySqliteTablePrefixDefault),
		time.Duration(ch2.MillisecondToNanosecond(timeout)))
}
