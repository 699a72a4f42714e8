package binding

import (
	"fmt"
	"strconv"
	"time"

	"github.com/d-nagy/ch2"
	_ "github.com/go-sql-driver/mysql"
)

const (
	PropertyMysqlHost               = "mysql.host"
	PropertyMysqlHostDefault        = "127.0.0.1"
	PropertyMysqlPort               = "mysql.port"
	PropertyMysqlPortDefault        = "3306"
	PropertyMysqlDatabase           = "mysql.db"
	PropertyMysqlDatabaseDefault    = "ch2"
	PropertyMysqlUser               = "mysql.user"
	PropertyMysqlUserDefault        = "user"
	PropertyMysqlPassword           = "mysql.password"
	PropertyMysqlPasswordDefault    = "password"
	PropertyMysqlOptions            = "mysql.options"
	PropertyMysqlOptionsDefault     = "charset=utf8mb4"
	PropertyMysqlTablePrefix        = "mysql.tableprefix"
	PropertyMysqlTablePrefixDefault = "ch2_"
	// Timeout of one unit save, in milliseconds.
	PropertyMysqlTimeout        = "mysql.timeout"
	PropertyMysqlTimeoutDefault = "30000"
)

// MysqlStore saves units as rows of a MySQL table per CH2 table, the
// documents in a JSON column.
type MysqlStore struct {
	*sqlStore
}

func NewMysqlStore() *MysqlStore {
	return &MysqlStore{
		sqlStore: newSQLStore(dialect{
			driver:    "mysql",
			quote:     func(name string) string { return "`" + name + "`" },
			docColumn: "JSON",
		}),
	}
}

func (self *MysqlStore) Init() error {
	props := self.GetProperties()
	host := props.GetDefault(PropertyMysqlHost, PropertyMysqlHostDefault)
	propStr := props.GetDefault(PropertyMysqlPort, PropertyMysqlPortDefault)
	port, err := strconv.ParseInt(propStr, 0, 32)
	if err != nil {
		return err
	}
	propStr = props.GetDefault(PropertyMysqlTimeout, PropertyMysqlTimeoutDefault)
	timeout, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil {
		return err
	}
	database := props.GetDefault(PropertyMysqlDatabase, PropertyMysqlDatabaseDefault)
	user := props.GetDefault(PropertyMysqlUser, PropertyMysqlUserDefault)
	password := props.GetDefault(PropertyMysqlPassword, PropertyMysqlPasswordDefault)
	options := props.GetDefault(PropertyMysqlOptions, PropertyMysqlOptionsDefault)
	sourceName := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", user, password, host, port, database, options)
	return self.open(sourceName,
		props.GetDefault(PropertyMysqlTablePrefix, PropertyMysqlTablePrefixDefault),
		time.Duration(ch2.MillisecondToNanosecond(timeout)))
}
