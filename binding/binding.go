package binding

import (
	"github.com/d-nagy/ch2"
)

// AddBindings registers the database backed stores.
func AddBindings() {
	ch2.Stores["mysql"] = func() ch2.Store {
		return NewMysqlStore()
	}
	ch2.Stores["sqlite"] = func() ch2.Store {
		return NewSqliteStore()
	}
	ch2.Stores["mongodb"] = func() ch2.Store {
		return NewMongoStore()
	}
}
