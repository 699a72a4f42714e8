package binding

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/d-nagy/ch2"
)

type dialect struct {
	driver    string
	quote     func(name string) string
	docColumn string
}

// sqlStore saves every unit as the rows (unit, seq, doc) of a table named
// after the CH2 table. Saving a unit replaces any earlier attempt of it.
type sqlStore struct {
	*ch2.StoreBase
	dialect     dialect
	tablePrefix string
	timeout     time.Duration
	db          *sql.DB
	created     map[string]bool
}

func newSQLStore(d dialect) *sqlStore {
	return &sqlStore{
		StoreBase: ch2.NewStoreBase(),
		dialect:   d,
		created:   make(map[string]bool),
	}
}

func (self *sqlStore) open(dsn, tablePrefix string, timeout time.Duration) error {
	db, err := sql.Open(self.dialect.driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", self.dialect.driver, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: %s", ch2.ServiceUnavailable, err)
	}
	self.db = db
	self.tablePrefix = tablePrefix
	self.timeout = timeout
	return nil
}

func (self *sqlStore) Cleanup() error {
	if self.db == nil {
		return nil
	}
	err := self.db.Close()
	self.db = nil
	return err
}

func (self *sqlStore) tableName(table string) string {
	return self.dialect.quote(self.tablePrefix + strings.ToLower(table))
}

func (self *sqlStore) createTable(ctx context.Context, table string) error {
	if self.created[table] {
		return nil
	}
	statement := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (unit VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, doc %s NOT NULL, PRIMARY KEY (unit, seq))",
		self.tableName(table), self.dialect.docColumn)
	if _, err := self.db.ExecContext(ctx, statement); err != nil {
		return err
	}
	self.created[table] = true
	return nil
}

func (self *sqlStore) Save(unit ch2.Unit, docs [][]byte) (err error) {
	if self.db == nil {
		return ch2.ErrStoreClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), self.timeout)
	defer cancel()
	if err = self.createTable(ctx, unit.Table); err != nil {
		return err
	}
	tx, err := self.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	table := self.tableName(unit.Table)
	name := unit.Name()
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE unit = ?", table), name); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (unit, seq, doc) VALUES (?, ?, ?)", table))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, d := range docs {
		if _, err = stmt.ExecContext(ctx, name, i, string(bytes.TrimRight(d, "\n"))); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// count returns the number of documents saved for unit.
func (self *sqlStore) count(unit ch2.Unit) (int, error) {
	var n int
	row := self.db.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE unit = ?", self.tableName(unit.Table)), unit.Name())
	err := row.Scan(&n)
	return n, err
}
