package ch2

import (
	"errors"
	"fmt"

	g "github.com/d-nagy/ch2/generator"
)

var (
	ErrUnitExists      = errors.New("The output unit already exists.")
	ErrStoreClosed     = errors.New("The store is not initialized or already cleaned up.")
	ErrBadUnit         = errors.New("The output unit is not valid.")
	ServiceUnavailable = errors.New("Dependant service for the current store is not available.")
)

// Unit identifies one output unit: the documents of one flush of one
// table's batch by one writer.
type Unit struct {
	Table  string
	Writer string
	Index  int64
}

// Name returns "<table>-<writer>-<index>.json".
func (self Unit) Name() string {
	return fmt.Sprintf("%s-%s-%d.json", self.Table, self.Writer, self.Index)
}

func (self Unit) String() string {
	return self.Name()
}

// Store persists output units.
// Each loader routine is given its own Store instance. Stores are
// constructed by a no-argument function from the Stores registry; any
// argument-based initialization is done by Init().
type Store interface {
	// Set the properties for this store.
	SetProperties(p Properties)

	// Get the properties for this store.
	GetProperties() Properties

	// Initialize any state for this store.
	// Called once per store instance, before the first Save.
	Init() error

	// Cleanup any state for this store.
	// Called once per store instance, after the last Save.
	Cleanup() error

	// Save persists the documents of one unit, each one serialized JSON
	// line, in order. A unit is either saved whole or reported failed;
	// Save may be called again for the same unit after a failure.
	Save(unit Unit, docs [][]byte) error
}

type StoreBase struct {
	p Properties
}

func NewStoreBase() *StoreBase {
	return &StoreBase{}
}

func (self *StoreBase) SetProperties(p Properties) {
	self.p = p
}

func (self *StoreBase) GetProperties() Properties {
	return self.p
}

// UnitSize returns the number of bytes of docs.
func UnitSize(docs [][]byte) int {
	size := 0
	for _, d := range docs {
		size += len(d)
	}
	return size
}

func NewStore(name string, props Properties) (Store, error) {
	f, ok := Stores[name]
	if !ok {
		return nil, g.NewErrorf("unsupported store: %s", name)
	}
	s := f()
	s.SetProperties(props)
	return s, nil
}
