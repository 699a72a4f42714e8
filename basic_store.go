package ch2

import (
	"strconv"
	"sync"
	"time"

	g "github.com/d-nagy/ch2/generator"
)

// BasicStore persists nothing. It echoes every unit it is handed and
// optionally simulates the latency of a real store.
type BasicStore struct {
	*StoreBase
	verbose        bool
	randomizeDelay bool
	toDelay        int64
	random         *g.Random
	lock           sync.Mutex
	units          int64
	bytes          int64
}

func NewBasicStore() *BasicStore {
	return &BasicStore{
		StoreBase: NewStoreBase(),
	}
}

func (self *BasicStore) Delay() {
	if self.toDelay > 0 {
		var nanos int64
		if self.randomizeDelay {
			nanos = MillisecondToNanosecond(self.random.NextInt64(self.toDelay))
			if nanos == 0 {
				return
			}
		} else {
			nanos = MillisecondToNanosecond(self.toDelay)
		}
		time.Sleep(time.Duration(nanos))
	}
}

// Initialize any state for this store.
func (self *BasicStore) Init() error {
	p := self.GetProperties()
	var err error
	self.verbose, err = strconv.ParseBool(
		p.GetDefault(ConfigBasicStoreVerbose, ConfigBasicStoreVerboseDefault))
	if err != nil {
		return err
	}
	self.toDelay, err = strconv.ParseInt(
		p.GetDefault(ConfigSimulateDelay, ConfigSimulateDelayDefault), 0, 64)
	if err != nil {
		return err
	}
	self.randomizeDelay, err = strconv.ParseBool(
		p.GetDefault(ConfigRandomizeDelay, ConfigRandomizeDelayDefault))
	if err != nil {
		return err
	}
	self.random = g.NewRandom(g.WithPoolSize(1))
	if self.verbose {
		OutputProperties(p)
	}
	return nil
}

func (self *BasicStore) Cleanup() error {
	if self.verbose {
		Output("CLEANUP %d units, %d bytes", self.units, self.bytes)
	}
	return nil
}

func (self *BasicStore) Save(unit Unit, docs [][]byte) error {
	self.Delay()
	size := UnitSize(docs)
	self.lock.Lock()
	self.units++
	self.bytes += int64(size)
	self.lock.Unlock()
	if self.verbose {
		Output("SAVE %s [%d documents, %d bytes]", unit.Name(), len(docs), size)
	}
	return nil
}

// Saved returns the number of units and bytes saved so far.
func (self *BasicStore) Saved() (int64, int64) {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.units, self.bytes
}
