package ch2

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// FlushError reports a batch that could not be saved. The batch is kept
// pending and is retried by the next flush of its table.
type FlushError struct {
	Table string
	Index int64
	Err   error
}

func (self *FlushError) Error() string {
	return fmt.Sprintf("flush %s batch %d: %s", self.Table, self.Index, self.Err)
}

func (self *FlushError) Unwrap() error {
	return self.Err
}

type batch struct {
	index   int64
	pending [][]byte
	size    int
}

// BatchWriter buffers serialized documents per table and hands them to a
// Store as numbered output units once a table's pending bytes exceed the
// threshold. It is not safe for concurrent use; every loader routine owns
// one.
type BatchWriter struct {
	store        Store
	identity     string
	threshold    int
	batches      map[string]*batch
	measurements Measurements
}

func NewBatchWriter(store Store, identity string, threshold int) *BatchWriter {
	return &BatchWriter{
		store:     store,
		identity:  identity,
		threshold: threshold,
		batches:   make(map[string]*batch),
	}
}

// SetMeasurements makes every flush timed into the FLUSH measurement.
func (self *BatchWriter) SetMeasurements(m Measurements) {
	self.measurements = m
}

func (self *BatchWriter) Identity() string {
	return self.identity
}

func (self *BatchWriter) get(table string) *batch {
	b, ok := self.batches[table]
	if !ok {
		b = &batch{}
		self.batches[table] = b
	}
	return b
}

// Append adds doc to the pending batch of table and flushes the batch when
// its size strictly exceeds the threshold. A failed flush leaves the batch
// pending and returns a *FlushError.
func (self *BatchWriter) Append(table string, doc []byte) error {
	b := self.get(table)
	b.pending = append(b.pending, doc)
	b.size += len(doc)
	if b.size > self.threshold {
		return self.flush(table, b)
	}
	return nil
}

// Finish flushes every non-empty batch once. Failures of all tables are
// returned joined.
func (self *BatchWriter) Finish() error {
	tables := make([]string, 0, len(self.batches))
	for table := range self.batches {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	var errs []error
	for _, table := range tables {
		b := self.batches[table]
		if len(b.pending) == 0 {
			continue
		}
		if err := self.flush(table, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BatchIndex returns the number of units flushed so far for table.
func (self *BatchWriter) BatchIndex(table string) int64 {
	if b, ok := self.batches[table]; ok {
		return b.index
	}
	return 0
}

// Pending returns the count and bytes of documents not yet flushed.
func (self *BatchWriter) Pending(table string) (int, int) {
	if b, ok := self.batches[table]; ok {
		return len(b.pending), b.size
	}
	return 0, 0
}

func (self *BatchWriter) flush(table string, b *batch) error {
	unit := Unit{Table: table, Writer: self.identity, Index: b.index}
	start := time.Now()
	err := self.store.Save(unit, b.pending)
	if self.measurements != nil {
		self.measurements.MeasureSince(OperationFlush, start)
	}
	if err != nil {
		self.report(StatusError)
		Warnf("failed to save %s (%d documents, %d bytes): %s; continuing with un-flushed batch",
			unit, len(b.pending), b.size, err)
		return &FlushError{Table: table, Index: b.index, Err: err}
	}
	self.report(StatusOK)
	Debugf("saved %s (%d documents, %d bytes)", unit, len(b.pending), b.size)
	b.index++
	b.pending = nil
	b.size = 0
	return nil
}

func (self *BatchWriter) report(status StatusType) {
	if self.measurements != nil {
		self.measurements.ReportStatus(OperationFlush, status)
	}
}
