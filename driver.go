package ch2

import (
	"errors"
	"time"

	"github.com/d-nagy/ch2/mapper"
	"github.com/d-nagy/ch2/schema"
)

// DocGenDriver turns tuples into JSON-lines documents and hands them to a
// BatchWriter. One driver belongs to one loader routine.
type DocGenDriver struct {
	mapper       *mapper.Mapper
	writer       *BatchWriter
	abortOnError bool
	measurements Measurements
	documents    int64
	flushErrors  int64
}

func NewDocGenDriver(m *mapper.Mapper, w *BatchWriter, abortOnError bool) *DocGenDriver {
	return &DocGenDriver{
		mapper:       m,
		writer:       w,
		abortOnError: abortOnError,
	}
}

// SetMeasurements makes tuple mapping timed into the MAP measurement.
func (self *DocGenDriver) SetMeasurements(m Measurements) {
	self.measurements = m
	self.writer.SetMeasurements(m)
}

// LoadTuples maps, serializes and appends every tuple of table. A mapping
// error is returned at once. A failed flush is returned only when the
// driver aborts on errors; otherwise loading continues and the batch is
// retried by the next flush.
func (self *DocGenDriver) LoadTuples(table string, tuples []schema.Tuple) error {
	for _, t := range tuples {
		start := time.Now()
		doc, err := self.mapper.MapTuple(table, t)
		if err != nil {
			self.report(OperationMap, StatusBadRequest)
			return err
		}
		b, err := mapper.Serialize(doc)
		if err != nil {
			self.report(OperationMap, StatusError)
			return &mapper.MappingError{Table: table, Err: err}
		}
		if self.measurements != nil {
			self.measurements.MeasureSince(OperationMap, start)
		}
		self.documents++
		if err := self.writer.Append(table, b); err != nil {
			if err := self.flushFailed(err); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFinish flushes every pending batch.
func (self *DocGenDriver) LoadFinish() error {
	err := self.writer.Finish()
	if err != nil {
		Errorf("writer %s finished with un-flushed batches: %s", self.writer.Identity(), err)
	}
	return err
}

// Stats returns the number of documents generated and failed flushes.
func (self *DocGenDriver) Stats() (int64, int64) {
	return self.documents, self.flushErrors
}

func (self *DocGenDriver) flushFailed(err error) error {
	var flushErr *FlushError
	if !errors.As(err, &flushErr) {
		return err
	}
	self.flushErrors++
	if self.abortOnError {
		return err
	}
	return nil
}

func (self *DocGenDriver) report(operation string, status StatusType) {
	if self.measurements != nil {
		self.measurements.ReportStatus(operation, status)
	}
}
