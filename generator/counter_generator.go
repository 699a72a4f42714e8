package generator

import (
	"sync/atomic"
)

// CounterGenerator generates a sequence of integers 0, 1, ...
// starting at startCount. Used for sequential table ids.
type CounterGenerator struct {
	*IntegerGeneratorBase
	count int64
}

func NewCounterGenerator(startCount int64) *CounterGenerator {
	object := &CounterGenerator{
		IntegerGeneratorBase: NewIntegerGeneratorBase(startCount - 1),
		count:                startCount - 1,
	}
	return object
}

func (self *CounterGenerator) NextInt() int64 {
	ret := atomic.AddInt64(&self.count, 1)
	self.SetLastInt(ret)
	return ret
}

func (self *CounterGenerator) NextString() string {
	return self.IntegerGeneratorBase.NextString(self)
}

// Reset restarts the sequence at startCount.
func (self *CounterGenerator) Reset(startCount int64) {
	atomic.StoreInt64(&self.count, startCount-1)
	self.SetLastInt(startCount - 1)
}

func (self *CounterGenerator) Mean() float64 {
	panic("unsupported operation")
}
