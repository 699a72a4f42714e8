package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"modernc.org/mathutil"
)

func NewErrorf(format string, args ...interface{}) error {
	return errors.New(fmt.Sprintf(format, args...))
}

const (
	// DefaultPoolSize is the number of characters pre-generated for each of
	// the alphabetic and numeric string pools.
	DefaultPoolSize = 1 << 22
)

// Option configures a Random at construction time.
type Option func(*Random)

// WithSeed makes the random source deterministic.
func WithSeed(seed int64) Option {
	return func(r *Random) {
		r.seed = seed
	}
}

// WithPoolSize sets the size of the buffered string pools.
func WithPoolSize(size int) Option {
	return func(r *Random) {
		if size <= 0 {
			panic(fmt.Sprintf("invalid pool size %d", size))
		}
		r.poolSize = size
	}
}

// Random holds all the state the TPC-C random primitives need: the uniform
// source, the NURand constants and the pre-generated character pools.
// One Random belongs to one loader routine; it must not be shared between
// goroutines.
type Random struct {
	seed     int64
	poolSize int
	rng      *rand.Rand
	nurand   *NURandContext
	alpha    *charPool
	numeric  *charPool
}

func NewRandom(opts ...Option) *Random {
	object := &Random{
		seed:     time.Now().UnixNano(),
		poolSize: DefaultPoolSize,
	}
	for _, opt := range opts {
		opt(object)
	}
	object.rng = rand.New(rand.NewSource(object.seed))
	object.alpha = newCharPool(alphabetic, object.poolSize)
	object.numeric = newCharPool(numeric, object.poolSize)
	return object
}

// Seed returns the seed the uniform source was created with.
func (self *Random) Seed() int64 {
	return self.seed
}

// NextFloat64 returns a uniform value in [0.0, 1.0).
func (self *Random) NextFloat64() float64 {
	return self.rng.Float64()
}

// NextInt64 returns a uniform value in [0, n).
func (self *Random) NextInt64(n int64) int64 {
	return self.rng.Int63n(n)
}

// Number returns a uniform integer in [min, max] inclusive. See 2.1.4.
func (self *Random) Number(min, max int64) int64 {
	if min > max {
		panic(fmt.Sprintf("invalid range [%d, %d]", min, max))
	}
	return min + self.rng.Int63n(max-min+1)
}

// NumberExcluding returns a uniform integer in [min, max] that is never
// excluding. One fewer value is drawn and everything at or above excluding
// is shifted up, so no retry loop is needed.
func (self *Random) NumberExcluding(min, max, excluding int64) int64 {
	if min >= max {
		panic(fmt.Sprintf("invalid range [%d, %d]", min, max))
	}
	if excluding < min || excluding > max {
		panic(fmt.Sprintf("excluded value %d outside [%d, %d]", excluding, min, max))
	}
	num := self.Number(min, max-1)
	if num >= excluding {
		num++
	}
	return num
}

// FixedPoint returns a decimal in [min, max] with the given number of
// fractional digits. The bounds are scaled with round-half-up.
func (self *Random) FixedPoint(places int, min, max float64) float64 {
	if places <= 0 {
		panic(fmt.Sprintf("invalid decimal places %d", places))
	}
	if min >= max {
		panic(fmt.Sprintf("invalid range [%g, %g]", min, max))
	}
	multiplier := math.Pow10(places)
	intMin := int64(math.Floor(min*multiplier + 0.5))
	intMax := int64(math.Floor(max*multiplier + 0.5))
	return float64(self.Number(intMin, intMax)) / multiplier
}

// SelectUniqueIDs returns count distinct integers drawn uniformly from
// [min, max]. Duplicates are redrawn; callers keep count small relative
// to the range.
func (self *Random) SelectUniqueIDs(count int, min, max int64) []int64 {
	if min > max {
		panic(fmt.Sprintf("invalid range [%d, %d]", min, max))
	}
	if int64(count) > max-min+1 {
		panic(fmt.Sprintf("cannot select %d unique values from [%d, %d]", count, min, max))
	}
	seen := make(map[int64]struct{}, count)
	ret := make([]int64, 0, count)
	for len(ret) < count {
		id := self.Number(min, max)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ret = append(ret, id)
	}
	return ret
}

// RandomLastName returns a non-uniform last name limited to maxCID
// customers. See 4.3.2.3.
func (self *Random) RandomLastName(maxCID int64) string {
	return LastName(self.NURand(255, 0, mathutil.MinInt64(999, maxCID-1)))
}
