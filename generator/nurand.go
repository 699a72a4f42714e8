package generator

import (
	"fmt"
)

// NURandContext holds the run constants C of the NURand function.
// See TPC-C 2.1.6.
type NURandContext struct {
	CLast           int64
	CID             int64
	OrderLineItemID int64
}

func (self *NURandContext) String() string {
	return fmt.Sprintf("NURand(cLast=%d, cId=%d, orderLineItemId=%d)",
		self.CLast, self.CID, self.OrderLineItemID)
}

// NewNURandForLoad draws the constants used while populating the database.
func NewNURandForLoad(r *Random) *NURandContext {
	return &NURandContext{
		CLast:           r.Number(0, 255),
		CID:             r.Number(0, 1023),
		OrderLineItemID: r.Number(0, 8191),
	}
}

// validCLastDelta reports whether cRun may be used after cLoad.
// See 2.1.6.1: the delta must be in [65, 119] excluding 96 and 112.
func validCLastDelta(cRun, cLoad int64) bool {
	delta := cRun - cLoad
	if delta < 0 {
		delta = -delta
	}
	return delta >= 65 && delta <= 119 && delta != 96 && delta != 112
}

// NewNURandForRun draws the constants for the measurement interval given
// the constants used at load time.
func NewNURandForRun(r *Random, load *NURandContext) *NURandContext {
	cLast := r.Number(0, 255)
	for !validCLastDelta(cLast, load.CLast) {
		cLast = r.Number(0, 255)
	}
	return &NURandContext{
		CLast:           cLast,
		CID:             r.Number(0, 1023),
		OrderLineItemID: r.Number(0, 8191),
	}
}

// SetNURand installs the NURand constants. They are fixed for the run, so
// installing a second context panics.
func (self *Random) SetNURand(ctx *NURandContext) {
	if ctx == nil {
		panic("nil NURand context")
	}
	if self.nurand != nil {
		panic(fmt.Sprintf("NURand context already established: %s", self.nurand))
	}
	self.nurand = ctx
}

// EnsureNURand establishes a load context if none was installed yet and
// returns the active one.
func (self *Random) EnsureNURand() *NURandContext {
	if self.nurand == nil {
		self.nurand = NewNURandForLoad(self)
	}
	return self.nurand
}

// NURand returns a non-uniform random number. See 2.1.6.
func (self *Random) NURand(a, x, y int64) int64 {
	if x > y {
		panic(fmt.Sprintf("invalid range [%d, %d]", x, y))
	}
	ctx := self.EnsureNURand()
	var c int64
	switch a {
	case 255:
		c = ctx.CLast
	case 1023:
		c = ctx.CID
	case 8191:
		c = ctx.OrderLineItemID
	default:
		panic(fmt.Sprintf("a = %d is not a supported value", a))
	}
	return (((self.Number(0, a) | self.Number(x, y)) + c) % (y - x + 1)) + x
}
