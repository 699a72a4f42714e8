package generator

import (
	"math/rand"
)

const (
	alphabetic   = "abcdefghijklmnopqrstuvwxyz"
	numeric      = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// charPool is a large block of pre-generated random characters handed out
// in slices. When a request does not fit in what is left, the whole block
// is regenerated and the cursor goes back to zero; the unused tail is
// discarded.
type charPool struct {
	alphabet    string
	buf         []byte
	cursor      int
	generations int
}

func newCharPool(alphabet string, size int) *charPool {
	return &charPool{
		alphabet: alphabet,
		buf:      make([]byte, size),
		// force a fill on first use
		cursor: size,
	}
}

func (self *charPool) fill(rng *rand.Rand) {
	n := len(self.alphabet)
	for i := range self.buf {
		self.buf[i] = self.alphabet[rng.Intn(n)]
	}
	self.cursor = 0
	self.generations++
}

func (self *charPool) take(rng *rand.Rand, length int) string {
	if length > len(self.buf) {
		panic("requested string longer than the string pool")
	}
	if self.cursor+length > len(self.buf) {
		self.fill(rng)
	}
	s := string(self.buf[self.cursor : self.cursor+length])
	self.cursor += length
	return s
}

// AString returns a random lowercase alphabetic string with length in
// [min, max]. See 4.3.2.2.
func (self *Random) AString(min, max int) string {
	length := int(self.Number(int64(min), int64(max)))
	return self.alpha.take(self.rng, length)
}

// NString returns a random numeric string with length in [min, max].
// See 4.3.2.2.
func (self *Random) NString(min, max int) string {
	length := int(self.Number(int64(min), int64(max)))
	return self.numeric.take(self.rng, length)
}

// RandomString returns length characters drawn with replacement from
// letters of both cases and digits.
func (self *Random) RandomString(length int) string {
	if length < 0 {
		panic("negative string length")
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumeric[self.rng.Intn(len(alphanumeric))]
	}
	return string(b)
}

func (self *Random) RandomStringMinMax(min, max int) string {
	return self.RandomString(int(self.Number(int64(min), int64(max))))
}

// RandomStringWithEmbeddedSubstrings returns a random alphanumeric string
// with length in [min, max] that contains s1 followed by s2 at random
// offsets. Lengths too short to hold both are redrawn.
func (self *Random) RandomStringWithEmbeddedSubstrings(min, max int, s1, s2 string) string {
	fixed := len(s1) + len(s2)
	if max < fixed {
		panic("maximum length cannot hold the embedded substrings")
	}
	length := int(self.Number(int64(min), int64(max)))
	for length < fixed {
		length = int(self.Number(int64(min), int64(max)))
	}
	l1 := int(self.Number(0, int64(length-fixed)))
	l2 := int(self.Number(0, int64(length-l1-fixed)))
	l3 := length - l1 - l2 - fixed
	return self.RandomString(l1) + s1 + self.RandomString(l2) + s2 + self.RandomString(l3)
}
