package generator

import (
	"github.com/hhkbp2/testify/require"
	"strings"
	"testing"
	"unicode"
)

func runTestPoolString(t *testing.T, f func(min, max int) string, alphabet string) {
	for i := 0; i < 1000; i++ {
		s := f(3, 17)
		require.True(t, len(s) >= 3 && len(s) <= 17)
		for _, c := range s {
			require.True(t, strings.ContainsRune(alphabet, c))
		}
	}
}

func TestAString(t *testing.T) {
	r := newTestRandom(20)
	runTestPoolString(t, r.AString, alphabetic)
}

func TestNString(t *testing.T) {
	r := newTestRandom(21)
	runTestPoolString(t, r.NString, numeric)
}

func TestPoolRegeneratedWhenExhausted(t *testing.T) {
	r := NewRandom(WithSeed(22), WithPoolSize(10))
	require.Equal(t, 0, r.alpha.generations)
	s1 := r.AString(4, 4)
	require.Len(t, s1, 4)
	require.Equal(t, 1, r.alpha.generations)
	require.Equal(t, 4, r.alpha.cursor)
	r.AString(4, 4)
	require.Equal(t, 8, r.alpha.cursor)
	require.Equal(t, 1, r.alpha.generations)
	// 8 + 4 does not fit in 10: the pool is rebuilt and the cursor reset
	r.AString(4, 4)
	require.Equal(t, 2, r.alpha.generations)
	require.Equal(t, 4, r.alpha.cursor)
	// an exact fit does not regenerate
	r.AString(6, 6)
	require.Equal(t, 2, r.alpha.generations)
	require.Equal(t, 10, r.alpha.cursor)
	// the numeric pool is independent
	require.Equal(t, 0, r.numeric.generations)
	require.Panics(t, func() { r.NString(11, 11) })
}

func TestRandomString(t *testing.T) {
	r := newTestRandom(23)
	require.Equal(t, "", r.RandomString(0))
	for i := 0; i < 100; i++ {
		s := r.RandomString(32)
		require.Len(t, s, 32)
		for _, c := range s {
			require.True(t, unicode.IsLetter(c) || unicode.IsDigit(c))
		}
		s = r.RandomStringMinMax(1, 5)
		require.True(t, len(s) >= 1 && len(s) <= 5)
	}
}

func TestRandomStringWithEmbeddedSubstrings(t *testing.T) {
	r := newTestRandom(24)
	s1 := "ORIGINAL"
	s2 := "COMPLAINTS"
	for i := 0; i < 1000; i++ {
		s := r.RandomStringWithEmbeddedSubstrings(10, 40, s1, s2)
		require.True(t, len(s) >= len(s1)+len(s2) && len(s) <= 40)
		i1 := strings.Index(s, s1)
		require.True(t, i1 >= 0)
		require.True(t, strings.Index(s[i1+len(s1):], s2) >= 0)
	}
	require.Panics(t, func() { r.RandomStringWithEmbeddedSubstrings(1, 5, s1, s2) })
}
