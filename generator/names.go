package generator

import (
	"fmt"
)

var (
	syllables = [...]string{
		"BAR", "OUGHT", "ABLE", "PRI", "PRES",
		"ESE", "ANTI", "CALLY", "ATION", "EING",
	}
)

// LastName builds a customer last name from a number in [0, 999] by
// concatenating the syllables of its three digits. Not random.
// See 4.3.2.3.
func LastName(number int64) string {
	if number < 0 || number > 999 {
		panic(fmt.Sprintf("last name code %d outside [0, 999]", number))
	}
	return syllables[number/100] + syllables[(number/10)%10] + syllables[number%10]
}
