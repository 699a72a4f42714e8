package schema

import (
	"fmt"
	"strings"
)

// Variant selects the document shape produced for every table. Exactly one
// variant is active for a whole load.
type Variant uint8

const (
	// CH2: relational columns, order lines nested in orders.
	VariantNested Variant = 1 + iota
	// CH2P: nested addresses and names, one address and one phone per
	// customer, item categories kept.
	VariantPartiallyNested
	// CH2PP: nested addresses and names, all addresses and phones,
	// categories dropped.
	VariantPartiallyNestedCondensed
	// CH2PPF: every nested structure expanded in place or dropped.
	VariantFlattened
)

var (
	variantNames = map[Variant]string{
		VariantNested:                   "CH2",
		VariantPartiallyNested:          "CH2P",
		VariantPartiallyNestedCondensed: "CH2PP",
		VariantFlattened:                "CH2PPF",
	}
	variantAliases = map[string]Variant{
		"ch2":        VariantNested,
		"nested":     VariantNested,
		"ch2p":       VariantPartiallyNested,
		"partial":    VariantPartiallyNested,
		"ch2pp":      VariantPartiallyNestedCondensed,
		"condensed":  VariantPartiallyNestedCondensed,
		"ch2ppf":     VariantFlattened,
		"ch2pp-flat": VariantFlattened,
		"flat":       VariantFlattened,
		"flattened":  VariantFlattened,
	}
)

// Variants lists every supported variant.
func Variants() []Variant {
	return []Variant{
		VariantNested,
		VariantPartiallyNested,
		VariantPartiallyNestedCondensed,
		VariantFlattened,
	}
}

func (self Variant) String() string {
	if name, ok := variantNames[self]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", uint8(self))
}

// In reports whether the variant is one of vs.
func (self Variant) In(vs ...Variant) bool {
	for _, v := range vs {
		if v == self {
			return true
		}
	}
	return false
}

func ParseVariant(s string) (Variant, error) {
	v, ok := variantAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown schema variant: %q", s)
	}
	return v, nil
}
