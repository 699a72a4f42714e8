package schema

import (
	"github.com/hhkbp2/testify/require"
	"testing"
)

func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{
		"CH2":       VariantNested,
		"ch2p":      VariantPartiallyNested,
		" CH2PP ":   VariantPartiallyNestedCondensed,
		"CH2PPF":    VariantFlattened,
		"flattened": VariantFlattened,
		"partial":   VariantPartiallyNested,
	}
	for s, expected := range cases {
		v, err := ParseVariant(s)
		require.Nil(t, err)
		require.Equal(t, expected, v)
	}
	_, err := ParseVariant("ch3")
	require.NotNil(t, err)
}

func TestVariantString(t *testing.T) {
	for _, v := range Variants() {
		parsed, err := ParseVariant(v.String())
		require.Nil(t, err)
		require.Equal(t, v, parsed)
	}
	require.Equal(t, "Variant(9)", Variant(9).String())
	require.True(t, VariantFlattened.In(VariantNested, VariantFlattened))
	require.False(t, VariantFlattened.In(VariantNested))
}

func TestColumnsFor(t *testing.T) {
	columns, ok := ColumnsFor(TableWarehouse, VariantNested)
	require.True(t, ok)
	require.Equal(t, "w_street_1", columns[2])
	for _, v := range []Variant{VariantPartiallyNested, VariantPartiallyNestedCondensed, VariantFlattened} {
		columns, ok = ColumnsFor(TableWarehouse, v)
		require.True(t, ok)
		require.Equal(t, "w_address", columns[2])
	}
	_, ok = ColumnsFor(TableCustomerName, VariantNested)
	require.False(t, ok)
	_, ok = ColumnsFor(TableCustomerName, VariantFlattened)
	require.True(t, ok)
	_, ok = ColumnsFor("NOPE", VariantFlattened)
	require.False(t, ok)
}

func TestNewCatalog(t *testing.T) {
	_, err := NewCatalog(Variant(0))
	require.NotNil(t, err)

	for _, v := range Variants() {
		catalog, err := NewCatalog(v)
		require.Nil(t, err)
		require.Equal(t, v, catalog.Variant())
		for _, table := range catalog.Tables() {
			columns, ok := catalog.Columns(table)
			require.True(t, ok)
			require.True(t, len(columns) > 0)
			if IsSubSchema(table) {
				require.Equal(t, 0, len(catalog.KeyColumns(table)))
				continue
			}
			// every key column is a column of its table
			for _, key := range catalog.KeyColumns(table) {
				found := false
				for _, c := range columns {
					if c == key {
						found = true
					}
				}
				require.True(t, found)
			}
		}
	}
}

func TestStaticCatalog(t *testing.T) {
	catalog := NewStaticCatalog(VariantNested,
		map[string][]string{"B": {"b"}, "A": {"a1", "a2"}}, nil)
	require.Equal(t, []string{"A", "B"}, catalog.Tables())
	columns, ok := catalog.Columns("A")
	require.True(t, ok)
	require.Equal(t, []string{"a1", "a2"}, columns)
	require.Nil(t, catalog.KeyColumns("A"))
}
