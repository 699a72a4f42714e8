package mapper

import (
	"fmt"
	"strings"

	"github.com/d-nagy/ch2/schema"
)

type opKind uint8

const (
	opPassthrough opKind = iota
	opSuppress
	// an extra-field array unrolled into <column>_NNN
	opExtraArray
	opNestedDoc
	opNestedSequence
	opFlattenInPlace
	// a fixed array unrolled into <prefix>_NN
	opUnroll
)

var opNames = map[opKind]string{
	opPassthrough:    "passthrough",
	opSuppress:       "suppress",
	opExtraArray:     "extra",
	opNestedDoc:      "nested",
	opNestedSequence: "sequence",
	opFlattenInPlace: "flatten",
	opUnroll:         "unroll",
}

func (self opKind) String() string {
	return opNames[self]
}

type columnOp struct {
	kind      opKind
	count     int
	width     int
	prefix    string
	subTable  string
	sub       []string
	takeFirst bool
}

// rule inspects one column under the active variant and reports whether it
// claims the column.
type rule func(table, column string, v schema.Variant, opts Options) (columnOp, bool)

// Rules are evaluated in order; the first match wins and any column no rule
// claims is passed through.
var rules = []rule{
	orderLineRule,
	categoriesRule,
	extraFieldsRule,
	nestedDocRule,
	nestedSequenceRule,
	stockDistRule,
}

func orderLineRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	if table != schema.TableOrders || column != "o_orderline" {
		return columnOp{}, false
	}
	if v == schema.VariantFlattened {
		return columnOp{kind: opSuppress}, true
	}
	return columnOp{kind: opNestedSequence, subTable: schema.TableOrderLine}, true
}

func categoriesRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	if !(table == schema.TableItem && column == "i_categories") &&
		!(table == schema.TableCustomer && column == "c_item_categories") {
		return columnOp{}, false
	}
	if v == schema.VariantPartiallyNested {
		return columnOp{kind: opPassthrough}, true
	}
	return columnOp{kind: opSuppress}, true
}

func extraFieldsRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	var count int
	switch {
	case table == schema.TableCustomer && column == "c_extra":
		count = opts.ExtraFields.Customer
	case table == schema.TableOrders && column == "o_extra":
		count = opts.ExtraFields.Orders
	case table == schema.TableItem && column == "i_extra":
		count = opts.ExtraFields.Item
	default:
		return columnOp{}, false
	}
	return columnOp{kind: opExtraArray, count: count, width: 3, prefix: column}, true
}

var nestedDocs = map[string]map[string]string{
	schema.TableWarehouse: {"w_address": schema.TableWarehouseAddress},
	schema.TableDistrict:  {"d_address": schema.TableDistrictAddress},
	schema.TableSupplier:  {"su_address": schema.TableSupplierAddress},
	schema.TableCustomer:  {"c_name": schema.TableCustomerName},
}

// nestedDocRule leaves the relational CH2 columns alone: su_address is a
// plain string there.
func nestedDocRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	sub, ok := nestedDocs[table][column]
	if !ok || v == schema.VariantNested {
		return columnOp{}, false
	}
	if v == schema.VariantFlattened {
		return columnOp{kind: opFlattenInPlace, subTable: sub}, true
	}
	return columnOp{kind: opNestedDoc, subTable: sub}, true
}

var nestedSequences = map[string]map[string]string{
	schema.TableCustomer: {
		"c_addresses": schema.TableCustomerAddresses,
		"c_phones":    schema.TableCustomerPhones,
	},
}

func nestedSequenceRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	sub, ok := nestedSequences[table][column]
	if !ok {
		return columnOp{}, false
	}
	switch v {
	case schema.VariantFlattened:
		return columnOp{kind: opSuppress}, true
	case schema.VariantPartiallyNested:
		return columnOp{kind: opNestedSequence, subTable: sub, takeFirst: true}, true
	}
	return columnOp{kind: opNestedSequence, subTable: sub}, true
}

const stockDistCount = 10

func stockDistRule(table, column string, v schema.Variant, opts Options) (columnOp, bool) {
	if table != schema.TableStock || column != "s_dists" || v != schema.VariantFlattened {
		return columnOp{}, false
	}
	return columnOp{
		kind:   opUnroll,
		count:  stockDistCount,
		width:  2,
		prefix: strings.TrimSuffix(column, "s"),
	}, true
}

type tablePlan struct {
	table      string
	columns    []string
	keyColumns []string
	keyIndexes []int
	ops        []columnOp
}

func resolveOp(table, column string, v schema.Variant, opts Options) columnOp {
	for _, r := range rules {
		if op, ok := r(table, column, v, opts); ok {
			return op
		}
	}
	return columnOp{kind: opPassthrough}
}

func buildPlan(catalog schema.Catalog, table string, opts Options) (*tablePlan, error) {
	columns, ok := catalog.Columns(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	plan := &tablePlan{
		table:      table,
		columns:    columns,
		keyColumns: catalog.KeyColumns(table),
		ops:        make([]columnOp, 0, len(columns)),
	}
	positions := make(map[string]int, len(columns))
	for i, column := range columns {
		positions[column] = i
	}
	for _, key := range plan.keyColumns {
		i, ok := positions[key]
		if !ok {
			return nil, fmt.Errorf("table %s: key column %s is not a column", table, key)
		}
		plan.keyIndexes = append(plan.keyIndexes, i)
	}
	for _, column := range columns {
		op := resolveOp(table, column, catalog.Variant(), opts)
		if op.kind == opExtraArray && op.count < 0 {
			return nil, fmt.Errorf("table %s: negative extra field count %d for %s",
				table, op.count, column)
		}
		if len(op.subTable) > 0 {
			sub, ok := catalog.Columns(op.subTable)
			if !ok {
				return nil, fmt.Errorf("table %s: column %s needs sub-schema %s",
					table, column, op.subTable)
			}
			op.sub = sub
		}
		plan.ops = append(plan.ops, op)
	}
	return plan, nil
}

// shape lists the field paths a tuple of this table maps to, in the form
// Document.FieldPaths reports them.
func (self *tablePlan) shape(generateKey bool) []string {
	var paths []string
	if generateKey && len(self.keyIndexes) > 0 {
		paths = append(paths, KeyField)
	}
	for i, op := range self.ops {
		column := self.columns[i]
		switch op.kind {
		case opSuppress:
		case opExtraArray, opUnroll:
			for n := 1; n <= op.count; n++ {
				paths = append(paths, numberedField(op.prefix, n, op.width))
			}
		case opNestedDoc:
			for _, sub := range op.sub {
				paths = append(paths, column+"."+sub)
			}
		case opNestedSequence:
			for _, sub := range op.sub {
				paths = append(paths, column+"[]."+sub)
			}
		case opFlattenInPlace:
			paths = append(paths, op.sub...)
		default:
			paths = append(paths, column)
		}
	}
	return paths
}

func numberedField(prefix string, n, width int) string {
	return fmt.Sprintf("%s_%0*d", prefix, width, n)
}
