// Package mapper turns CH2 tuples into documents whose shape follows the
// active schema variant.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/d-nagy/ch2/schema"
	"github.com/hhkbp2/go-strftime"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrColumnCount  = errors.New("column count mismatch")
	ErrValueShape   = errors.New("unexpected value shape")
	ErrNoKey        = errors.New("table has no key columns")
)

// MappingError identifies the table, column and value a tuple could not be
// mapped at. It is never recoverable: the tuple itself is defective.
type MappingError struct {
	Table  string
	Column string
	Value  interface{}
	Err    error
}

func (self *MappingError) Error() string {
	if len(self.Column) == 0 {
		return fmt.Sprintf("mapping table %s: %s", self.Table, self.Err)
	}
	return fmt.Sprintf("mapping %s.%s value %#v: %s",
		self.Table, self.Column, self.Value, self.Err)
}

func (self *MappingError) Unwrap() error {
	return self.Err
}

// ExtraFieldCounts is the number of extra fields unrolled from the
// customer, orders and item extra arrays.
type ExtraFieldCounts struct {
	Customer int
	Orders   int
	Item     int
}

type Options struct {
	GenerateKey bool
	ExtraFields ExtraFieldCounts
}

// Mapper holds the dispatch plan of every catalog table, resolved once for
// the catalog's variant. It is immutable after New and safe to share.
type Mapper struct {
	variant schema.Variant
	opts    Options
	plans   map[string]*tablePlan
}

func New(catalog schema.Catalog, opts Options) (*Mapper, error) {
	object := &Mapper{
		variant: catalog.Variant(),
		opts:    opts,
		plans:   make(map[string]*tablePlan),
	}
	for _, table := range catalog.Tables() {
		plan, err := buildPlan(catalog, table, opts)
		if err != nil {
			return nil, err
		}
		object.plans[table] = plan
	}
	return object, nil
}

func (self *Mapper) Variant() schema.Variant {
	return self.variant
}

func (self *Mapper) plan(table string) (*tablePlan, error) {
	plan, ok := self.plans[table]
	if !ok {
		return nil, &MappingError{Table: table, Err: ErrUnknownTable}
	}
	return plan, nil
}

// MapTuple maps one tuple of table into a fresh document. With key
// generation on, the derived key is the first field.
func (self *Mapper) MapTuple(table string, t schema.Tuple) (*Document, error) {
	plan, err := self.plan(table)
	if err != nil {
		return nil, err
	}
	if len(t) != len(plan.columns) {
		return nil, &MappingError{
			Table: table,
			Value: len(t),
			Err:   fmt.Errorf("%w: %d values for %d columns", ErrColumnCount, len(t), len(plan.columns)),
		}
	}
	doc := NewDocument(len(plan.columns) + 1)
	if self.opts.GenerateKey && len(plan.keyIndexes) > 0 {
		doc.Set(KeyField, plan.key(t))
	}
	for i, op := range plan.ops {
		column := plan.columns[i]
		if err := applyOp(doc, op, column, t[i]); err != nil {
			return nil, &MappingError{Table: table, Column: column, Value: t[i], Err: err}
		}
	}
	return doc, nil
}

// Key projects t onto the table's key columns and dot-joins the values.
func (self *Mapper) Key(table string, t schema.Tuple) (string, error) {
	plan, err := self.plan(table)
	if err != nil {
		return "", err
	}
	if len(plan.keyIndexes) == 0 {
		return "", &MappingError{Table: table, Err: ErrNoKey}
	}
	if len(t) != len(plan.columns) {
		return "", &MappingError{Table: table, Value: len(t), Err: ErrColumnCount}
	}
	return plan.key(t), nil
}

// Shape returns the sorted field paths every tuple of table maps to, in the
// form Document.FieldPaths reports them. Sequences are assumed non-empty.
func (self *Mapper) Shape(table string) ([]string, error) {
	plan, err := self.plan(table)
	if err != nil {
		return nil, err
	}
	paths := plan.shape(self.opts.GenerateKey)
	sort.Strings(paths)
	// flattened sub-schemas may repeat a name
	out := paths[:0]
	for _, p := range paths {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (self *tablePlan) key(t schema.Tuple) string {
	parts := make([]string, 0, len(self.keyIndexes))
	for _, i := range self.keyIndexes {
		parts = append(parts, stringify(t[i]))
	}
	return strings.Join(parts, ".")
}

func applyOp(doc *Document, op columnOp, column string, value interface{}) error {
	switch op.kind {
	case opSuppress:
		return nil
	case opExtraArray, opUnroll:
		values, ok := asList(value)
		if !ok {
			return fmt.Errorf("%w: want an array", ErrValueShape)
		}
		if len(values) < op.count {
			return fmt.Errorf("%w: %d elements, want %d", ErrValueShape, len(values), op.count)
		}
		for n := 1; n <= op.count; n++ {
			v, err := render(values[n-1])
			if err != nil {
				return err
			}
			doc.Set(numberedField(op.prefix, n, op.width), v)
		}
		return nil
	case opNestedDoc:
		sub := NewDocument(len(op.sub))
		if err := projectInto(sub, op.sub, value); err != nil {
			return err
		}
		doc.Set(column, sub)
		return nil
	case opFlattenInPlace:
		return projectInto(doc, op.sub, value)
	case opNestedSequence:
		tuples, ok := asList(value)
		if !ok {
			return fmt.Errorf("%w: want a sequence of tuples", ErrValueShape)
		}
		if op.takeFirst && len(tuples) > 1 {
			tuples = tuples[:1]
		}
		docs := make([]*Document, 0, len(tuples))
		for _, t := range tuples {
			sub := NewDocument(len(op.sub))
			if err := projectInto(sub, op.sub, t); err != nil {
				return err
			}
			docs = append(docs, sub)
		}
		doc.Set(column, docs)
		return nil
	default:
		v, err := render(value)
		if err != nil {
			return err
		}
		doc.Set(column, v)
		return nil
	}
}

// projectInto sets columns[i] to the i-th value of the sub-tuple.
func projectInto(doc *Document, columns []string, value interface{}) error {
	values, ok := asList(value)
	if !ok {
		return fmt.Errorf("%w: want a tuple", ErrValueShape)
	}
	if len(values) != len(columns) {
		return fmt.Errorf("%w: tuple of %d values for %d columns",
			ErrValueShape, len(values), len(columns))
	}
	for i, column := range columns {
		v, err := render(values[i])
		if err != nil {
			return err
		}
		doc.Set(column, v)
	}
	return nil
}

func asList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case schema.Tuple:
		return v, true
	case []interface{}:
		return v, true
	case string, []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

// render converts a value to its document form: timestamps become strings
// and arrays are rendered element-wise. Anything that is not a scalar or an
// array of scalars is rejected.
func render(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, nil
	case time.Time:
		return FormatTimestamp(v), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return FormatTimestamp(*v), nil
	}
	values, ok := asList(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a scalar", ErrValueShape, value)
	}
	out := make([]interface{}, len(values))
	for i, e := range values {
		r, err := render(e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// FormatTimestamp renders t as "YYYY-MM-DD HH:MM:SS", followed by
// ".ffffff" when t has a non-zero microsecond part.
func FormatTimestamp(t time.Time) string {
	s := strftime.Format("%Y-%m-%d %H:%M:%S", t)
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return FormatTimestamp(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}
