package ch2

import (
	"fmt"
	"strings"
	"time"

	g "github.com/d-nagy/ch2/generator"
	"github.com/d-nagy/ch2/mapper"
	"github.com/d-nagy/ch2/schema"
	"modernc.org/mathutil"
)

const (
	originalString = "ORIGINAL"
	badCredit      = "BC"
	goodCredit     = "GC"
	middleName     = "OE"
	// TPC-C 4.3.3.1
	minOrderLines       = 5
	maxOrderLines       = 15
	orderLineQuantity   = 5
	initialCreditLimit  = 50000.0
	initialBalance      = -10.0
	initialYTDPayment   = 10.0
	initialHistoryTotal = 10.0
	initialStockYTD     = 0
	warehouseYTD        = 300000.0
	districtYTD         = 30000.0
	// customers loaded with LastName(c-1) before switching to NURand names
	sequentialLastNames = 1000
	stockDistCount      = 10
	maxItemCategories   = 3
	// c_data
	longestAString = 500
)

var (
	regionNames = []string{"AFRICA", "AMERICA", "ASIA", "EUROPE", "MIDDLE EAST"}
	nations     = []struct {
		name   string
		region int64
	}{
		{"ALGERIA", 0}, {"ARGENTINA", 1}, {"BRAZIL", 1}, {"CANADA", 1}, {"EGYPT", 4},
		{"ETHIOPIA", 0}, {"FRANCE", 3}, {"GERMANY", 3}, {"INDIA", 2}, {"INDONESIA", 2},
		{"IRAN", 4}, {"IRAQ", 4}, {"JAPAN", 2}, {"JORDAN", 4}, {"KENYA", 0},
		{"MOROCCO", 0}, {"MOZAMBIQUE", 0}, {"PERU", 1}, {"CHINA", 2}, {"ROMANIA", 3},
		{"SAUDI ARABIA", 4}, {"VIETNAM", 2}, {"RUSSIA", 3}, {"UNITED KINGDOM", 3},
		{"UNITED STATES", 1},
	}
	addressKinds = []string{"home", "work", "shipping"}
	phoneKinds   = []string{"home", "mobile", "work"}
)

// TupleLoader receives generated tuples, a slice of one table at a time.
type TupleLoader interface {
	LoadTuples(table string, tuples []schema.Tuple) error
}

// Workload produces the records of a CH2 database. Every loader routine
// owns one; it is not safe for concurrent use.
type Workload interface {
	// LoadShared loads the tables that do not belong to any warehouse.
	LoadShared(loader TupleLoader) error
	// LoadWarehouse loads warehouse w and everything it owns.
	LoadWarehouse(loader TupleLoader, w int64) error
}

type tupleBuffer struct {
	loader TupleLoader
	table  string
	tuples []schema.Tuple
}

func newTupleBuffer(loader TupleLoader, table string, size int) *tupleBuffer {
	return &tupleBuffer{
		loader: loader,
		table:  table,
		tuples: make([]schema.Tuple, 0, size),
	}
}

func (self *tupleBuffer) add(t schema.Tuple) error {
	self.tuples = append(self.tuples, t)
	if len(self.tuples) == cap(self.tuples) {
		return self.flush()
	}
	return nil
}

func (self *tupleBuffer) flush() error {
	if len(self.tuples) == 0 {
		return nil
	}
	err := self.loader.LoadTuples(self.table, self.tuples)
	self.tuples = make([]schema.Tuple, 0, cap(self.tuples))
	return err
}

// CH2Workload generates the initial population of TPC-C 4.3.3.1 extended
// with the CH-benCHmark SUPPLIER, NATION and REGION tables. Tuples follow
// the column layout of the configured variant: relational for CH2, nested
// addresses and names for the others.
type CH2Workload struct {
	variant    schema.Variant
	scale      Scale
	extra      mapper.ExtraFieldCounts
	tupleBatch int
	random     *g.Random
	credit     *g.DiscreteGenerator
	orderLines *g.UniformIntegerGenerator
	quantity   *g.ConstantIntegerGenerator
	supplier   *g.CounterGenerator
	now        time.Time
}

func NewCH2Workload(config *LoadConfig, r *g.Random) *CH2Workload {
	credit := g.NewDiscreteGenerator(r)
	credit.AddValue(0.1, badCredit)
	credit.AddValue(0.9, goodCredit)
	return &CH2Workload{
		variant:    config.Variant,
		scale:      config.Scale,
		extra:      config.ExtraFields,
		tupleBatch: config.TupleBatch,
		random:     r,
		credit:     credit,
		orderLines: g.NewUniformIntegerGenerator(r, minOrderLines, maxOrderLines),
		quantity:   g.NewConstantIntegerGenerator(orderLineQuantity),
		supplier:   g.NewCounterGenerator(0),
		now:        time.Now(),
	}
}

func (self *CH2Workload) nested() bool {
	return self.variant != schema.VariantNested
}

func (self *CH2Workload) LoadShared(loader TupleLoader) error {
	if err := self.loadItems(loader); err != nil {
		return err
	}
	if err := self.loadRegions(loader); err != nil {
		return err
	}
	if err := self.loadNations(loader); err != nil {
		return err
	}
	return self.loadSuppliers(loader)
}

func (self *CH2Workload) LoadWarehouse(loader TupleLoader, w int64) error {
	Infof("loading warehouse %d", w)
	buf := newTupleBuffer(loader, schema.TableWarehouse, 1)
	if err := buf.add(self.warehouseTuple(w)); err != nil {
		return err
	}
	if err := self.loadStock(loader, w); err != nil {
		return err
	}
	for d := int64(1); d <= self.scale.Districts; d++ {
		if err := self.loadDistrict(loader, w, d); err != nil {
			return err
		}
	}
	return nil
}

func (self *CH2Workload) loadItems(loader TupleLoader) error {
	Infof("loading %d items", self.scale.Items)
	original := self.selectOriginal(self.scale.Items)
	buf := newTupleBuffer(loader, schema.TableItem, self.tupleBatch)
	for i := int64(1); i <= self.scale.Items; i++ {
		if err := buf.add(self.itemTuple(i, original[i])); err != nil {
			return err
		}
	}
	return buf.flush()
}

func (self *CH2Workload) loadRegions(loader TupleLoader) error {
	buf := newTupleBuffer(loader, schema.TableRegion, len(regionNames))
	for i, name := range regionNames {
		t := schema.Tuple{int64(i), name, self.random.AString(31, 115)}
		if err := buf.add(t); err != nil {
			return err
		}
	}
	return buf.flush()
}

func (self *CH2Workload) loadNations(loader TupleLoader) error {
	buf := newTupleBuffer(loader, schema.TableNation, len(nations))
	for i, n := range nations {
		t := schema.Tuple{int64(i), n.name, n.region, self.random.AString(31, 114)}
		if err := buf.add(t); err != nil {
			return err
		}
	}
	return buf.flush()
}

func (self *CH2Workload) loadSuppliers(loader TupleLoader) error {
	Infof("loading %d suppliers", self.scale.Suppliers)
	self.supplier.Reset(0)
	buf := newTupleBuffer(loader, schema.TableSupplier, self.tupleBatch)
	for i := int64(0); i < self.scale.Suppliers; i++ {
		if err := buf.add(self.supplierTuple(self.supplier.NextInt())); err != nil {
			return err
		}
	}
	return buf.flush()
}

func (self *CH2Workload) loadStock(loader TupleLoader, w int64) error {
	original := self.selectOriginal(self.scale.Items)
	buf := newTupleBuffer(loader, schema.TableStock, self.tupleBatch)
	for i := int64(1); i <= self.scale.Items; i++ {
		if err := buf.add(self.stockTuple(w, i, original[i])); err != nil {
			return err
		}
	}
	return buf.flush()
}

func (self *CH2Workload) loadDistrict(loader TupleLoader, w, d int64) (err error) {
	defer catch(&err)
	try(newTupleBuffer(loader, schema.TableDistrict, 1).add(self.districtTuple(w, d)))

	customers := newTupleBuffer(loader, schema.TableCustomer, self.tupleBatch)
	history := newTupleBuffer(loader, schema.TableHistory, self.tupleBatch)
	for c := int64(1); c <= self.scale.Customers; c++ {
		try(customers.add(self.customerTuple(w, d, c)))
		try(history.add(self.historyTuple(w, d, c)))
	}
	try(customers.flush())
	try(history.flush())

	orders := newTupleBuffer(loader, schema.TableOrders, self.tupleBatch)
	newOrders := newTupleBuffer(loader, schema.TableNewOrder, self.tupleBatch)
	// ORDER_LINE is only loaded on its own when orders cannot nest it
	var orderLines *tupleBuffer
	if self.variant == schema.VariantFlattened {
		orderLines = newTupleBuffer(loader, schema.TableOrderLine, self.tupleBatch)
	}
	firstNewOrder := self.scale.Orders - self.scale.NewOrders + 1
	customerIDs := self.permutation(self.scale.Customers)
	for o := int64(1); o <= self.scale.Orders; o++ {
		isNew := o >= firstNewOrder
		order, lines := self.orderTuple(w, d, o, customerIDs[o-1], isNew)
		try(orders.add(order))
		if orderLines != nil {
			for _, line := range lines {
				try(orderLines.add(line))
			}
		}
		if isNew {
			try(newOrders.add(schema.Tuple{o, d, w}))
		}
	}
	try(orders.flush())
	try(newOrders.flush())
	if orderLines != nil {
		try(orderLines.flush())
	}
	return
}

// selectOriginal picks the 10% of n rows whose data embeds "ORIGINAL".
func (self *CH2Workload) selectOriginal(n int64) map[int64]bool {
	ids := self.random.SelectUniqueIDs(int(n/10), 1, n)
	ret := make(map[int64]bool, len(ids))
	for _, id := range ids {
		ret[id] = true
	}
	return ret
}

// permutation returns 1..n in random order.
func (self *CH2Workload) permutation(n int64) []int64 {
	ret := make([]int64, n)
	for i := range ret {
		ret[i] = int64(i) + 1
	}
	for i := n - 1; i > 0; i-- {
		j := self.random.Number(0, i)
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

func (self *CH2Workload) data(original bool) string {
	if original {
		return self.random.RandomStringWithEmbeddedSubstrings(26, 50, originalString, "")
	}
	return self.random.AString(26, 50)
}

func (self *CH2Workload) zip() string {
	return self.random.NString(4, 4) + "11111"
}

func (self *CH2Workload) tax() float64 {
	return self.random.FixedPoint(4, 0.0, 0.2)
}

// address returns street 1, street 2, city, state and zip.
func (self *CH2Workload) address() []interface{} {
	return []interface{}{
		self.random.AString(10, 20),
		self.random.AString(10, 20),
		self.random.AString(10, 20),
		strings.ToUpper(self.random.AString(2, 2)),
		self.zip(),
	}
}

func (self *CH2Workload) categories() []string {
	n := self.random.Number(1, mathutil.MinInt64(maxItemCategories, self.scale.Categories))
	ids := self.random.SelectUniqueIDs(int(n), 1, self.scale.Categories)
	ret := make([]string, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, fmt.Sprintf("category-%03d", id))
	}
	return ret
}

func (self *CH2Workload) extraFields(n int) []string {
	ret := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ret = append(ret, self.random.AString(10, 20))
	}
	return ret
}

func (self *CH2Workload) itemTuple(i int64, original bool) schema.Tuple {
	return schema.Tuple{
		i,
		self.random.Number(1, 10000),
		self.random.AString(14, 24),
		self.random.FixedPoint(2, 1.00, 100.00),
		self.data(original),
		self.categories(),
		self.extraFields(self.extra.Item),
	}
}

func (self *CH2Workload) warehouseTuple(w int64) schema.Tuple {
	t := schema.Tuple{w, self.random.AString(6, 10)}
	if self.nested() {
		t = append(t, schema.Tuple(self.address()))
	} else {
		t = append(t, self.address()...)
	}
	return append(t, self.tax(), warehouseYTD)
}

func (self *CH2Workload) districtTuple(w, d int64) schema.Tuple {
	t := schema.Tuple{d, w, self.random.AString(6, 10)}
	if self.nested() {
		t = append(t, schema.Tuple(self.address()))
	} else {
		t = append(t, self.address()...)
	}
	return append(t, self.tax(), districtYTD, self.scale.Orders+1)
}

func (self *CH2Workload) lastName(c int64) string {
	if c <= sequentialLastNames {
		return g.LastName(c - 1)
	}
	return self.random.RandomLastName(self.scale.Customers)
}

func (self *CH2Workload) phone() string {
	return self.random.NString(16, 16)
}

func (self *CH2Workload) customerTuple(w, d, c int64) schema.Tuple {
	first := self.random.AString(8, 16)
	last := self.lastName(c)
	t := schema.Tuple{c, d, w}
	if self.nested() {
		t = append(t,
			schema.Tuple{first, middleName, last},
			self.customerAddresses(),
			self.customerPhones(),
			strings.ToLower(first+"."+last)+"@example.com")
	} else {
		t = append(t, first, middleName, last)
		t = append(t, self.address()...)
		t = append(t, self.phone())
	}
	return append(t,
		self.now,
		self.credit.NextString(),
		initialCreditLimit,
		self.random.FixedPoint(4, 0.0, 0.5),
		initialBalance,
		initialYTDPayment,
		int64(1),
		int64(0),
		self.random.AString(300, longestAString),
		self.categories(),
		self.extraFields(self.extra.Customer))
}

func (self *CH2Workload) customerAddresses() []schema.Tuple {
	n := self.random.Number(1, int64(len(addressKinds)))
	ret := make([]schema.Tuple, 0, n)
	for i := int64(0); i < n; i++ {
		ret = append(ret, append(schema.Tuple{addressKinds[i]}, self.address()...))
	}
	return ret
}

func (self *CH2Workload) customerPhones() []schema.Tuple {
	n := self.random.Number(1, int64(len(phoneKinds)))
	ret := make([]schema.Tuple, 0, n)
	for i := int64(0); i < n; i++ {
		ret = append(ret, schema.Tuple{phoneKinds[i], self.phone()})
	}
	return ret
}

func (self *CH2Workload) historyTuple(w, d, c int64) schema.Tuple {
	return schema.Tuple{c, d, w, d, w, self.now, initialHistoryTotal, self.random.AString(12, 24)}
}

func (self *CH2Workload) stockTuple(w, i int64, original bool) schema.Tuple {
	dists := make([]string, 0, stockDistCount)
	for n := 0; n < stockDistCount; n++ {
		dists = append(dists, self.random.AString(24, 24))
	}
	t := schema.Tuple{i, w, self.random.Number(10, 100)}
	if self.nested() {
		t = append(t, dists)
	} else {
		for _, dist := range dists {
			t = append(t, dist)
		}
	}
	return append(t, int64(initialStockYTD), int64(0), int64(0), self.data(original))
}

// orderTuple returns the order and its order lines. Orders still in
// NEW_ORDER are undelivered: no carrier, no delivery date.
func (self *CH2Workload) orderTuple(w, d, o, c int64, isNew bool) (schema.Tuple, []schema.Tuple) {
	count := self.orderLines.NextInt()
	var carrier interface{}
	if !isNew {
		carrier = self.random.Number(1, 10)
	}
	lines := make([]schema.Tuple, 0, count)
	for n := int64(1); n <= count; n++ {
		var delivery interface{}
		amount := 0.0
		if isNew {
			amount = self.random.FixedPoint(2, 0.01, 9999.99)
		} else {
			delivery = self.now
		}
		lines = append(lines, schema.Tuple{
			o, d, w, n,
			self.random.Number(1, self.scale.Items),
			w,
			delivery,
			self.quantity.NextInt(),
			amount,
			self.random.AString(24, 24),
		})
	}
	order := schema.Tuple{
		o, d, w, c,
		self.now,
		carrier,
		count,
		int64(1),
		lines,
		self.extraFields(self.extra.Orders),
	}
	return order, lines
}

func (self *CH2Workload) supplierTuple(k int64) schema.Tuple {
	t := schema.Tuple{k, fmt.Sprintf("Supplier#%09d", k)}
	if self.nested() {
		a := self.address()
		t = append(t, schema.Tuple{a[0], a[2], a[3], a[4]})
	} else {
		t = append(t, self.random.AString(10, 40))
	}
	return append(t,
		self.random.Number(0, int64(len(nations)-1)),
		self.phone(),
		self.random.FixedPoint(2, -999.99, 9999.99),
		self.random.AString(25, 100))
}
