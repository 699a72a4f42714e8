package ch2

import (
	"fmt"
	"strconv"

	g "github.com/d-nagy/ch2/generator"
	"github.com/d-nagy/ch2/mapper"
	"github.com/d-nagy/ch2/schema"
	"github.com/google/uuid"
)

// Scale is the cardinality of every generated table. Districts are per
// warehouse; customers, orders and new orders are per district.
type Scale struct {
	Warehouses int64
	Items      int64
	Districts  int64
	Customers  int64
	Orders     int64
	NewOrders  int64
	Suppliers  int64
	Categories int64
}

// LoadConfig is the parsed form of the loader properties.
type LoadConfig struct {
	Variant      schema.Variant
	BatchSize    int
	AbortOnError bool
	ExtraFields  mapper.ExtraFieldCounts
	WriterID     string
	GenerateKey  bool
	ThreadCount  int
	Seed         int64
	PoolSize     int
	Store        string
	Scale        Scale
	TupleBatch   int
}

func NewLoadConfig(p Properties) (config *LoadConfig, err error) {
	defer func() {
		if err != nil {
			config = nil
		}
	}()
	defer catch(&err)
	config = &LoadConfig{}
	config.Variant, err = schema.ParseVariant(p.GetDefault(PropertySchema, PropertySchemaDefault))
	try(err)
	config.BatchSize = int(mustParsePositive(p, PropertyBatchSize, PropertyBatchSizeDefault))
	config.AbortOnError = mustParseBool(p, PropertyAbortOnError, PropertyAbortOnErrorDefault)
	config.ExtraFields = mapper.ExtraFieldCounts{
		Customer: int(mustParseCount(p, PropertyCustomerExtraFields, PropertyExtraFieldsDefault)),
		Orders:   int(mustParseCount(p, PropertyOrdersExtraFields, PropertyExtraFieldsDefault)),
		Item:     int(mustParseCount(p, PropertyItemExtraFields, PropertyExtraFieldsDefault)),
	}
	config.WriterID = p.Get(PropertyWriterID)
	if len(config.WriterID) == 0 {
		config.WriterID = uuid.NewString()[:8]
	}
	config.GenerateKey = mustParseBool(p, PropertyGenerateKey, PropertyGenerateKeyDefault)
	config.ThreadCount = int(mustParsePositive(p, PropertyThreadCount, PropertyThreadCountDefault))
	config.Seed = mustParseCount(p, PropertySeed, PropertySeedDefault)
	config.PoolSize = int(mustParsePositive(p, PropertyStringPoolSize, PropertyStringPoolSizeDefault))
	if config.PoolSize < longestAString {
		try(g.NewErrorf("invalid %s=%d, must hold a %d character string",
			PropertyStringPoolSize, config.PoolSize, longestAString))
	}
	config.Store = p.GetDefault(PropertyStore, PropertyStoreDefault)
	config.TupleBatch = int(mustParsePositive(p, PropertyTupleBatch, PropertyTupleBatchDefault))
	config.Scale = Scale{
		Warehouses: mustParsePositive(p, PropertyWarehouses, PropertyWarehousesDefault),
		Items:      mustParsePositive(p, PropertyItems, PropertyItemsDefault),
		Districts:  mustParsePositive(p, PropertyDistricts, PropertyDistrictsDefault),
		Customers:  mustParsePositive(p, PropertyCustomers, PropertyCustomersDefault),
		Orders:     mustParseCount(p, PropertyOrders, PropertyOrdersDefault),
		NewOrders:  mustParseCount(p, PropertyNewOrders, PropertyNewOrdersDefault),
		Suppliers:  mustParsePositive(p, PropertySuppliers, PropertySuppliersDefault),
		Categories: mustParsePositive(p, PropertyCategories, PropertyCategoriesDefault),
	}
	// every order belongs to a distinct customer of its district
	if config.Scale.Orders > config.Scale.Customers {
		try(g.NewErrorf("%s=%d exceeds %s=%d",
			PropertyOrders, config.Scale.Orders, PropertyCustomers, config.Scale.Customers))
	}
	if config.Scale.NewOrders > config.Scale.Orders {
		try(g.NewErrorf("%s=%d exceeds %s=%d",
			PropertyNewOrders, config.Scale.NewOrders, PropertyOrders, config.Scale.Orders))
	}
	return config, nil
}

// WriterIdentity returns the writer identity of loader routine n.
func (self *LoadConfig) WriterIdentity(n int) string {
	if self.ThreadCount == 1 {
		return self.WriterID
	}
	return fmt.Sprintf("%s_%d", self.WriterID, n)
}

// RoutineSeed returns the seed of loader routine n, or 0 for a time based
// one.
func (self *LoadConfig) RoutineSeed(n int) int64 {
	if self.Seed == 0 {
		return 0
	}
	return self.Seed + int64(n)
}

// MapperOptions returns the mapper options of this load.
func (self *LoadConfig) MapperOptions() mapper.Options {
	return mapper.Options{
		GenerateKey: self.GenerateKey,
		ExtraFields: self.ExtraFields,
	}
}

func mustParseCount(p Properties, key, defaultValue string) int64 {
	v, err := strconv.ParseInt(p.GetDefault(key, defaultValue), 0, 64)
	if err != nil {
		try(fmt.Errorf("invalid %s: %w", key, err))
	}
	if v < 0 {
		try(g.NewErrorf("invalid %s=%d, must not be negative", key, v))
	}
	return v
}

func mustParsePositive(p Properties, key, defaultValue string) int64 {
	v := mustParseCount(p, key, defaultValue)
	if v == 0 {
		try(g.NewErrorf("invalid %s=0, must be positive", key))
	}
	return v
}

func mustParseBool(p Properties, key, defaultValue string) bool {
	v, err := strconv.ParseBool(p.GetDefault(key, defaultValue))
	if err != nil {
		try(fmt.Errorf("invalid %s: %w", key, err))
	}
	return v
}
