package ch2

import (
	"testing"

	g "github.com/d-nagy/ch2/generator"
	"github.com/d-nagy/ch2/mapper"
	"github.com/d-nagy/ch2/schema"
	"github.com/hhkbp2/testify/require"
)

// mappingLoader maps every tuple it receives and counts them per table.
type mappingLoader struct {
	t      *testing.T
	mapper *mapper.Mapper
	counts map[string]int64
	docs   map[string][]*mapper.Document
}

func newMappingLoader(t *testing.T, config *LoadConfig) *mappingLoader {
	catalog, err := schema.NewCatalog(config.Variant)
	require.Nil(t, err)
	m, err := mapper.New(catalog, config.MapperOptions())
	require.Nil(t, err)
	return &mappingLoader{
		t:      t,
		mapper: m,
		counts: make(map[string]int64),
		docs:   make(map[string][]*mapper.Document),
	}
}

func (self *mappingLoader) LoadTuples(table string, tuples []schema.Tuple) error {
	for _, tuple := range tuples {
		doc, err := self.mapper.MapTuple(table, tuple)
		if err != nil {
			return err
		}
		_, err = mapper.Serialize(doc)
		require.Nil(self.t, err)
		self.docs[table] = append(self.docs[table], doc)
	}
	self.counts[table] += int64(len(tuples))
	return nil
}

func smallScaleProperties(variant string) Properties {
	p := NewProperties()
	p.Add(PropertySchema, variant)
	p.Add(PropertyWriterID, "t")
	p.Add(PropertySeed, "7")
	p.Add(PropertyStringPoolSize, "4096")
	p.Add(PropertyWarehouses, "2")
	p.Add(PropertyItems, "20")
	p.Add(PropertyDistricts, "2")
	p.Add(PropertyCustomers, "12")
	p.Add(PropertyOrders, "10")
	p.Add(PropertyNewOrders, "3")
	p.Add(PropertySuppliers, "5")
	p.Add(PropertyCategories, "4")
	p.Add(PropertyTupleBatch, "7")
	p.Add(PropertyItemExtraFields, "2")
	p.Add(PropertyCustomerExtraFields, "1")
	return p
}

func loadSmallScale(t *testing.T, variant string) (*LoadConfig, *mappingLoader) {
	config, err := NewLoadConfig(smallScaleProperties(variant))
	require.Nil(t, err)
	loader := newMappingLoader(t, config)
	r := g.NewRandom(g.WithSeed(7), g.WithPoolSize(config.PoolSize))
	workload := NewCH2Workload(config, r)
	require.Nil(t, workload.LoadShared(loader))
	for w := int64(1); w <= config.Scale.Warehouses; w++ {
		require.Nil(t, workload.LoadWarehouse(loader, w))
	}
	return config, loader
}

func TestWorkloadCardinalities(t *testing.T) {
	for _, v := range schema.Variants() {
		config, loader := loadSmallScale(t, v.String())
		s := config.Scale
		require.Equal(t, s.Items, loader.counts[schema.TableItem])
		require.Equal(t, int64(len(regionNames)), loader.counts[schema.TableRegion])
		require.Equal(t, int64(len(nations)), loader.counts[schema.TableNation])
		require.Equal(t, s.Suppliers, loader.counts[schema.TableSupplier])
		require.Equal(t, s.Warehouses, loader.counts[schema.TableWarehouse])
		require.Equal(t, s.Warehouses*s.Items, loader.counts[schema.TableStock])
		districts := s.Warehouses * s.Districts
		require.Equal(t, districts, loader.counts[schema.TableDistrict])
		require.Equal(t, districts*s.Customers, loader.counts[schema.TableCustomer])
		require.Equal(t, districts*s.Customers, loader.counts[schema.TableHistory])
		require.Equal(t, districts*s.Orders, loader.counts[schema.TableOrders])
		require.Equal(t, districts*s.NewOrders, loader.counts[schema.TableNewOrder])
		if v == schema.VariantFlattened {
			require.True(t, loader.counts[schema.TableOrderLine] >= districts*s.Orders*minOrderLines)
			require.True(t, loader.counts[schema.TableOrderLine] <= districts*s.Orders*maxOrderLines)
		} else {
			require.Equal(t, int64(0), loader.counts[schema.TableOrderLine])
		}
	}
}

func TestWorkloadUndeliveredOrders(t *testing.T) {
	_, loader := loadSmallScale(t, "CH2")
	undelivered := 0
	for _, doc := range loader.docs[schema.TableOrders] {
		carrier, ok := doc.Get("o_carrier_id")
		require.True(t, ok)
		if carrier == nil {
			undelivered++
		}
	}
	// 3 new orders in each of 2 districts of 2 warehouses
	require.Equal(t, 12, undelivered)
}

func TestWorkloadOrdersHaveDistinctCustomers(t *testing.T) {
	config, loader := loadSmallScale(t, "CH2")
	perDistrict := make(map[[2]interface{}]map[interface{}]bool)
	for _, doc := range loader.docs[schema.TableOrders] {
		w, _ := doc.Get("o_w_id")
		d, _ := doc.Get("o_d_id")
		c, _ := doc.Get("o_c_id")
		k := [2]interface{}{w, d}
		if perDistrict[k] == nil {
			perDistrict[k] = make(map[interface{}]bool)
		}
		require.False(t, perDistrict[k][c])
		perDistrict[k][c] = true
	}
	require.Equal(t, int(config.Scale.Warehouses*config.Scale.Districts), len(perDistrict))
}

func TestWorkloadSequentialLastNames(t *testing.T) {
	_, loader := loadSmallScale(t, "CH2")
	doc := loader.docs[schema.TableCustomer][0]
	last, ok := doc.Get("c_last")
	require.True(t, ok)
	require.Equal(t, g.LastName(0), last)
}

func TestTupleBufferFlushesAtCapacity(t *testing.T) {
	config, err := NewLoadConfig(smallScaleProperties("CH2"))
	require.Nil(t, err)
	loader := newMappingLoader(t, config)
	buf := newTupleBuffer(loader, schema.TableNewOrder, 2)
	require.Nil(t, buf.add(schema.Tuple{int64(1), int64(1), int64(1)}))
	require.Equal(t, int64(0), loader.counts[schema.TableNewOrder])
	require.Nil(t, buf.add(schema.Tuple{int64(2), int64(1), int64(1)}))
	require.Equal(t, int64(2), loader.counts[schema.TableNewOrder])
	require.Nil(t, buf.flush())
	require.Equal(t, int64(2), loader.counts[schema.TableNewOrder])
}
