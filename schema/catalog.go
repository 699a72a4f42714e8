package schema

import (
	"fmt"
	"sort"
)

const (
	TableWarehouse = "WAREHOUSE"
	TableDistrict  = "DISTRICT"
	TableItem      = "ITEM"
	TableCustomer  = "CUSTOMER"
	TableHistory   = "HISTORY"
	TableStock     = "STOCK"
	TableOrders    = "ORDERS"
	TableNewOrder  = "NEW_ORDER"
	TableOrderLine = "ORDER_LINE"
	TableSupplier  = "SUPPLIER"
	TableNation    = "NATION"
	TableRegion    = "REGION"

	// sub-schemas of nested columns
	TableWarehouseAddress  = "WAREHOUSE_ADDRESS"
	TableDistrictAddress   = "DISTRICT_ADDRESS"
	TableSupplierAddress   = "SUPPLIER_ADDRESS"
	TableCustomerName      = "CUSTOMER_NAME"
	TableCustomerAddresses = "CUSTOMER_ADDRESSES"
	TableCustomerPhones    = "CUSTOMER_PHONES"
)

// Tuple is one record of one table: value i belongs to column i.
type Tuple []interface{}

var (
	subSchemas = map[string]bool{
		TableWarehouseAddress:  true,
		TableDistrictAddress:   true,
		TableSupplierAddress:   true,
		TableCustomerName:      true,
		TableCustomerAddresses: true,
		TableCustomerPhones:    true,
	}

	orderLineColumns = []string{
		"ol_o_id", "ol_d_id", "ol_w_id", "ol_number", "ol_i_id", "ol_supply_w_id",
		"ol_delivery_d", "ol_quantity", "ol_amount", "ol_dist_info",
	}
	itemColumns = []string{
		"i_id", "i_im_id", "i_name", "i_price", "i_data", "i_categories", "i_extra",
	}
	historyColumns = []string{
		"h_c_id", "h_c_d_id", "h_c_w_id", "h_d_id", "h_w_id", "h_date", "h_amount", "h_data",
	}
	ordersColumns = []string{
		"o_id", "o_d_id", "o_w_id", "o_c_id", "o_entry_d", "o_carrier_id", "o_ol_cnt",
		"o_all_local", "o_orderline", "o_extra",
	}
	newOrderColumns = []string{"no_o_id", "no_d_id", "no_w_id"}
	nationColumns   = []string{"n_nationkey", "n_name", "n_regionkey", "n_comment"}
	regionColumns   = []string{"r_regionkey", "r_name", "r_comment"}

	ch2Columns = map[string][]string{
		TableWarehouse: {
			"w_id", "w_name", "w_street_1", "w_street_2", "w_city", "w_state", "w_zip",
			"w_tax", "w_ytd",
		},
		TableDistrict: {
			"d_id", "d_w_id", "d_name", "d_street_1", "d_street_2", "d_city", "d_state",
			"d_zip", "d_tax", "d_ytd", "d_next_o_id",
		},
		TableItem: itemColumns,
		TableCustomer: {
			"c_id", "c_d_id", "c_w_id", "c_first", "c_middle", "c_last", "c_street_1",
			"c_street_2", "c_city", "c_state", "c_zip", "c_phone", "c_since", "c_credit",
			"c_credit_lim", "c_discount", "c_balance", "c_ytd_payment", "c_payment_cnt",
			"c_delivery_cnt", "c_data", "c_item_categories", "c_extra",
		},
		TableHistory: historyColumns,
		TableStock: {
			"s_i_id", "s_w_id", "s_quantity", "s_dist_01", "s_dist_02", "s_dist_03",
			"s_dist_04", "s_dist_05", "s_dist_06", "s_dist_07", "s_dist_08", "s_dist_09",
			"s_dist_10", "s_ytd", "s_order_cnt", "s_remote_cnt", "s_data",
		},
		TableOrders:    ordersColumns,
		TableNewOrder:  newOrderColumns,
		TableOrderLine: orderLineColumns,
		TableSupplier: {
			"su_suppkey", "su_name", "su_address", "su_nationkey", "su_phone",
			"su_acctbal", "su_comment",
		},
		TableNation: nationColumns,
		TableRegion: regionColumns,
	}

	ch2ppColumns = map[string][]string{
		TableWarehouse: {"w_id", "w_name", "w_address", "w_tax", "w_ytd"},
		TableWarehouseAddress: {
			"w_street_1", "w_street_2", "w_city", "w_state", "w_zip",
		},
		TableDistrict: {
			"d_id", "d_w_id", "d_name", "d_address", "d_tax", "d_ytd", "d_next_o_id",
		},
		TableDistrictAddress: {
			"d_street_1", "d_street_2", "d_city", "d_state", "d_zip",
		},
		TableItem: itemColumns,
		TableCustomer: {
			"c_id", "c_d_id", "c_w_id", "c_name", "c_addresses", "c_phones", "c_email",
			"c_since", "c_credit", "c_credit_lim", "c_discount", "c_balance",
			"c_ytd_payment", "c_payment_cnt", "c_delivery_cnt", "c_data",
			"c_item_categories", "c_extra",
		},
		TableCustomerName: {"c_first", "c_middle", "c_last"},
		TableCustomerAddresses: {
			"c_address_kind", "c_street_1", "c_street_2", "c_city", "c_state", "c_zip",
		},
		TableCustomerPhones: {"c_phone_kind", "c_phone_number"},
		TableHistory:        historyColumns,
		TableStock: {
			"s_i_id", "s_w_id", "s_quantity", "s_dists", "s_ytd", "s_order_cnt",
			"s_remote_cnt", "s_data",
		},
		TableOrders:    ordersColumns,
		TableNewOrder:  newOrderColumns,
		TableOrderLine: orderLineColumns,
		TableSupplier: {
			"su_suppkey", "su_name", "su_address", "su_nationkey", "su_phone",
			"su_acctbal", "su_comment",
		},
		TableSupplierAddress: {"su_street", "su_city", "su_state", "su_zip"},
		TableNation:          nationColumns,
		TableRegion:          regionColumns,
	}

	keyNames = map[string][]string{
		TableWarehouse: {"w_id"},
		TableDistrict:  {"d_w_id", "d_id"},
		TableItem:      {"i_id"},
		TableCustomer:  {"c_w_id", "c_d_id", "c_id"},
		TableHistory:   {"h_c_w_id", "h_c_d_id", "h_c_id", "h_date"},
		TableStock:     {"s_w_id", "s_i_id"},
		TableOrders:    {"o_w_id", "o_d_id", "o_id"},
		TableNewOrder:  {"no_w_id", "no_d_id", "no_o_id"},
		TableOrderLine: {"ol_w_id", "ol_d_id", "ol_o_id", "ol_number"},
		TableSupplier:  {"su_suppkey"},
		TableNation:    {"n_nationkey"},
		TableRegion:    {"r_regionkey"},
	}
)

// IsSubSchema reports whether table only describes the inside of a nested
// column and is never loaded on its own.
func IsSubSchema(table string) bool {
	return subSchemas[table]
}

// ColumnsFor returns the ordered column names of table under variant.
// The nested variant uses the relational CH2 columns, every other variant
// the CH2PP columns.
func ColumnsFor(table string, variant Variant) ([]string, bool) {
	var columns []string
	var ok bool
	if variant == VariantNested {
		columns, ok = ch2Columns[table]
	} else {
		columns, ok = ch2ppColumns[table]
	}
	return columns, ok
}

// KeyColumnsFor returns the key columns of table, in key order.
func KeyColumnsFor(table string) []string {
	return keyNames[table]
}

// Catalog is the read-only table description the mapper consults.
type Catalog interface {
	Variant() Variant
	// Tables returns every table name, sub-schemas included.
	Tables() []string
	Columns(table string) ([]string, bool)
	KeyColumns(table string) []string
}

type StaticCatalog struct {
	variant Variant
	tables  []string
	columns map[string][]string
	keys    map[string][]string
}

// NewStaticCatalog builds a catalog from explicit column and key maps.
func NewStaticCatalog(variant Variant, columns, keys map[string][]string) *StaticCatalog {
	tables := make([]string, 0, len(columns))
	for name := range columns {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	if keys == nil {
		keys = make(map[string][]string)
	}
	return &StaticCatalog{
		variant: variant,
		tables:  tables,
		columns: columns,
		keys:    keys,
	}
}

// NewCatalog returns the CH2 catalog for variant.
func NewCatalog(variant Variant) (*StaticCatalog, error) {
	if _, ok := variantNames[variant]; !ok {
		return nil, fmt.Errorf("unknown schema variant: %s", variant)
	}
	source := ch2ppColumns
	if variant == VariantNested {
		source = ch2Columns
	}
	columns := make(map[string][]string, len(source))
	for name := range source {
		columns[name], _ = ColumnsFor(name, variant)
	}
	return NewStaticCatalog(variant, columns, keyNames), nil
}

func (self *StaticCatalog) Variant() Variant {
	return self.variant
}

func (self *StaticCatalog) Tables() []string {
	return self.tables
}

func (self *StaticCatalog) Columns(table string) ([]string, bool) {
	columns, ok := self.columns[table]
	return columns, ok
}

func (self *StaticCatalog) KeyColumns(table string) []string {
	return self.keys[table]
}
