package ch2

const (
	// Loader
	// The document shape: CH2, CH2P, CH2PP or CH2PPF.
	PropertySchema        = "schema"
	PropertySchemaDefault = "CH2"
	// Bytes buffered per table before a batch is flushed to a new unit.
	PropertyBatchSize        = "bulkload.batchsize"
	PropertyBatchSizeDefault = "1048576"
	// Whether a loader routine gives up on the first failed flush.
	PropertyAbortOnError        = "bulkload.abortonerror"
	PropertyAbortOnErrorDefault = "false"
	// The number of extra fields unrolled per customer, order and item.
	PropertyCustomerExtraFields = "customer.extrafields"
	PropertyOrdersExtraFields   = "orders.extrafields"
	PropertyItemExtraFields     = "item.extrafields"
	PropertyExtraFieldsDefault  = "0"
	// Prefix of every output unit written by this process. A random one is
	// chosen when unset.
	PropertyWriterID = "writer.id"
	// Whether documents carry the derived "key" field.
	PropertyGenerateKey        = "generatekey"
	PropertyGenerateKeyDefault = "true"
	// The number of loader routines to run.
	PropertyThreadCount        = "threadcount"
	PropertyThreadCountDefault = "1"
	// Seed of the random source, 0 for a time based one.
	PropertySeed        = "seed"
	PropertySeedDefault = "0"
	// Size of each buffered string pool, in characters.
	PropertyStringPoolSize        = "random.poolsize"
	PropertyStringPoolSizeDefault = "4194304"

	// Store
	PropertyStore        = "store"
	PropertyStoreDefault = "file"
	// Directory the file store writes its units to.
	PropertyOutputDir        = "output.dir"
	PropertyOutputDirDefault = "/tmp/tpcc-tables"
	// Whether the file store overwrites a unit that already exists.
	PropertyOutputOverwrite        = "output.overwrite"
	PropertyOutputOverwriteDefault = "true"
	ConfigBasicStoreVerbose        = "basicstore.verbose"
	ConfigBasicStoreVerboseDefault = "false"
	ConfigSimulateDelay            = "basicstore.simulatedelay"
	ConfigSimulateDelayDefault     = "0"
	ConfigRandomizeDelay           = "basicstore.randomizedelay"
	ConfigRandomizeDelayDefault    = "true"

	// Workload scale, TPC-C 1.4 cardinalities by default.
	PropertyWarehouses        = "warehouses"
	PropertyWarehousesDefault = "1"
	PropertyItems             = "items"
	PropertyItemsDefault      = "100000"
	PropertyDistricts         = "districts"
	PropertyDistrictsDefault  = "10"
	PropertyCustomers         = "customers"
	PropertyCustomersDefault  = "3000"
	PropertyOrders            = "orders"
	PropertyOrdersDefault     = "3000"
	PropertyNewOrders         = "neworders"
	PropertyNewOrdersDefault  = "900"
	PropertySuppliers         = "suppliers"
	PropertySuppliersDefault  = "10000"
	PropertyCategories        = "categories"
	PropertyCategoriesDefault = "100"
	// Tuples handed to the driver per call.
	PropertyTupleBatch        = "tuplebatch"
	PropertyTupleBatchDefault = "500"

	// Client
	PropertyLogLevel        = "log.level"
	PropertyLogLevelDefault = "info"
	// The exporter class to be used. The default is TextMeasurementExporter.
	PropertyExporter        = "exporter"
	PropertyExporterDefault = "TextMeasurementExporter"
	// If set to the path of a file, this file will be written instead of stdout.
	PropertyExportFile = "exportfile"
	// Restricts the describe command to one table.
	PropertyDescribeTable = "describe.table"

	// measurement
	PropertyMeasurementType        = "measurementtype"
	PropertyMeasurementTypeDefault = "hdrhistogram"
	Buckets                        = "histogram.buckets"
	BucketsDefault                 = "1000"
	// The name of the property for deciding what percentile values to output.
	PropertyPercentiles = "hdrhistogram.percentiles"
	// The default value of `PropertyPercentiles`
	PropertyPercentilesDefault = "95,99"
	// Highest trackable latency in microseconds.
	PropertyHdrHistogramMax        = "hdrhistogram.max"
	PropertyHdrHistogramMaxDefault = "60000000"
	// Number of significant value digits kept by the histogram.
	PropertyHdrHistogramSig        = "hdrhistogram.sig"
	PropertyHdrHistogramSigDefault = "3"
)
