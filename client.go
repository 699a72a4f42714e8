package ch2

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	g "github.com/d-nagy/ch2/generator"
	"github.com/d-nagy/ch2/mapper"
	"github.com/d-nagy/ch2/schema"
	"golang.org/x/sync/errgroup"
)

type Client interface {
	Main()
}

type MakeWorkloadFunc func(config *LoadConfig, r *g.Random) Workload

// LoadClient generates a whole CH2 database. It runs one loader routine per
// configured thread; routine n loads warehouses n+1, n+1+threadcount, ...
// and routine 0 also loads the tables no warehouse owns.
type LoadClient struct {
	args         *Arguments
	makeWorkload MakeWorkloadFunc
	measurements *DefaultMeasurements
}

func NewLoadClient(args *Arguments) *LoadClient {
	return &LoadClient{
		args: args,
		makeWorkload: func(config *LoadConfig, r *g.Random) Workload {
			return NewCH2Workload(config, r)
		},
	}
}

func (self *LoadClient) Main() {
	if err := self.Run(context.Background()); err != nil {
		ExitOnError("load failed: %s", err)
	}
}

func randomOptions(config *LoadConfig, n int) []g.Option {
	opts := []g.Option{g.WithPoolSize(config.PoolSize)}
	if seed := config.RoutineSeed(n); seed != 0 {
		opts = append(opts, g.WithSeed(seed))
	}
	return opts
}

func (self *LoadClient) Run(ctx context.Context) error {
	props := self.args.Properties
	if err := SetLogLevel(props.GetDefault(PropertyLogLevel, PropertyLogLevelDefault)); err != nil {
		return err
	}
	config, err := NewLoadConfig(props)
	if err != nil {
		return err
	}
	catalog, err := schema.NewCatalog(config.Variant)
	if err != nil {
		return err
	}
	m, err := mapper.New(catalog, config.MapperOptions())
	if err != nil {
		return err
	}
	self.measurements, err = NewDefaultMeasurements(props)
	if err != nil {
		return err
	}
	// every routine draws its NURand numbers with the same load constants
	nurand := g.NewNURandForLoad(g.NewRandom(randomOptions(config, config.ThreadCount)...))
	Infof("loading %d warehouses as %s with %d routines, schema %s, %s",
		config.Scale.Warehouses, config.WriterID, config.ThreadCount, config.Variant, nurand)

	start := time.Now()
	group, ctx := errgroup.WithContext(ctx)
	for n := 0; n < config.ThreadCount; n++ {
		n := n
		group.Go(func() error {
			return self.loadRoutine(ctx, config, m, nurand, n)
		})
	}
	err = group.Wait()
	Infof("load finished in %s", time.Since(start).Round(time.Millisecond))
	if exportErr := self.exportMeasurements(props); exportErr != nil {
		Errorf("fail to export measurements: %s", exportErr)
	}
	return err
}

func (self *LoadClient) loadRoutine(
	ctx context.Context, config *LoadConfig, m *mapper.Mapper, nurand *g.NURandContext, n int) (err error) {

	identity := config.WriterIdentity(n)
	store, err := NewStore(config.Store, self.args.Properties)
	if err != nil {
		return err
	}
	if err = store.Init(); err != nil {
		return fmt.Errorf("init %s store of %s: %w", config.Store, identity, err)
	}
	defer func() {
		if cleanupErr := store.Cleanup(); cleanupErr != nil && err == nil {
			err = cleanupErr
		}
	}()

	random := g.NewRandom(randomOptions(config, n)...)
	random.SetNURand(nurand)
	writer := NewBatchWriter(store, identity, config.BatchSize)
	driver := NewDocGenDriver(m, writer, config.AbortOnError)
	driver.SetMeasurements(self.measurements)
	workload := self.makeWorkload(config, random)

	start := time.Now()
	Infof("writer %s started", identity)
	if n == 0 {
		if err = workload.LoadShared(driver); err != nil {
			return err
		}
	}
	for w := int64(n) + 1; w <= config.Scale.Warehouses; w += int64(config.ThreadCount) {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = workload.LoadWarehouse(driver, w); err != nil {
			return err
		}
	}
	finishErr := driver.LoadFinish()
	self.measurements.MeasureSince(OperationLoad, start)
	documents, failures := driver.Stats()
	Infof("writer %s generated %d documents in %s, %d failed flushes",
		identity, documents, time.Since(start).Round(time.Millisecond), failures)
	if finishErr != nil && config.AbortOnError {
		self.measurements.ReportStatus(OperationLoad, StatusError)
		return finishErr
	}
	self.measurements.ReportStatus(OperationLoad, StatusOK)
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func (self *LoadClient) exportMeasurements(props Properties) error {
	var out io.WriteCloser
	if path := props.Get(PropertyExportFile); len(path) > 0 {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		out = f
	} else {
		out = nopWriteCloser{OutputDest}
	}
	exporter, err := NewMeasurementExporter(
		props.GetDefault(PropertyExporter, PropertyExporterDefault), out)
	if err != nil {
		out.Close()
		return err
	}
	err = self.measurements.ExportMeasurements(exporter)
	if closeErr := exporter.Close(); err == nil {
		err = closeErr
	}
	return err
}

// DescribeClient prints the document shape of every table for the
// configured schema variant.
type DescribeClient struct {
	args *Arguments
}

func NewDescribeClient(args *Arguments) *DescribeClient {
	return &DescribeClient{
		args: args,
	}
}

func (self *DescribeClient) Main() {
	if err := self.Run(); err != nil {
		ExitOnError("describe failed: %s", err)
	}
}

func (self *DescribeClient) Run() error {
	config, err := NewLoadConfig(self.args.Properties)
	if err != nil {
		return err
	}
	catalog, err := schema.NewCatalog(config.Variant)
	if err != nil {
		return err
	}
	m, err := mapper.New(catalog, config.MapperOptions())
	if err != nil {
		return err
	}
	tables := make([]string, 0)
	if only := self.args.Properties.Get(PropertyDescribeTable); len(only) > 0 {
		tables = append(tables, strings.ToUpper(only))
	} else {
		for _, table := range catalog.Tables() {
			if !schema.IsSubSchema(table) {
				tables = append(tables, table)
			}
		}
		sort.Strings(tables)
	}
	Println("schema %s", config.Variant)
	for _, table := range tables {
		shape, err := m.Shape(table)
		if err != nil {
			return err
		}
		Println("%s (%d fields)", table, len(shape))
		for _, path := range shape {
			Println("  %s", path)
		}
	}
	return nil
}
