package ch2

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	g "github.com/d-nagy/ch2/generator"
)

// Names of the measured operations.
const (
	OperationMap   = "MAP"
	OperationFlush = "FLUSH"
	OperationLoad  = "LOAD"
)

type MeasurementType uint8

const (
	MeasurementHistogram MeasurementType = 1 + iota
	MeasurementHDRHistogram
)

type StatusType uint8

const (
	StatusOK StatusType = 1 + iota
	StatusError
	StatusBadRequest
	StatusServiceUnavailable
)

func (self StatusType) String() string {
	switch self {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN_STATUS"
	}
}

// MeasurementExporter writes collected measurements in some format, for
// example human readable text or machine readable JSON.
type MeasurementExporter interface {
	// Write one measurement; v is an integer or a float64.
	Write(metric string, measurement string, v interface{}) error
	io.Closer
}

type MakeMeasurementExporterFunc func(w io.WriteCloser) MeasurementExporter

var (
	MeasurementExporters = map[string]MakeMeasurementExporterFunc{
		"TextMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewTextMeasurementExporter(w)
		},
		"JSONMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONMeasurementExporter(w)
		},
		"JSONArrayMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONArrayMeasurementExporter(w)
		},
	}
)

func NewMeasurementExporter(className string, w io.WriteCloser) (MeasurementExporter, error) {
	f, ok := MeasurementExporters[className]
	if !ok {
		return nil, g.NewErrorf("unsupported measurement exporter: %s", className)
	}
	return f(w), nil
}

// OneMeasurement is a single measured metric, such as FLUSH latency.
type OneMeasurement interface {
	Measure(latency int64)
	GetName() string
	GetSummary() string
	ReportStatus(status StatusType)
	ExportMeasurements(exporter MeasurementExporter) error
}

type OneMeasurementBase struct {
	Name            string
	MeasureLock     *sync.Mutex
	ReturnCodes     map[StatusType]uint32
	ReturnCodesLock *sync.Mutex
}

func NewOneMeasurementBase(name string) *OneMeasurementBase {
	return &OneMeasurementBase{
		Name:            name,
		MeasureLock:     &sync.Mutex{},
		ReturnCodes:     make(map[StatusType]uint32),
		ReturnCodesLock: &sync.Mutex{},
	}
}

func (self *OneMeasurementBase) GetName() string {
	return self.Name
}

func (self *OneMeasurementBase) ReportStatus(status StatusType) {
	self.ReturnCodesLock.Lock()
	defer self.ReturnCodesLock.Unlock()
	self.ReturnCodes[status]++
}

// StatusCount returns how many times status was reported.
func (self *OneMeasurementBase) StatusCount(status StatusType) uint32 {
	self.ReturnCodesLock.Lock()
	defer self.ReturnCodesLock.Unlock()
	return self.ReturnCodes[status]
}

func (self *OneMeasurementBase) ExportStatusCounts(exporter MeasurementExporter) error {
	self.ReturnCodesLock.Lock()
	statuses := make([]StatusType, 0, len(self.ReturnCodes))
	for status := range self.ReturnCodes {
		statuses = append(statuses, status)
	}
	self.ReturnCodesLock.Unlock()
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	for _, status := range statuses {
		err := exporter.Write(self.GetName(), fmt.Sprintf("Return=%s", status), self.StatusCount(status))
		if err != nil {
			return err
		}
	}
	return nil
}

// Measurements collects latencies per operation and reports them when
// requested. One instance is shared by all loader routines.
type Measurements interface {
	// Measure reports one latency, in microseconds, of operation.
	Measure(operation string, latency int64)
	MeasureSince(operation string, start time.Time)
	GetSummary() string
	ReportStatus(operation string, status StatusType)
	ExportMeasurements(exporter MeasurementExporter) error
}

type DefaultMeasurements struct {
	props              Properties
	measurementType    MeasurementType
	opToMeasurementMap map[string]OneMeasurement
	lock               *sync.RWMutex
}

func NewDefaultMeasurements(props Properties) (*DefaultMeasurements, error) {
	var measurementType MeasurementType
	propStr := props.GetDefault(PropertyMeasurementType, PropertyMeasurementTypeDefault)
	switch propStr {
	case "histogram":
		measurementType = MeasurementHistogram
	case "hdrhistogram":
		measurementType = MeasurementHDRHistogram
	default:
		return nil, g.NewErrorf("unknown %s=%s", PropertyMeasurementType, propStr)
	}
	// fail early on bad measurement properties
	if _, err := newOneMeasurement(measurementType, "", props); err != nil {
		return nil, err
	}
	return &DefaultMeasurements{
		props:              props,
		measurementType:    measurementType,
		opToMeasurementMap: make(map[string]OneMeasurement),
		lock:               &sync.RWMutex{},
	}, nil
}

func newOneMeasurement(t MeasurementType, name string, props Properties) (OneMeasurement, error) {
	switch t {
	case MeasurementHistogram:
		return NewOneMeasurementHistogram(name, props)
	case MeasurementHDRHistogram:
		return NewOneMeasurementHdrHistogram(name, props)
	default:
		panic("impossible to be here. Dead code reached. Bugs?")
	}
}

func MustNewMeasurement(m OneMeasurement, err error) OneMeasurement {
	if err != nil {
		panic(fmt.Sprintf("unexpected error: %s", err))
	}
	return m
}

func (self *DefaultMeasurements) Measure(operation string, latency int64) {
	self.getOpMeasurement(operation).Measure(latency)
}

// MeasureSince reports the time elapsed since start for operation.
func (self *DefaultMeasurements) MeasureSince(operation string, start time.Time) {
	self.Measure(operation, NanosecondToMicrosecond(int64(time.Since(start))))
}

func (self *DefaultMeasurements) GetSummary() string {
	parts := make([]string, 0)
	for _, m := range self.sorted() {
		if s := m.GetSummary(); len(s) > 0 {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (self *DefaultMeasurements) ReportStatus(operation string, status StatusType) {
	self.getOpMeasurement(operation).ReportStatus(status)
}

func (self *DefaultMeasurements) ExportMeasurements(exporter MeasurementExporter) (err error) {
	defer catch(&err)
	for _, m := range self.sorted() {
		try(m.ExportMeasurements(exporter))
	}
	return
}

func (self *DefaultMeasurements) sorted() []OneMeasurement {
	self.lock.RLock()
	defer self.lock.RUnlock()
	names := make([]string, 0, len(self.opToMeasurementMap))
	for name := range self.opToMeasurementMap {
		names = append(names, name)
	}
	sort.Strings(names)
	ret := make([]OneMeasurement, 0, len(names))
	for _, name := range names {
		ret = append(ret, self.opToMeasurementMap[name])
	}
	return ret
}

func (self *DefaultMeasurements) getOpMeasurement(operation string) OneMeasurement {
	self.lock.RLock()
	m, ok := self.opToMeasurementMap[operation]
	self.lock.RUnlock()
	if ok {
		return m
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if m, ok = self.opToMeasurementMap[operation]; !ok {
		m = MustNewMeasurement(newOneMeasurement(self.measurementType, operation, self.props))
		self.opToMeasurementMap[operation] = m
	}
	return m
}

// TextMeasurementExporter writes one "[metric], measurement, value" line
// per measurement.
type TextMeasurementExporter struct {
	io.WriteCloser
	buf *bufio.Writer
}

func NewTextMeasurementExporter(w io.WriteCloser) *TextMeasurementExporter {
	return &TextMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
	}
}

func (self *TextMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	_, err := fmt.Fprintf(self.buf, "[%s], %s, %v\n", metric, measurement, v)
	return err
}

func (self *TextMeasurementExporter) Close() error {
	err := self.buf.Flush()
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

type innerJSONMeasurement struct {
	Metric      string      `json:"metric"`
	Measurement string      `json:"measurement"`
	Value       interface{} `json:"value"`
}

// JSONMeasurementExporter writes one JSON object per line.
type JSONMeasurementExporter struct {
	io.WriteCloser
	buf *bufio.Writer
}

func NewJSONMeasurementExporter(w io.WriteCloser) *JSONMeasurementExporter {
	return &JSONMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
	}
}

func (self *JSONMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	b, err := json.Marshal(&innerJSONMeasurement{
		Metric:      metric,
		Measurement: measurement,
		Value:       v,
	})
	if err != nil {
		return err
	}
	if _, err = self.buf.Write(b); err != nil {
		return err
	}
	return self.buf.WriteByte('\n')
}

func (self *JSONMeasurementExporter) Close() error {
	err := self.buf.Flush()
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

// JSONArrayMeasurementExporter writes a single JSON array of measurement
// objects.
type JSONArrayMeasurementExporter struct {
	io.WriteCloser
	buf        *bufio.Writer
	afterFirst bool
}

func NewJSONArrayMeasurementExporter(w io.WriteCloser) *JSONArrayMeasurementExporter {
	object := &JSONArrayMeasurementExporter{
		WriteCloser: w,
		buf:         bufio.NewWriter(w),
	}
	object.buf.WriteString("[")
	return object
}

func (self *JSONArrayMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	b, err := json.Marshal(&innerJSONMeasurement{
		Metric:      metric,
		Measurement: measurement,
		Value:       v,
	})
	if err != nil {
		return err
	}
	if self.afterFirst {
		if _, err = self.buf.WriteString(","); err != nil {
			return err
		}
	} else {
		self.afterFirst = true
	}
	_, err = self.buf.Write(b)
	return err
}

func (self *JSONArrayMeasurementExporter) Close() error {
	if _, err := self.buf.WriteString("]"); err != nil {
		return err
	}
	err := self.buf.Flush()
	err2 := self.WriteCloser.Close()
	if err != nil {
		return err
	}
	return err2
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func catch(err *error) {
	if p := recover(); p != nil {
		e, ok := p.(error)
		if !ok {
			panic(p)
		}
		*err = e
	}
}

// OneMeasurementHistogram keeps a histogram of latencies in 1ms buckets.
type OneMeasurementHistogram struct {
	*OneMeasurementBase
	buckets int64
	// operations per millisecond of latency
	histogram []int64
	// operations beyond the last bucket
	histogramOverflow   int64
	operations          int64
	totalLatency        int64
	totalSquaredLatency float64
	windowOperations    int64
	windowTotalLatency  int64
	min                 int64
	max                 int64
}

func NewOneMeasurementHistogram(name string, props Properties) (*OneMeasurementHistogram, error) {
	buckets, err := strconv.ParseInt(props.GetDefault(Buckets, BucketsDefault), 0, 64)
	if err != nil {
		return nil, err
	}
	if buckets <= 0 {
		return nil, g.NewErrorf("invalid %s=%d", Buckets, buckets)
	}
	object := &OneMeasurementHistogram{
		OneMeasurementBase: NewOneMeasurementBase(name),
		buckets:            buckets,
		histogram:          make([]int64, buckets),
		min:                -1,
		max:                -1,
	}
	return object, nil
}

func (self *OneMeasurementHistogram) Measure(latency int64) {
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()

	// latency reported in us and collected in buckets by ms.
	bucket := latency / 1000
	if bucket >= self.buckets {
		self.histogramOverflow++
	} else {
		self.histogram[bucket]++
	}
	self.operations++
	self.totalLatency += latency
	self.totalSquaredLatency += math.Pow(float64(latency), 2.0)
	self.windowOperations++
	self.windowTotalLatency += latency

	if (self.min < 0) || (latency < self.min) {
		self.min = latency
	}
	if (self.max < 0) || (latency > self.max) {
		self.max = latency
	}
}

func (self *OneMeasurementHistogram) GetSummary() string {
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()
	if self.windowOperations == 0 {
		return ""
	}
	report := float64(self.windowTotalLatency) / float64(self.windowOperations)
	self.windowOperations = 0
	self.windowTotalLatency = 0
	return fmt.Sprintf("[%s AverageLatency(us)=%.2f]", self.GetName(), report)
}

func (self *OneMeasurementHistogram) ExportMeasurements(exporter MeasurementExporter) (err error) {
	defer catch(&err)
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()
	name := self.GetName()
	try(exporter.Write(name, "Operations", self.operations))
	if self.operations > 0 {
		mean := float64(self.totalLatency) / float64(self.operations)
		variance := self.totalSquaredLatency/float64(self.operations) - math.Pow(mean, 2.0)
		try(exporter.Write(name, "AverageLatency(us)", mean))
		try(exporter.Write(name, "LatencyVariance(us)", variance))
		try(exporter.Write(name, "MinLatency(us)", self.min))
		try(exporter.Write(name, "MaxLatency(us)", self.max))
		opCounter := int64(0)
		done95th := false
		for i := int64(0); i < self.buckets; i++ {
			opCounter += self.histogram[i]
			percentage := float64(opCounter) / float64(self.operations)
			if !done95th && percentage >= 0.95 {
				try(exporter.Write(name, "95thPercentileLatency(us)", i*1000))
				done95th = true
			}
			if percentage >= 0.99 {
				try(exporter.Write(name, "99thPercentileLatency(us)", i*1000))
				break
			}
		}
	}
	try(self.ExportStatusCounts(exporter))
	try(exporter.Write(name, fmt.Sprintf(">%d", self.buckets), self.histogramOverflow))
	return
}

// OneMeasurementHdrHistogram keeps an HdrHistogram of a metric.
type OneMeasurementHdrHistogram struct {
	*OneMeasurementBase
	histogram   *hdrhistogram.Histogram
	max         int64
	overflow    int64
	percentiles []int64
}

func parsePercentileValues(prop, defaultValue string) []int64 {
	parts := strings.Split(prop, ",")
	ret := make([]int64, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.ParseInt(strings.TrimSpace(p), 0, 64)
		if err != nil {
			return parsePercentileValues(defaultValue, defaultValue)
		}
		ret = append(ret, i)
	}
	return ret
}

func NewOneMeasurementHdrHistogram(name string, props Properties) (*OneMeasurementHdrHistogram, error) {
	prop := props.GetDefault(PropertyPercentiles, PropertyPercentilesDefault)
	percentiles := parsePercentileValues(prop, PropertyPercentilesDefault)
	prop = props.GetDefault(PropertyHdrHistogramMax, PropertyHdrHistogramMaxDefault)
	max, err := strconv.ParseInt(prop, 0, 64)
	if err != nil {
		return nil, err
	}
	prop = props.GetDefault(PropertyHdrHistogramSig, PropertyHdrHistogramSigDefault)
	sig, err := strconv.ParseInt(prop, 0, 64)
	if err != nil {
		return nil, err
	}
	if max < 1 || sig < 1 || sig > 5 {
		return nil, g.NewErrorf("invalid hdrhistogram range max=%d sig=%d", max, sig)
	}
	object := &OneMeasurementHdrHistogram{
		OneMeasurementBase: NewOneMeasurementBase(name),
		histogram:          hdrhistogram.New(0, max, int(sig)),
		max:                max,
		percentiles:        percentiles,
	}
	return object, nil
}

// Measure records latency in microseconds. Values past the trackable
// maximum are clamped to it and counted.
func (self *OneMeasurementHdrHistogram) Measure(latency int64) {
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()

	if latency > self.max {
		self.overflow++
		latency = self.max
	}
	self.histogram.RecordValue(latency)
}

func (self *OneMeasurementHdrHistogram) Count() int64 {
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()
	return self.histogram.TotalCount()
}

func (self *OneMeasurementHdrHistogram) GetSummary() string {
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()
	if self.histogram.TotalCount() == 0 {
		return ""
	}
	format := "[%s: Count=%d, Max=%d, Min=%d, Avg=%.2f, 90=%d, 99=%d, 99.9=%d]"
	return fmt.Sprintf(format,
		self.GetName(),
		self.histogram.TotalCount(),
		self.histogram.Max(),
		self.histogram.Min(),
		self.histogram.Mean(),
		self.histogram.ValueAtQuantile(90),
		self.histogram.ValueAtQuantile(99),
		self.histogram.ValueAtQuantile(99.9))
}

var (
	Suffixes = []string{"th", "st", "nd", "rd", "th", "th", "th", "th", "th", "th"}
)

func ordinal(p int64) string {
	switch p % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", p)
	default:
		return fmt.Sprintf("%d%s", p, Suffixes[p%10])
	}
}

func (self *OneMeasurementHdrHistogram) ExportMeasurements(exporter MeasurementExporter) (err error) {
	defer catch(&err)
	self.MeasureLock.Lock()
	defer self.MeasureLock.Unlock()

	name := self.GetName()
	try(exporter.Write(name, "Operations", self.histogram.TotalCount()))
	try(exporter.Write(name, "AverageLatency(us)", self.histogram.Mean()))
	try(exporter.Write(name, "MinLatency(us)", self.histogram.Min()))
	try(exporter.Write(name, "MaxLatency(us)", self.histogram.Max()))
	for _, p := range self.percentiles {
		try(exporter.Write(name, ordinal(p)+"PercentileLatency(us)", self.histogram.ValueAtQuantile(float64(p))))
	}
	if self.overflow > 0 {
		try(exporter.Write(name, "Clamped", self.overflow))
	}
	try(self.ExportStatusCounts(exporter))
	return
}
