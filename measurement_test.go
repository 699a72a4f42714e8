package ch2

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hhkbp2/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (self *bufferCloser) Close() error {
	self.closed = true
	return nil
}

func TestHistogramMeasurementsText(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyMeasurementType, "histogram")
	p.Add(Buckets, "10")
	m, err := NewDefaultMeasurements(p)
	require.Nil(t, err)
	m.Measure(OperationMap, 1500)
	m.Measure(OperationMap, 2500)
	m.Measure(OperationMap, 20000)
	m.ReportStatus(OperationMap, StatusOK)
	m.ReportStatus(OperationMap, StatusBadRequest)

	var out bufferCloser
	exporter, err := NewMeasurementExporter("TextMeasurementExporter", &out)
	require.Nil(t, err)
	require.Nil(t, m.ExportMeasurements(exporter))
	require.Nil(t, exporter.Close())
	require.True(t, out.closed)

	text := out.String()
	require.True(t, strings.Contains(text, "[MAP], Operations, 3\n"))
	require.True(t, strings.Contains(text, "[MAP], MinLatency(us), 1500\n"))
	require.True(t, strings.Contains(text, "[MAP], MaxLatency(us), 20000\n"))
	require.True(t, strings.Contains(text, "[MAP], Return=OK, 1\n"))
	require.True(t, strings.Contains(text, "[MAP], Return=BAD_REQUEST, 1\n"))
	require.True(t, strings.Contains(text, "[MAP], >10, 1\n"))
}

func TestHdrHistogramMeasurements(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyHdrHistogramMax, "1000")
	p.Add(PropertyPercentiles, "50,99")
	m, err := NewDefaultMeasurements(p)
	require.Nil(t, err)
	require.Equal(t, "", m.GetSummary())
	for i := int64(1); i <= 100; i++ {
		m.Measure(OperationFlush, i)
	}
	m.Measure(OperationFlush, 5000)
	hdr := m.getOpMeasurement(OperationFlush).(*OneMeasurementHdrHistogram)
	require.Equal(t, int64(101), hdr.Count())
	require.True(t, strings.HasPrefix(m.GetSummary(), "[FLUSH: Count=101"))

	var out bufferCloser
	exporter, err := NewMeasurementExporter("JSONMeasurementExporter", &out)
	require.Nil(t, err)
	require.Nil(t, m.ExportMeasurements(exporter))
	require.Nil(t, exporter.Close())

	values := make(map[string]interface{})
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var row innerJSONMeasurement
		require.Nil(t, json.Unmarshal([]byte(line), &row))
		require.Equal(t, OperationFlush, row.Metric)
		values[row.Measurement] = row.Value
	}
	require.Equal(t, float64(101), values["Operations"])
	require.Equal(t, float64(1), values["Clamped"])
	median := values["50thPercentileLatency(us)"].(float64)
	require.True(t, median >= 50 && median <= 51)
	_, ok := values["99thPercentileLatency(us)"]
	require.True(t, ok)
}

func TestMeasurementsSortedByOperation(t *testing.T) {
	m, err := NewDefaultMeasurements(NewProperties())
	require.Nil(t, err)
	m.Measure(OperationMap, 10)
	m.Measure(OperationFlush, 10)
	m.Measure(OperationLoad, 10)

	var out bufferCloser
	exporter, err := NewMeasurementExporter("JSONArrayMeasurementExporter", &out)
	require.Nil(t, err)
	require.Nil(t, m.ExportMeasurements(exporter))
	require.Nil(t, exporter.Close())
	var rows []innerJSONMeasurement
	require.Nil(t, json.Unmarshal(out.Bytes(), &rows))
	require.Equal(t, OperationFlush, rows[0].Metric)
	require.Equal(t, OperationMap, rows[len(rows)-1].Metric)
}

func TestMeasurementsInvalid(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyMeasurementType, "timeseries")
	_, err := NewDefaultMeasurements(p)
	require.NotNil(t, err)

	p = NewProperties()
	p.Add(PropertyMeasurementType, "histogram")
	p.Add(Buckets, "0")
	_, err = NewDefaultMeasurements(p)
	require.NotNil(t, err)

	p = NewProperties()
	p.Add(PropertyHdrHistogramSig, "9")
	_, err = NewDefaultMeasurements(p)
	require.NotNil(t, err)

	_, err = NewMeasurementExporter("XMLMeasurementExporter", &bufferCloser{})
	require.NotNil(t, err)
}

func TestOrdinal(t *testing.T) {
	require.Equal(t, "1st", ordinal(1))
	require.Equal(t, "11th", ordinal(11))
	require.Equal(t, "50th", ordinal(50))
	require.Equal(t, "92nd", ordinal(92))
	require.Equal(t, "99th", ordinal(99))
}
