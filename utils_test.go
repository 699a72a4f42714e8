package ch2

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/hhkbp2/testify/require"
)

func TestProperties(t *testing.T) {
	k := "key"
	v := "value"
	p := NewProperties()
	p.Add(k, v)
	x := p.Get(k)
	require.Equal(t, v, x)
	x = p.GetDefault(k, "other")
	require.Equal(t, v, x)
	require.Equal(t, "other", p.GetDefault("missing", "other"))
	require.Equal(t, "", p.Get("missing"))
	k1 := "a"
	v1 := "b"
	p2 := map[string]string{k1: v1, k: "override"}
	p.Merge(p2)
	require.Equal(t, v1, p.Get(k1))
	require.Equal(t, "override", p.Get(k))
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	err := ioutil.WriteFile(path, []byte(content), 0644)
	require.Nil(t, err)
	return path
}

func TestLoadProperties(t *testing.T) {
	path := writeFile(t, "load.properties", `
# scale
warehouses = 4
schema=CH2PP

bulkload.batchsize=2048
`)
	p, err := LoadProperties(path)
	require.Nil(t, err)
	require.Equal(t, 3, len(p))
	require.Equal(t, "4", p.Get(PropertyWarehouses))
	require.Equal(t, "CH2PP", p.Get(PropertySchema))
	require.Equal(t, "2048", p.Get(PropertyBatchSize))

	path = writeFile(t, "bad.properties", "warehouses\n")
	_, err = LoadProperties(path)
	require.NotNil(t, err)

	_, err = LoadProperties(filepath.Join(t.TempDir(), "absent.properties"))
	require.NotNil(t, err)
}

func TestLoadYAMLProperties(t *testing.T) {
	path := writeFile(t, "load.yaml", `
schema: CH2P
bulkload:
  batchsize: 4096
  abortonerror: true
item:
  extrafields: 3
hdrhistogram:
  percentiles: [90, 99]
writer:
  id:
`)
	p, err := LoadProperties(path)
	require.Nil(t, err)
	require.Equal(t, "CH2P", p.Get(PropertySchema))
	require.Equal(t, "4096", p.Get(PropertyBatchSize))
	require.Equal(t, "true", p.Get(PropertyAbortOnError))
	require.Equal(t, "3", p.Get(PropertyItemExtraFields))
	require.Equal(t, "90,99", p.Get(PropertyPercentiles))
	v, ok := p[PropertyWriterID]
	require.True(t, ok)
	require.Equal(t, "", v)

	path = writeFile(t, "bad.yml", "schema: [CH2\n")
	_, err = LoadProperties(path)
	require.NotNil(t, err)
}

func TestNSToDuration(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Second)
	diff := later.Sub(now)
	require.Equal(t, SecondToNanosecond(1), int64(time.Duration(diff)))
}

func TestToTime(t *testing.T) {
	millisecond := int64(12345)
	nanosecond := MillisecondToNanosecond(millisecond)
	require.Equal(t, millisecond*1000*1000, nanosecond)
	second := MillisecondToSecond(millisecond)
	require.Equal(t, millisecond/1000, second)
	v := SecondToNanosecond(second)
	require.Equal(t, second*1000*1000*1000, v)
	v = NanosecondToMicrosecond(nanosecond)
	require.Equal(t, nanosecond/1000, v)
	v = NanosecondToMillisecond(nanosecond)
	require.Equal(t, nanosecond/1000/1000, v)
}
