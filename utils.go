package ch2

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

type Properties map[string]string

func NewProperties() Properties {
	return make(Properties)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

func (self Properties) Add(key, value string) {
	self[key] = value
}

// Merge copies every entry of other, overriding existing keys.
func (self Properties) Merge(other map[string]string) {
	for k, v := range other {
		self[k] = v
	}
}

// LoadProperties reads a property file. Files ending in .yaml or .yml hold
// a YAML mapping whose nested keys are joined with dots; any other file
// holds one key=value pair per line, with # starting a comment line.
func LoadProperties(filename string) (Properties, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return loadYAMLProperties(filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p := NewProperties()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%s:%d: invalid property line: %s", filename, lineNo, line)
		}
		p.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func loadYAMLProperties(filename string) (Properties, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m yaml.MapSlice
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	p := NewProperties()
	flattenYAML("", m, p)
	return p, nil
}

func flattenYAML(prefix string, m yaml.MapSlice, p Properties) {
	for _, item := range m {
		key := prefix + fmt.Sprint(item.Key)
		switch v := item.Value.(type) {
		case yaml.MapSlice:
			flattenYAML(key+".", v, p)
		case nil:
			p.Add(key, "")
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, e := range v {
				parts = append(parts, fmt.Sprint(e))
			}
			p.Add(key, strings.Join(parts, ","))
		default:
			p.Add(key, fmt.Sprint(v))
		}
	}
}

func Output(format string, args ...interface{}) {
	fmt.Fprintf(OutputDest, format, args...)
	fmt.Fprintln(OutputDest, "")
}

func OutputProperties(p Properties) {
	Output("***************** properties *****************")
	if p != nil {
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			Output("\"%s\"=\"%s\"", k, p[k])
		}
	}
	Output("**********************************************")
}

func MillisecondToNanosecond(millis int64) int64 {
	return millis * 1000 * 1000
}

func MillisecondToSecond(millis int64) int64 {
	return millis / 1000
}

func SecondToNanosecond(second int64) int64 {
	return second * 1000 * 1000 * 1000
}

func NanosecondToMicrosecond(nanos int64) int64 {
	return nanos / 1000
}

func NanosecondToMillisecond(nanos int64) int64 {
	return nanos / 1000 / 1000
}
