package ch2

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func newFileStore(t *testing.T, dir string, overwrite string) *FileStore {
	p := NewProperties()
	p.Add(PropertyOutputDir, dir)
	p.Add(PropertyOutputOverwrite, overwrite)
	s := NewFileStore()
	s.SetProperties(p)
	require.Nil(t, s.Init())
	return s
}

func TestFileStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := newFileStore(t, dir, "true")
	unit := Unit{Table: "ITEM", Writer: "w1", Index: 3}
	docs := [][]byte{[]byte("{\"i_id\":1}\n"), []byte("{\"i_id\":2}\n")}
	require.Nil(t, s.Save(unit, docs))
	require.Equal(t, filepath.Join(dir, "ITEM-w1-3.json"), s.Path(unit))
	b, err := ioutil.ReadFile(s.Path(unit))
	require.Nil(t, err)
	require.Equal(t, "{\"i_id\":1}\n{\"i_id\":2}\n", string(b))

	// no temporary files are left behind
	entries, err := ioutil.ReadDir(dir)
	require.Nil(t, err)
	require.Len(t, entries, 1)

	require.Nil(t, s.Save(unit, docs[:1]))
	b, err = ioutil.ReadFile(s.Path(unit))
	require.Nil(t, err)
	require.Equal(t, "{\"i_id\":1}\n", string(b))
	require.Nil(t, s.Cleanup())
}

func TestFileStoreNoOverwrite(t *testing.T) {
	s := newFileStore(t, t.TempDir(), "false")
	unit := Unit{Table: "STOCK", Writer: "w1", Index: 0}
	require.Nil(t, s.Save(unit, [][]byte{[]byte("{}\n")}))
	err := s.Save(unit, [][]byte{[]byte("{}\n")})
	require.True(t, errors.Is(err, ErrUnitExists))
}

func TestFileStoreNotInitialized(t *testing.T) {
	s := NewFileStore()
	err := s.Save(Unit{Table: "X", Writer: "w", Index: 0}, nil)
	require.Equal(t, ErrStoreClosed, err)
}

func TestFileStoreBadProperty(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyOutputDir, t.TempDir())
	p.Add(PropertyOutputOverwrite, "sometimes")
	s := NewFileStore()
	s.SetProperties(p)
	require.NotNil(t, s.Init())
}

func TestBasicStoreCountsUnits(t *testing.T) {
	s := NewBasicStore()
	s.SetProperties(NewProperties())
	require.Nil(t, s.Init())
	require.Nil(t, s.Save(Unit{Table: "X", Writer: "w", Index: 0}, [][]byte{[]byte("ab\n"), []byte("c\n")}))
	require.Nil(t, s.Save(Unit{Table: "X", Writer: "w", Index: 1}, [][]byte{[]byte("d\n")}))
	units, size := s.Saved()
	require.Equal(t, int64(2), units)
	require.Equal(t, int64(7), size)
	require.Nil(t, s.Cleanup())
}

func TestNewStore(t *testing.T) {
	p := NewProperties()
	s, err := NewStore("basic", p)
	require.Nil(t, err)
	_, ok := s.(*BasicStore)
	require.True(t, ok)
	_, err = NewStore("tape", p)
	require.NotNil(t, err)
}

func TestUnitName(t *testing.T) {
	u := Unit{Table: "ORDER_LINE", Writer: "a1b2_3", Index: 12}
	require.Equal(t, "ORDER_LINE-a1b2_3-12.json", u.Name())
	require.Equal(t, u.Name(), u.String())
	require.Equal(t, 6, UnitSize([][]byte{[]byte("abc"), []byte("def")}))
}
