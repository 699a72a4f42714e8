package binding

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/d-nagy/ch2"
	"github.com/hhkbp2/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newTestSqliteStore(t *testing.T) *SqliteStore {
	props := ch2.NewProperties()
	props.Add(PropertySqlitePath, filepath.Join(t.TempDir(), "ch2.db"))
	s := NewSqliteStore()
	s.SetProperties(props)
	require.Nil(t, s.Init())
	return s
}

func TestSqliteStoreSave(t *testing.T) {
	s := newTestSqliteStore(t)
	defer s.Cleanup()

	unit := ch2.Unit{Table: "ITEM", Writer: "t", Index: 0}
	docs := [][]byte{
		[]byte("{\"i_id\":1}\n"),
		[]byte("{\"i_id\":2}\n"),
		[]byte("{\"i_id\":3}\n"),
	}
	require.Nil(t, s.Save(unit, docs))
	n, err := s.count(unit)
	require.Nil(t, err)
	require.Equal(t, 3, n)

	var doc string
	row := s.db.QueryRow(`SELECT doc FROM "item" WHERE unit = ? AND seq = 1`, unit.Name())
	require.Nil(t, row.Scan(&doc))
	require.Equal(t, "{\"i_id\":2}", doc)
}

func TestSqliteStoreSaveAgainReplaces(t *testing.T) {
	s := newTestSqliteStore(t)
	defer s.Cleanup()

	unit := ch2.Unit{Table: "STOCK", Writer: "t", Index: 4}
	require.Nil(t, s.Save(unit, [][]byte{[]byte("{}\n"), []byte("{}\n")}))
	require.Nil(t, s.Save(unit, [][]byte{[]byte("{}\n"), []byte("{}\n")}))
	n, err := s.count(unit)
	require.Nil(t, err)
	require.Equal(t, 2, n)

	other := ch2.Unit{Table: "STOCK", Writer: "t", Index: 5}
	require.Nil(t, s.Save(other, [][]byte{[]byte("{}\n")}))
	n, err = s.count(other)
	require.Nil(t, err)
	require.Equal(t, 1, n)
}

func TestSqliteStoreClosed(t *testing.T) {
	s := newTestSqliteStore(t)
	require.Nil(t, s.Cleanup())
	err := s.Save(ch2.Unit{Table: "ITEM", Writer: "t"}, [][]byte{[]byte("{}\n")})
	require.True(t, errors.Is(err, ch2.ErrStoreClosed))
	require.Nil(t, s.Cleanup())
}

func TestAddBindings(t *testing.T) {
	AddBindings()
	for _, name := range []string{"mysql", "sqlite", "mongodb"} {
		s, err := ch2.NewStore(name, ch2.NewProperties())
		require.Nil(t, err)
		require.NotNil(t, s)
	}
}

func TestMongoStoreDocuments(t *testing.T) {
	s := NewMongoStore()
	s.unitField = PropertyMongoUnitFieldDefault
	records, err := s.toBSON("ITEM-t-0.json", [][]byte{[]byte("{\"i_id\":1,\"i_name\":\"x\"}\n")})
	require.Nil(t, err)
	require.Len(t, records, 1)
	doc := records[0].(bson.D)
	require.Len(t, doc, 3)
	require.Equal(t, "_unit", doc[2].Key)
	require.Equal(t, "ITEM-t-0.json", doc[2].Value)

	_, err = s.toBSON("ITEM-t-0.json", [][]byte{[]byte("not json\n")})
	require.True(t, errors.Is(err, ch2.ErrBadUnit))

	err = s.Save(ch2.Unit{Table: "ITEM", Writer: "t"}, nil)
	require.True(t, errors.Is(err, ch2.ErrStoreClosed))
}
