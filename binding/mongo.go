package binding

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/d-nagy/ch2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	PropertyMongoURI              = "mongodb.uri"
	PropertyMongoURIDefault       = "mongodb://127.0.0.1:27017"
	PropertyMongoDatabase         = "mongodb.database"
	PropertyMongoDatabaseDefault  = "ch2"
	PropertyMongoUnitField        = "mongodb.unitfield"
	PropertyMongoUnitFieldDefault = "_unit"
	// Timeout of connecting and of one unit save, in milliseconds.
	PropertyMongoTimeout        = "mongodb.timeout"
	PropertyMongoTimeoutDefault = "30000"
)

// MongoStore inserts the documents of a unit into the collection named
// after the table. Every document is tagged with its unit name, so a unit
// saved again replaces its earlier documents.
type MongoStore struct {
	*ch2.StoreBase
	client    *mongo.Client
	database  *mongo.Database
	unitField string
	timeout   time.Duration
}

func NewMongoStore() *MongoStore {
	return &MongoStore{
		StoreBase: ch2.NewStoreBase(),
	}
}

func (self *MongoStore) Init() error {
	props := self.GetProperties()
	propStr := props.GetDefault(PropertyMongoTimeout, PropertyMongoTimeoutDefault)
	timeout, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil {
		return err
	}
	self.timeout = time.Duration(ch2.MillisecondToNanosecond(timeout))
	self.unitField = props.GetDefault(PropertyMongoUnitField, PropertyMongoUnitFieldDefault)

	uri := props.GetDefault(PropertyMongoURI, PropertyMongoURIDefault)
	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(self.timeout)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), self.timeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return fmt.Errorf("%w: %s", ch2.ServiceUnavailable, err)
	}
	self.client = client
	self.database = client.Database(props.GetDefault(PropertyMongoDatabase, PropertyMongoDatabaseDefault))
	return nil
}

func (self *MongoStore) Cleanup() error {
	if self.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), self.timeout)
	defer cancel()
	err := self.client.Disconnect(ctx)
	self.client = nil
	self.database = nil
	return err
}

// toBSON decodes the documents in relaxed extended JSON and tags them.
func (self *MongoStore) toBSON(name string, docs [][]byte) ([]interface{}, error) {
	records := make([]interface{}, 0, len(docs))
	for i, raw := range docs {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(bytes.TrimSpace(raw), false, &doc); err != nil {
			return nil, fmt.Errorf("%w: document %d of %s: %s", ch2.ErrBadUnit, i, name, err)
		}
		doc = append(doc, bson.E{Key: self.unitField, Value: name})
		records = append(records, doc)
	}
	return records, nil
}

func (self *MongoStore) Save(unit ch2.Unit, docs [][]byte) error {
	if self.database == nil {
		return ch2.ErrStoreClosed
	}
	name := unit.Name()
	records, err := self.toBSON(name, docs)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), self.timeout)
	defer cancel()
	coll := self.database.Collection(strings.ToLower(unit.Table))
	if _, err := coll.DeleteMany(ctx, bson.D{{Key: self.unitField, Value: name}}); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	_, err = coll.InsertMany(ctx, records)
	return err
}
