package datastoredb

import (
	"cloud.google.com/go/datastore"
	"context"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/api/option"
	"io"
)

// DatastoreDB implements the slackrelay StringStorer interface. The given name
// maps to the datastore entity Kind so that different tables (such as the in-flight
// and completed deduplication tables) stay isolated from one another
type DatastoreDB struct {
	datastorer
	kind string
}

// EntryValue represents an entity/entry value mapped to a datastore key
type EntryValue struct {
	Value string `datastore:",noindex"`
}

// connecter is implemented by any value that has a connect method
type connecter interface {
	connect() (err error)
}

// datastorer is implemented by any value implementing the subset of datastore.Client
// methods this package uses. It decouples the storer logic from a live datastore
// so that it can be tested against a mock
type datastorer interface {
	connecter
	io.Closer
	Delete(c context.Context, k *datastore.Key) (err error)
	Get(c context.Context, k *datastore.Key, dest interface{}) (err error)
	GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error)
	Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error)
}

// gcdatastore wraps an actual google cloud datastore client for real datastore interaction
type gcdatastore struct {
	*datastore.Client
	gcloudProjectID  string
	gcloudClientOpts []option.ClientOption
}

// connect creates a new client instance from the initial gcloud project id and client
// options. If client options can change during the course of a process (such as
// option.WithCredentialsFile), connect reflects those changes when invoked again
func (ds *gcdatastore) connect() (err error) {
	ctx := context.Background()

	ds.Client, err = datastore.NewClient(ctx, ds.gcloudProjectID, ds.gcloudClientOpts...)
	if err != nil {
		return errors.Wrapf(err, "error connecting to the datastore for project [%s]", ds.gcloudProjectID)
	}

	return nil
}

// Delete deletes the entity for the given key. See https://godoc.org/cloud.google.com/go/datastore#Client.Delete
func (ds *gcdatastore) Delete(c context.Context, k *datastore.Key) (err error) {
	return ds.Client.Delete(c, k)
}

// Get loads the entity stored for key into dest. See https://godoc.org/cloud.google.com/go/datastore#Client.Get
func (ds *gcdatastore) Get(c context.Context, k *datastore.Key, dest interface{}) (err error) {
	return ds.Client.Get(c, k, dest)
}

// GetAll runs the query and returns all matching keys along with their values appended
// to dest. See https://godoc.org/cloud.google.com/go/datastore#Client.GetAll
func (ds *gcdatastore) GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error) {
	return ds.Client.GetAll(c, query, dest)
}

// Put saves the entity v into the datastore with the given key. See https://godoc.org/cloud.google.com/go/datastore#Client.Put
func (ds *gcdatastore) Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error) {
	return ds.Client.Put(c, k, v)
}

// New returns a new instance of DatastoreDB for the given name (which maps to the
// datastore entity Kind and can be thought of as the table name). This function also
// requires a gcloudProjectID and, usually, at least one option providing gcloud
// client credentials
func New(name string, gcloudProjectID string, gcloudClientOpts ...option.ClientOption) (dsdb *DatastoreDB, err error) {
	ds := &gcdatastore{gcloudProjectID: gcloudProjectID, gcloudClientOpts: gcloudClientOpts}

	dsdb = &DatastoreDB{datastorer: ds, kind: name}

	if err = dsdb.connect(); err != nil {
		return nil, err
	}

	if err = dsdb.testDB(); err != nil {
		dsdb.Close()
		return nil, err
	}

	return dsdb, nil
}

// NewWithTelemetry returns a new instance of DatastoreDB like New does but with the
// underlying datastore calls instrumented with open telemetry metrics on the given
// meter
func NewWithTelemetry(name string, gcloudProjectID string, appName string, meter metric.Meter, gcloudClientOpts ...option.ClientOption) (dsdb *DatastoreDB, err error) {
	ds := &gcdatastore{gcloudProjectID: gcloudProjectID, gcloudClientOpts: gcloudClientOpts}

	dsdb = &DatastoreDB{datastorer: NewdatastorerWithTelemetry(ds, appName, meter), kind: name}

	if err = dsdb.connect(); err != nil {
		return nil, err
	}

	if err = dsdb.testDB(); err != nil {
		dsdb.Close()
		return nil, err
	}

	return dsdb, nil
}

// testDB makes a lightweight call to the datastore to validate connectivity and credentials
func (dsdb *DatastoreDB) testDB() (err error) {
	_, err = dsdb.GetString("testConnectivity")

	if err != nil && err != datastore.ErrNoSuchEntity {
		return err
	}

	return nil
}

// GetString returns the value associated to a given key. If the value is not
// found or an error occurred, the zero-value string is returned along with
// the error
func (dsdb *DatastoreDB) GetString(key string) (value string, err error) {
	ctx := context.Background()

	var e EntryValue
	k := datastore.NameKey(dsdb.kind, key, nil)
	if err := dsdb.Get(ctx, k, &e); err != nil {
		return "", err
	}

	return e.Value, nil
}

// PutString stores the key/value to the database
func (dsdb *DatastoreDB) PutString(key string, value string) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(dsdb.kind, key, nil)

	_, err = dsdb.Put(ctx, k, &EntryValue{Value: value})
	return err
}

// DeleteString deletes the entry for the given key. If the entry is not found
// an error is returned
func (dsdb *DatastoreDB) DeleteString(key string) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(dsdb.kind, key, nil)

	return dsdb.Delete(ctx, k)
}

// Scan returns all key/values from the database
func (dsdb *DatastoreDB) Scan() (entries map[string]string, err error) {
	entries = make(map[string]string)

	ctx := context.Background()
	var vals []*EntryValue

	keys, err := dsdb.GetAll(ctx, datastore.NewQuery(dsdb.kind), &vals)
	if err != nil {
		return nil, err
	}

	for i, key := range keys {
		entries[key.Name] = vals[i].Value
	}

	return entries, nil
}

// Close closes the underlying datastore client
func (dsdb *DatastoreDB) Close() (err error) {
	return dsdb.datastorer.Close()
}
