package datastoredb

import (
	"cloud.google.com/go/datastore"
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"testing"
)

// mockDatastore is a mock of the internal datastorer interface
type mockDatastore struct {
	mock.Mock
}

// connect mocks a datastore connect call
func (md *mockDatastore) connect() (err error) {
	args := md.Called()

	return args.Error(0)
}

// Close mocks a datastore Close
func (md *mockDatastore) Close() (err error) {
	args := md.Called()

	return args.Error(0)
}

// Delete mocks a Delete datastore call
func (md *mockDatastore) Delete(c context.Context, k *datastore.Key) (err error) {
	args := md.Called(c, k)

	return args.Error(0)
}

// Get mocks a Get datastore call
func (md *mockDatastore) Get(c context.Context, k *datastore.Key, dest interface{}) (err error) {
	args := md.Called(c, k, dest)

	if e, ok := dest.(*EntryValue); ok {
		if v, ok := args.Get(1).(string); ok {
			e.Value = v
		}
	}

	return args.Error(0)
}

// Put mocks a Put datastore call
func (md *mockDatastore) Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error) {
	args := md.Called(c, k, v)

	return args.Get(0).(*datastore.Key), args.Error(1)
}

// GetAll mocks a GetAll datastore call
func (md *mockDatastore) GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error) {
	args := md.Called(c, query, dest)

	if vals, ok := dest.(*[]*EntryValue); ok {
		for _, k := range args.Get(0).([]*datastore.Key) {
			*vals = append(*vals, &EntryValue{Value: fmt.Sprintf("valueOf-%s", k.Name)})
		}
	}

	return args.Get(0).([]*datastore.Key), args.Error(1)
}

func newTestDB(md *mockDatastore) (dsdb *DatastoreDB) {
	return &DatastoreDB{datastorer: md, kind: "testTable"}
}

func TestGetString(t *testing.T) {
	md := new(mockDatastore)
	md.On("Get", mock.Anything, datastore.NameKey("testTable", "key1", nil), mock.Anything).Return(nil, "value1")

	dsdb := newTestDB(md)

	v, err := dsdb.GetString("key1")

	assert.Nil(t, err)
	assert.Equal(t, "value1", v)
	md.AssertExpectations(t)
}

func TestGetStringOnMissingEntity(t *testing.T) {
	md := new(mockDatastore)
	md.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(datastore.ErrNoSuchEntity, "")

	dsdb := newTestDB(md)

	v, err := dsdb.GetString("absent")

	assert.Equal(t, datastore.ErrNoSuchEntity, err)
	assert.Equal(t, "", v)
}

func TestPutString(t *testing.T) {
	md := new(mockDatastore)
	md.On("Put", mock.Anything, datastore.NameKey("testTable", "key1", nil), &EntryValue{Value: "value1"}).Return(datastore.NameKey("testTable", "key1", nil), nil)

	dsdb := newTestDB(md)

	err := dsdb.PutString("key1", "value1")

	assert.Nil(t, err)
	md.AssertExpectations(t)
}

func TestDeleteString(t *testing.T) {
	md := new(mockDatastore)
	md.On("Delete", mock.Anything, datastore.NameKey("testTable", "key1", nil)).Return(nil)

	dsdb := newTestDB(md)

	err := dsdb.DeleteString("key1")

	assert.Nil(t, err)
	md.AssertExpectations(t)
}

func TestScan(t *testing.T) {
	md := new(mockDatastore)
	md.On("GetAll", mock.Anything, mock.Anything, mock.Anything).Return([]*datastore.Key{datastore.NameKey("testTable", "key1", nil), datastore.NameKey("testTable", "key2", nil)}, nil)

	dsdb := newTestDB(md)

	entries, err := dsdb.Scan()

	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"key1": "valueOf-key1", "key2": "valueOf-key2"}, entries)
}

func TestTestDBToleratesMissingConnectivityEntity(t *testing.T) {
	md := new(mockDatastore)
	md.On("Get", mock.Anything, datastore.NameKey("testTable", "testConnectivity", nil), mock.Anything).Return(datastore.ErrNoSuchEntity, "")

	dsdb := newTestDB(md)

	assert.Nil(t, dsdb.testDB())
}

func TestCloseDelegatesToClient(t *testing.T) {
	md := new(mockDatastore)
	md.On("Close").Return(nil)

	dsdb := newTestDB(md)

	assert.Nil(t, dsdb.Close())
	md.AssertExpectations(t)
}
