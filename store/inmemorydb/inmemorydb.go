package inmemorydb

import (
	"fmt"
	"sync"
)

// InMemoryDB implements the slackrelay StringStorer interface with a mutex-guarded
// map. Nothing is persisted: a process restart starts from an empty database
type InMemoryDB struct {
	mutex sync.RWMutex
	data  map[string]string
}

// New returns a new empty instance of InMemoryDB
func New() (imdb *InMemoryDB) {
	imdb = new(InMemoryDB)
	imdb.data = make(map[string]string)

	return imdb
}

// GetString returns the value associated to a given key. If the value is not
// found, the zero-value string is returned along with an error
func (imdb *InMemoryDB) GetString(key string) (value string, err error) {
	imdb.mutex.RLock()
	defer imdb.mutex.RUnlock()

	v, ok := imdb.data[key]
	if !ok {
		return "", fmt.Errorf("%s not found", key)
	}

	return v, nil
}

// PutString stores the key/value to the database
func (imdb *InMemoryDB) PutString(key string, value string) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	imdb.data[key] = value
	return nil
}

// DeleteString deletes the entry for the given key. Deleting an absent key is not an error
func (imdb *InMemoryDB) DeleteString(key string) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	delete(imdb.data, key)
	return nil
}

// Scan returns a copy of all key/values from the database
func (imdb *InMemoryDB) Scan() (entries map[string]string, err error) {
	imdb.mutex.RLock()
	defer imdb.mutex.RUnlock()

	entries = make(map[string]string, len(imdb.data))
	for k, v := range imdb.data {
		entries[k] = v
	}

	return entries, nil
}

// Close is a no-op for the in-memory database
func (imdb *InMemoryDB) Close() (err error) {
	return nil
}
