// Package store provides the storage interfaces used to persist slackrelay state
// (most notably deduplication records) along with a leveldb-backed implementation.
// Alternative implementations live in subpackages
package store

import (
	"io"
)

// StringStorer is implemented by storers offering a string key/value contract.
// All implementations are expected to be safe for concurrent use
type StringStorer interface {
	// GetString retrieves the value associated to the key. An error is returned
	// if the key is absent
	GetString(key string) (value string, err error)

	// PutString adds or updates the value associated to the key
	PutString(key string, value string) (err error)

	// DeleteString deletes the entry for the given key
	DeleteString(key string) (err error)

	// Scan returns the complete set of key/values from the storer
	Scan() (entries map[string]string, err error)

	io.Closer
}

// BytesStorer is implemented by storers offering a raw bytes key/value contract
type BytesStorer interface {
	// Get retrieves the value associated to the key. An error is returned
	// if the key is absent
	Get(key []byte) (value []byte, err error)

	// Put adds or updates the value associated to the key
	Put(key []byte, value []byte) (err error)

	// Delete deletes the entry for the given key
	Delete(key []byte) (err error)

	io.Closer
}
