// Package mocks contains a mock of the store package interfaces
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// StringStorer is a mock implementation of the store.StringStorer interface
type StringStorer struct {
	mock.Mock
}

// GetString mocks a string value retrieval
func (ms *StringStorer) GetString(key string) (value string, err error) {
	args := ms.Called(key)

	return args.String(0), args.Error(1)
}

// PutString mocks a string value write
func (ms *StringStorer) PutString(key string, value string) (err error) {
	args := ms.Called(key, value)

	return args.Error(0)
}

// DeleteString mocks a string value deletion
func (ms *StringStorer) DeleteString(key string) (err error) {
	args := ms.Called(key)

	return args.Error(0)
}

// Scan mocks a scan of all entries
func (ms *StringStorer) Scan() (entries map[string]string, err error) {
	args := ms.Called()

	return args.Get(0).(map[string]string), args.Error(1)
}

// Close mocks a close of the storer
func (ms *StringStorer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}
