// Package store defines the key/value storage interface the ledger persists
// accounts into, and its leveldb implementation.
package store

// Database is the minimal key/value surface the ledger needs. Get returns
// (nil, nil) when the key is absent.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Close()
}
