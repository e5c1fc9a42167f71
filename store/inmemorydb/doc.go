/*
Package inmemorydb provides an implementation of github.com/alexandre-normand/slackrelay/store's
StringStorer interface backed by an in-memory map. It is the default backing store for
deduplication state: entries there are short-lived and purged on read so losing them
on restart only risks one extra reply per in-flight event.

For deployments with more than one instance, prefer the datastoredb implementation so
that all instances share a single view of the deduplication state.
*/
package inmemorydb
