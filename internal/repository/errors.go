// Package repository implements the visitor's local ledger: the bookings
// list and the payment proofs map, each serialised as one JSON value in
// the key-value store.  Reads tolerate missing or corrupt values;
// writes always rewrite the whole collection.  There is no locking: a
// single writer per namespace is assumed.
package repository

import "errors"

// ErrNotFound is returned when a booking id is not in the ledger.
var ErrNotFound = errors.New("not found")

// ErrStorage wraps backend failures so callers can tell them apart from
// a missing record.
var ErrStorage = errors.New("storage failure")
