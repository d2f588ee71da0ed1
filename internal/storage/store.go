// Package storage defines the key-value port the ledger persists through
// and its backends.  Values are opaque strings; callers own encoding.
package storage

import (
	"context"
	"errors"
)

// Keys used by the booking core.  They are stored inside a visitor
// namespace, see Namespace.
const (
	KeyBookings   = "shaahid_bookings_v1"
	KeyProofs     = "shaahid_payment_proofs_v1"
	KeyBookingSeq = "shaahid_booking_seq_v1"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("storage: key not found")

// Store is the minimal contract every backend satisfies.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Incrementer is implemented by backends with an atomic counter.  The
// counter value is stored under the same key space as Get/Set, so Get on
// an incremented key returns its decimal value.
type Incrementer interface {
	Incr(ctx context.Context, key string) (int64, error)
}
