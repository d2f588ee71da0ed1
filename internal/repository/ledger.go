package repository

import "github.com/iliyamo/hotel-booking/internal/storage"

// Ledger bundles the two collections of one visitor namespace.
type Ledger struct {
	Bookings *BookingRepo
	Proofs   *ProofRepo
}

// NewLedger builds both repos over the same store.
func NewLedger(store storage.Store) *Ledger {
	return &Ledger{Bookings: NewBookingRepo(store), Proofs: NewProofRepo(store)}
}
