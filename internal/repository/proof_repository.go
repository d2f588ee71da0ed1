package repository

import (
	"context"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/storage"
)

// ProofRepo is the payment proofs map, keyed by booking id.  At most one
// proof exists per booking.
type ProofRepo struct {
	store storage.Store
}

// NewProofRepo returns a repo over store.
func NewProofRepo(store storage.Store) *ProofRepo { return &ProofRepo{store: store} }

func (r *ProofRepo) load(ctx context.Context) (map[string]model.PaymentProof, error) {
	all := map[string]model.PaymentProof{}
	if err := loadJSON(ctx, r.store, storage.KeyProofs, &all); err != nil {
		return nil, err
	}
	if all == nil {
		// a stored JSON null decodes to a nil map
		all = map[string]model.PaymentProof{}
	}
	return all, nil
}

// All returns every proof.  Unreadable storage yields an empty map.
func (r *ProofRepo) All(ctx context.Context) map[string]model.PaymentProof {
	all, err := r.load(ctx)
	if err != nil {
		return map[string]model.PaymentProof{}
	}
	return all
}

// Get returns the proof for a booking.
func (r *ProofRepo) Get(ctx context.Context, bookingID string) (model.PaymentProof, bool) {
	p, ok := r.All(ctx)[bookingID]
	return p, ok
}

// Put writes p, replacing any previous proof for the same booking.
func (r *ProofRepo) Put(ctx context.Context, p model.PaymentProof) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	all[p.BookingID] = p
	return saveJSON(ctx, r.store, storage.KeyProofs, all)
}

// Restore puts prev back for bookingID, or deletes the entry when prev is
// nil.  It undoes a Put whose follow-up booking update failed.
func (r *ProofRepo) Restore(ctx context.Context, bookingID string, prev *model.PaymentProof) error {
	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	if prev == nil {
		delete(all, bookingID)
	} else {
		all[bookingID] = *prev
	}
	return saveJSON(ctx, r.store, storage.KeyProofs, all)
}
