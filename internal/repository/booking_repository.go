package repository

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/storage"
)

// BookingRepo is the bookings collection.  Bookings are kept most recent
// first because Save prepends.
type BookingRepo struct {
	store storage.Store
	now   func() time.Time
}

// NewBookingRepo returns a repo over store using the wall clock.
func NewBookingRepo(store storage.Store) *BookingRepo {
	return &BookingRepo{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the clock used to stamp UpdatedAt.
func (r *BookingRepo) WithClock(now func() time.Time) *BookingRepo {
	r.now = now
	return r
}

func (r *BookingRepo) load(ctx context.Context) ([]model.Booking, error) {
	var list []model.Booking
	if err := loadJSON(ctx, r.store, storage.KeyBookings, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns every booking.  Unreadable storage yields an empty list.
func (r *BookingRepo) List(ctx context.Context) []model.Booking {
	list, err := r.load(ctx)
	if err != nil || list == nil {
		return []model.Booking{}
	}
	return list
}

// Get returns the booking with the given id.
func (r *BookingRepo) Get(ctx context.Context, id string) (model.Booking, bool) {
	for _, b := range r.List(ctx) {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

// Save prepends b to the collection and writes it back.
func (r *BookingRepo) Save(ctx context.Context, b model.Booking) error {
	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	next := make([]model.Booking, 0, len(list)+1)
	next = append(next, b)
	next = append(next, list...)
	return saveJSON(ctx, r.store, storage.KeyBookings, next)
}

// Update merges patch onto the booking with the given id, stamps
// UpdatedAt and rewrites the collection.  ErrNotFound is returned, and
// nothing is written, when the id is absent.
func (r *BookingRepo) Update(ctx context.Context, id string, patch model.BookingPatch) (*model.Booking, error) {
	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	updated := list[idx]
	patch.Apply(&updated)
	updated.UpdatedAt = r.now()
	list[idx] = updated
	if err := saveJSON(ctx, r.store, storage.KeyBookings, list); err != nil {
		return nil, err
	}
	return &updated, nil
}
