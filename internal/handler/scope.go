// Package handler exposes the booking core over HTTP.  Every route below
// /v1 runs behind middleware.Visitor; handlers use the visitor id to pick
// the visitor's own ledger and wizard sessions.
package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/reference"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/storage"
)

// Scope hands out per-visitor views of the shared backing store.
type Scope struct {
	store       storage.Store
	refPrefix   string
	refFallback string
	logger      *zap.Logger
	events      service.Publisher
	now         func() time.Time
}

// NewScope binds the store and reference settings.  A nil publisher drops
// events.
func NewScope(store storage.Store, refPrefix, refFallback string, events service.Publisher, logger *zap.Logger) *Scope {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = service.LogPublisher{}
	}
	return &Scope{
		store:       store,
		refPrefix:   refPrefix,
		refFallback: refFallback,
		logger:      logger,
		events:      events,
		now:         time.Now,
	}
}

// Ledger returns the visitor's bookings and proofs.
func (s *Scope) Ledger(visitorID string) *repository.Ledger {
	return repository.NewLedger(storage.Namespace(s.store, visitorID))
}

// References returns the visitor's booking reference generator.
func (s *Scope) References(visitorID string) *reference.Generator {
	return reference.NewGenerator(storage.Namespace(s.store, visitorID), s.refPrefix, s.refFallback, s.logger)
}

func (s *Scope) publish(ctx context.Context, typ, visitorID string, b model.Booking) {
	ev := queue.NewBookingEvent(typ, visitorID, b, s.now())
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish booking event", zap.String("type", typ), zap.String("booking_id", b.ID), zap.Error(err))
	}
}
