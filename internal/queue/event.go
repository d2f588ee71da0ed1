// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingQueue is the durable queue every booking event is routed to.
const BookingQueue = "booking.events"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventReceiptSubmitted = "payment.receipt_submitted"
	EventPaymentVerified  = "payment.verified"
)

// BookingEvent is published whenever a booking is created or its payment
// state changes.  It carries enough for downstream consumers to log or
// notify without reading the visitor's ledger.
type BookingEvent struct {
	Type          string              `json:"type"`
	BookingID     string              `json:"booking_id"`
	Reference     string              `json:"booking_reference"`
	VisitorID     string              `json:"visitor_id"`
	RoomID        string              `json:"room_id"`
	CheckIn       string              `json:"check_in"`
	CheckOut      string              `json:"check_out"`
	Amount        int64               `json:"amount_etb"`
	Status        model.BookingStatus `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// NewBookingEvent snapshots b under the given type.  Amount is what the
// guest owes now.
func NewBookingEvent(typ, visitorID string, b model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:          typ,
		BookingID:     b.ID,
		Reference:     b.Reference,
		VisitorID:     visitorID,
		RoomID:        b.RoomID,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Amount:        b.PayableNow(),
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		OccurredAt:    at.UTC(),
	}
}
