package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking/internal/catalog"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/pricing"
)

// ReferenceIssuer hands out booking references.  It must not fail.
type ReferenceIssuer interface {
	Next(ctx context.Context) string
}

// BookingSaver persists a finalized booking.
type BookingSaver interface {
	Save(ctx context.Context, b model.Booking) error
}

// Summary is the derived view the UI renders next to every step.
type Summary struct {
	Room              *model.Room `json:"room,omitempty"`
	Nights            int         `json:"nights"`
	Subtotal          int64       `json:"subtotal"`
	Deposit           int64       `json:"deposit"`
	PayableNow        int64       `json:"payable_now"`
	DepositRequired   bool        `json:"deposit_required"`
	DepositPercentage int         `json:"deposit_percentage"`
	Currency          string      `json:"currency"`
}

// Machine holds the read-only collaborators the reducers consult.
type Machine struct {
	catalog  *catalog.Catalog
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// Option customises a Machine.
type Option func(*Machine)

// WithClock overrides the timestamp source for created bookings.
func WithClock(now func() time.Time) Option { return func(m *Machine) { m.now = now } }

// WithIDs overrides the booking id source.
func WithIDs(newID func() string) Option { return func(m *Machine) { m.newID = newID } }

// NewMachine builds a machine over the catalog.
func NewMachine(c *catalog.Catalog, opts ...Option) *Machine {
	m := &Machine{
		catalog:  c,
		validate: newValidator(c),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Open returns a fresh state on the room step.  The draft is seeded with
// initialRoomID when the catalog knows it, otherwise with the first room.
func (m *Machine) Open(initialRoomID string) State {
	roomID := ""
	if r, ok := m.catalog.Room(initialRoomID); ok {
		roomID = r.ID
	} else if r, ok := m.catalog.FirstRoom(); ok {
		roomID = r.ID
	}
	return State{
		Step: StepRoom,
		Draft: Draft{
			RoomID:        roomID,
			Adults:        2,
			Children:      0,
			PaymentMethod: model.DefaultPaymentMethod,
		},
	}
}

// Next advances one step after validating the fields the current step
// owns.  On failure the returned state is s unchanged.
func (m *Machine) Next(s State) (State, error) {
	var to Step
	switch s.Step {
	case StepRoom:
		to = StepDates
	case StepDates:
		to = StepGuest
	case StepGuest:
		to = StepReview
	default:
		return s, fmt.Errorf("%w: next from %s", ErrInvalidTransition, s.Step)
	}
	if err := m.check(s.Step, s.Draft, stepFields[s.Step]...); err != nil {
		return s, err
	}
	if s.Step == StepDates {
		if err := checkDateOrder(s.Draft); err != nil {
			return s, err
		}
	}
	s.Step = to
	return s, nil
}

// Back moves one step toward room.  It never validates and is a no-op on
// room and success.
func (m *Machine) Back(s State) State {
	switch s.Step {
	case StepDates:
		s.Step = StepRoom
	case StepGuest:
		s.Step = StepDates
	case StepReview:
		s.Step = StepGuest
	}
	return s
}

// Quote derives the summary for the current draft.  An unknown room id
// prices the first catalog room, matching what the room picker shows.
func (m *Machine) Quote(s State) Summary {
	settings := m.catalog.Settings()
	sum := Summary{
		DepositRequired:   settings.DepositRequired,
		DepositPercentage: settings.DepositPercentage,
		Currency:          settings.Currency,
	}
	room, ok := m.catalog.Room(s.Draft.RoomID)
	if !ok {
		room, ok = m.catalog.FirstRoom()
	}
	var rate int64
	if ok {
		sum.Room = &room
		rate = room.PricePerNight
	}
	q := pricing.Calculate(rate, s.Draft.CheckIn, s.Draft.CheckOut, m.policy())
	sum.Nights = q.Nights
	sum.Subtotal = q.Subtotal
	sum.Deposit = q.Deposit
	sum.PayableNow = q.PayableNow
	return sum
}

func (m *Machine) policy() pricing.DepositPolicy {
	s := m.catalog.Settings()
	return pricing.DepositPolicy{Required: s.DepositRequired, Percentage: s.DepositPercentage}
}

// Finalize validates the whole draft, assigns identifiers, persists the
// booking and moves to success.  If anything fails the state stays on
// review with no booking attached.
//
// Finalize does not look at s.Created: calling it twice on the same
// review state creates two bookings.
func (m *Machine) Finalize(ctx context.Context, s State, refs ReferenceIssuer, saver BookingSaver) (State, error) {
	if s.Step != StepReview {
		return s, fmt.Errorf("%w: finalize from %s", ErrInvalidTransition, s.Step)
	}
	if err := m.check(StepReview, s.Draft); err != nil {
		return s, err
	}
	if err := checkDateOrder(s.Draft); err != nil {
		return s, err
	}
	room, ok := m.catalog.Room(s.Draft.RoomID)
	if !ok {
		return s, &ValidationError{Step: StepReview, Fields: []FieldError{{Field: "room_id", Rule: "known_room", Message: "is not a room we offer"}}}
	}

	d := s.Draft
	q := pricing.Calculate(room.PricePerNight, d.CheckIn, d.CheckOut, m.policy())
	now := m.now()
	b := model.Booking{
		ID:        m.newID(),
		Reference: refs.Next(ctx),
		RoomID:    room.ID,
		Room:      &room,
		Guest: model.GuestInfo{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
		},
		CheckIn:         d.CheckIn,
		CheckOut:        d.CheckOut,
		Nights:          q.Nights,
		Adults:          d.Adults,
		Children:        d.Children,
		Status:          model.BookingPending,
		TotalAmount:     q.Subtotal,
		DepositAmount:   q.Deposit,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   d.PaymentMethod,
		SpecialRequests: strings.TrimSpace(d.SpecialRequests),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := saver.Save(ctx, b); err != nil {
		return s, fmt.Errorf("save booking: %w", err)
	}
	s.Step = StepSuccess
	s.Created = &b
	return s, nil
}
