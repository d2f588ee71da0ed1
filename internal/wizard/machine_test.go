package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/catalog"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/reference"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/storage"
)

type failingSaver struct{ err error }

func (f failingSaver) Save(context.Context, model.Booking) error { return f.err }

type fixedRefs string

func (f fixedRefs) Next(context.Context) string { return string(f) }

func ptr[T any](v T) *T { return &v }

func newMachine() *Machine {
	clock := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	return NewMachine(catalog.Default(),
		WithClock(func() time.Time { return clock }),
		WithIDs(func() string { return "booking-1" }))
}

func fillGuest(t *testing.T, s State) State {
	t.Helper()
	s, err := s.Apply(DraftPatch{
		FirstName: ptr("Abebe"),
		LastName:  ptr("Kebede"),
		Email:     ptr("abebe@example.com"),
		Phone:     ptr("+251911000000"),
	})
	require.NoError(t, err)
	return s
}

func TestOpenDefaults(t *testing.T) {
	m := newMachine()

	s := m.Open("")
	assert.Equal(t, StepRoom, s.Step)
	assert.Equal(t, "1", s.Draft.RoomID)
	assert.Equal(t, 2, s.Draft.Adults)
	assert.Equal(t, 0, s.Draft.Children)
	assert.Equal(t, model.MethodTelebirr, s.Draft.PaymentMethod)
	assert.Nil(t, s.Created)

	assert.Equal(t, "3", m.Open("3").Draft.RoomID)
	assert.Equal(t, "1", m.Open("missing").Draft.RoomID)
}

func TestRoomStepRequiresSelection(t *testing.T) {
	m := newMachine()
	s, err := m.Open("").Apply(DraftPatch{RoomID: ptr("")})
	require.NoError(t, err)

	got, err := m.Next(s)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepRoom, verr.Step)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "room_id", verr.Fields[0].Field)
	assert.Equal(t, StepRoom, got.Step)
}

func TestDatesStepGating(t *testing.T) {
	m := newMachine()
	s, err := m.Next(m.Open("2"))
	require.NoError(t, err)
	require.Equal(t, StepDates, s.Step)

	t.Run("empty dates", func(t *testing.T) {
		got, err := m.Next(s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		fields := []string{}
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"check_in", "check_out"}, fields)
		assert.Equal(t, StepDates, got.Step)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		bad, err := s.Apply(DraftPatch{CheckIn: ptr("2026-03-05"), CheckOut: ptr("2026-03-03")})
		require.NoError(t, err)
		got, err := m.Next(bad)
		assert.ErrorIs(t, err, ErrCheckOutNotAfterCheckIn)
		assert.Equal(t, StepDates, got.Step)
	})

	t.Run("same day", func(t *testing.T) {
		bad, err := s.Apply(DraftPatch{CheckIn: ptr("2026-03-05"), CheckOut: ptr("2026-03-05")})
		require.NoError(t, err)
		_, err = m.Next(bad)
		assert.ErrorIs(t, err, ErrCheckOutNotAfterCheckIn)
	})

	t.Run("guest counts", func(t *testing.T) {
		bad, err := s.Apply(DraftPatch{
			CheckIn: ptr("2026-03-01"), CheckOut: ptr("2026-03-03"),
			Adults: ptr(0), Children: ptr(11),
		})
		require.NoError(t, err)
		_, err = m.Next(bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("valid", func(t *testing.T) {
		ok, err := s.Apply(DraftPatch{CheckIn: ptr("2026-03-01"), CheckOut: ptr("2026-03-03")})
		require.NoError(t, err)
		got, err := m.Next(ok)
		require.NoError(t, err)
		assert.Equal(t, StepGuest, got.Step)
	})
}

func TestGuestStepValidatesContact(t *testing.T) {
	m := newMachine()
	s := State{Step: StepGuest, Draft: m.Open("1").Draft}
	s, err := s.Apply(DraftPatch{FirstName: ptr("A"), LastName: ptr("B"), Email: ptr("nope"), Phone: ptr("123")})
	require.NoError(t, err)

	_, err = m.Next(s)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	rules := map[string]string{}
	for _, f := range verr.Fields {
		rules[f.Field] = f.Rule
	}
	assert.Equal(t, map[string]string{"email": "email", "phone": "min"}, rules)
}

func TestBackNeverValidates(t *testing.T) {
	m := newMachine()
	s := State{Step: StepReview}
	s = m.Back(s)
	assert.Equal(t, StepGuest, s.Step)
	s = m.Back(s)
	assert.Equal(t, StepDates, s.Step)
	s = m.Back(s)
	assert.Equal(t, StepRoom, s.Step)
	s = m.Back(s)
	assert.Equal(t, StepRoom, s.Step)

	done := State{Step: StepSuccess}
	assert.Equal(t, StepSuccess, m.Back(done).Step)
}

func TestNextFromReviewIsRejected(t *testing.T) {
	m := newMachine()
	_, err := m.Next(State{Step: StepReview})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestQuoteFollowsDraft(t *testing.T) {
	m := newMachine()
	s, err := m.Open("2").Apply(DraftPatch{CheckIn: ptr("2026-03-01"), CheckOut: ptr("2026-03-03")})
	require.NoError(t, err)

	q := m.Quote(s)
	require.NotNil(t, q.Room)
	assert.Equal(t, "2", q.Room.ID)
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, int64(5600), q.Subtotal)
	assert.Equal(t, int64(1680), q.Deposit)
	assert.Equal(t, int64(1680), q.PayableNow)
	assert.Equal(t, "ETB", q.Currency)

	noDates := m.Quote(m.Open("4"))
	assert.Equal(t, 1, noDates.Nights)
	assert.Equal(t, int64(4800), noDates.Subtotal)
}

func TestFinalizeCreatesBooking(t *testing.T) {
	m := newMachine()
	ctx := context.Background()
	store := storage.NewMemory()
	ledger := repository.NewLedger(store)
	refs := reference.NewGenerator(store, reference.DefaultPrefix, reference.DefaultFallbackPrefix, nil)

	s, err := m.Open("2").Apply(DraftPatch{
		CheckIn: ptr("2026-03-01"), CheckOut: ptr("2026-03-03"),
		SpecialRequests: ptr("  late arrival  "),
	})
	require.NoError(t, err)
	s, err = m.Next(s)
	require.NoError(t, err)
	s, err = m.Next(s)
	require.NoError(t, err)
	s = fillGuest(t, s)
	s, err = m.Next(s)
	require.NoError(t, err)
	require.Equal(t, StepReview, s.Step)

	done, err := m.Finalize(ctx, s, refs, ledger.Bookings)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, done.Step)
	require.NotNil(t, done.Created)

	b := *done.Created
	assert.Equal(t, "booking-1", b.ID)
	assert.Equal(t, "SHAHID-JJG-00001", b.Reference)
	assert.Equal(t, 2, b.Nights)
	assert.Equal(t, int64(5600), b.TotalAmount)
	assert.Equal(t, int64(1680), b.DepositAmount)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, model.PaymentPending, b.PaymentStatus)
	assert.Equal(t, model.MethodTelebirr, b.PaymentMethod)
	assert.Equal(t, "late arrival", b.SpecialRequests)
	assert.Equal(t, "Abebe Kebede", b.Guest.FullName())
	require.NotNil(t, b.Room)
	assert.Equal(t, "Deluxe Double", b.Room.Name)

	list := ledger.Bookings.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, b.Reference, list[0].Reference)

	_, err = m.Finalize(ctx, done, refs, ledger.Bookings)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	again, err := m.Finalize(ctx, s, refs, ledger.Bookings)
	require.NoError(t, err)
	assert.Equal(t, "SHAHID-JJG-00002", again.Created.Reference)
	assert.Len(t, ledger.Bookings.List(ctx), 2)
}

func TestFinalizeValidatesWholeDraft(t *testing.T) {
	m := newMachine()
	s := State{Step: StepReview, Draft: m.Open("1").Draft}

	got, err := m.Finalize(context.Background(), s, fixedRefs("R"), failingSaver{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepReview, got.Step)
	assert.Nil(t, got.Created)
}

func TestFinalizeSaveFailureStaysOnReview(t *testing.T) {
	m := newMachine()
	s := State{Step: StepReview, Draft: m.Open("1").Draft}
	s, err := s.Apply(DraftPatch{CheckIn: ptr("2026-03-01"), CheckOut: ptr("2026-03-02")})
	require.NoError(t, err)
	s = fillGuest(t, s)

	boom := errors.New("quota exceeded")
	got, err := m.Finalize(context.Background(), s, fixedRefs("R"), failingSaver{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StepReview, got.Step)
	assert.Nil(t, got.Created)
}

func TestApplyAfterSuccess(t *testing.T) {
	s := State{Step: StepSuccess}
	_, err := s.Apply(DraftPatch{FirstName: ptr("x")})
	assert.ErrorIs(t, err, ErrFinished)
}
