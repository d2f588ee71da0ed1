package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func booking(id string) model.Booking {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return model.Booking{
		ID:            id,
		Reference:     "SHAHID-JJG-00001",
		RoomID:        "2",
		Guest:         model.GuestInfo{FirstName: "Amina", LastName: "Hassan", Email: "amina@example.com", Phone: "+251911234567"},
		CheckIn:       "2026-03-01",
		CheckOut:      "2026-03-03",
		Nights:        2,
		Adults:        2,
		Status:        model.BookingPending,
		TotalAmount:   5600,
		DepositAmount: 1680,
		PaymentStatus: model.PaymentPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestBookingListToleratesCorruptStorage(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"syntax":     "{not json",
		"wrong type": `{"id":"x"}`,
		"bad field":  `[{"id":"a","nights":"two"}]`,
		"null":       "null",
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemory()
			require.NoError(t, mem.Set(ctx, storage.KeyBookings, raw))
			list := NewBookingRepo(mem).List(ctx)
			assert.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestBookingListToleratesReadFailure(t *testing.T) {
	mem := storage.NewMemory()
	mem.FailReads(errors.New("disk gone"))
	assert.Empty(t, NewBookingRepo(mem).List(context.Background()))
}

func TestSavePrepends(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepo(storage.NewMemory())

	require.NoError(t, repo.Save(ctx, booking("a")))
	require.NoError(t, repo.Save(ctx, booking("b")))

	list := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestSaveOverCorruptValueStartsFresh(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, storage.KeyBookings, "garbage"))

	repo := NewBookingRepo(mem)
	require.NoError(t, repo.Save(ctx, booking("a")))
	assert.Len(t, repo.List(ctx), 1)
}

func TestSaveDoesNotClobberUnreachableStorage(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	repo := NewBookingRepo(mem)
	require.NoError(t, repo.Save(ctx, booking("a")))

	mem.FailReads(errors.New("timeout"))
	err := repo.Save(ctx, booking("b"))
	assert.ErrorIs(t, err, ErrStorage)

	mem.FailReads(nil)
	assert.Len(t, repo.List(ctx), 1)
}

func TestUpdateMergesAndStamps(t *testing.T) {
	ctx := context.Background()
	later := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewBookingRepo(storage.NewMemory()).WithClock(func() time.Time { return later })
	orig := booking("a")
	require.NoError(t, repo.Save(ctx, orig))

	got, err := repo.Update(ctx, "a", model.BookingPatch{
		PaymentMethod: ptr(model.MethodCBE),
		TransactionID: ptr("TX-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.MethodCBE, got.PaymentMethod)
	assert.Equal(t, "TX-1", got.TransactionID)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Equal(t, orig.Guest, got.Guest)
	assert.Equal(t, orig.TotalAmount, got.TotalAmount)

	stored, ok := repo.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, *got, stored)
}

func TestUpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	repo := NewBookingRepo(mem)
	require.NoError(t, repo.Save(ctx, booking("a")))
	writes := mem.Writes()

	got, err := repo.Update(ctx, "zzz", model.BookingPatch{Status: ptr(model.BookingConfirmed)})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, writes, mem.Writes())
}

func TestProofPutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewProofRepo(storage.NewMemory())

	require.NoError(t, repo.Put(ctx, model.PaymentProof{BookingID: "a", Note: "first"}))
	require.NoError(t, repo.Put(ctx, model.PaymentProof{BookingID: "a", Note: "second"}))
	require.NoError(t, repo.Put(ctx, model.PaymentProof{BookingID: "b", Note: "other"}))

	all := repo.All(ctx)
	assert.Len(t, all, 2)
	p, ok := repo.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "second", p.Note)
}

func TestProofRestore(t *testing.T) {
	ctx := context.Background()
	repo := NewProofRepo(storage.NewMemory())
	prev := model.PaymentProof{BookingID: "a", Note: "kept"}
	require.NoError(t, repo.Put(ctx, prev))
	require.NoError(t, repo.Put(ctx, model.PaymentProof{BookingID: "a", Note: "replaced"}))

	require.NoError(t, repo.Restore(ctx, "a", &prev))
	p, _ := repo.Get(ctx, "a")
	assert.Equal(t, "kept", p.Note)

	require.NoError(t, repo.Restore(ctx, "a", nil))
	_, ok := repo.Get(ctx, "a")
	assert.False(t, ok)
}

func TestProofsTolerateCorruptStorage(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, storage.KeyProofs, "[1,2,3]"))

	repo := NewProofRepo(mem)
	assert.Empty(t, repo.All(ctx))
	require.NoError(t, repo.Put(ctx, model.PaymentProof{BookingID: "a"}))
	assert.Len(t, repo.All(ctx), 1)
}
