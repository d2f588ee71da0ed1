package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/model"
)

func sampleEvent() BookingEvent {
	b := model.Booking{
		ID: "b1", Reference: "SHAHID-JJG-00001", RoomID: "2",
		CheckIn: "2026-03-01", CheckOut: "2026-03-03",
		TotalAmount: 5600, DepositAmount: 1680,
		Status: model.BookingPending, PaymentStatus: model.PaymentPending,
	}
	return NewBookingEvent(EventBookingCreated, "v1", b, time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC))
}

func TestNewBookingEventUsesPayableNow(t *testing.T) {
	ev := sampleEvent()
	assert.Equal(t, int64(1680), ev.Amount)
	assert.Equal(t, "v1", ev.VisitorID)
}

func TestFormatEvent(t *testing.T) {
	line := FormatEvent(sampleEvent())
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "booking.created")
	assert.Contains(t, line, "ref=SHAHID-JJG-00001")
	assert.Contains(t, line, "amount=1680 ETB")
	assert.Contains(t, line, "stay=2026-03-01..2026-03-03")
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	sink := &fileSink{path: path}

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	require.NoError(t, sink.handle(body))
	require.NoError(t, sink.handle(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestFileSinkRejectsMalformed(t *testing.T) {
	sink := &fileSink{path: filepath.Join(t.TempDir(), "booking.log")}
	assert.Error(t, sink.handle([]byte("not json")))
	assert.Error(t, sink.handle([]byte(`{"type":""}`)))
}
