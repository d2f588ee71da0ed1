package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		expected int
	}{
		{"two nights", "2026-03-01", "2026-03-03", 2},
		{"equal dates", "2026-03-01", "2026-03-01", 1},
		{"missing check-in", "", "2026-03-03", 1},
		{"missing check-out", "2026-03-01", "", 1},
		{"reversed", "2026-03-05", "2026-03-01", 1},
		{"garbage", "yesterday", "2026-03-01", 1},
		{"partial day rounds up", "2026-03-01T10:00:00Z", "2026-03-02T12:00:00Z", 2},
		{"month boundary", "2026-02-27", "2026-03-02", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Nights(tt.in, tt.out))
		})
	}
}

func TestCalculateWithDeposit(t *testing.T) {
	q := Calculate(2800, "2026-03-01", "2026-03-03", DepositPolicy{Required: true, Percentage: 30})
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, int64(5600), q.Subtotal)
	assert.Equal(t, int64(1680), q.Deposit)
	assert.Equal(t, int64(1680), q.PayableNow)
}

func TestCalculateWithoutDeposit(t *testing.T) {
	q := Calculate(2200, "2026-03-01", "2026-03-04", DepositPolicy{Required: false, Percentage: 30})
	assert.Equal(t, int64(6600), q.Subtotal)
	assert.Zero(t, q.Deposit)
	assert.Equal(t, int64(6600), q.PayableNow)
}

func TestDepositRounding(t *testing.T) {
	// 2225 * 30% = 667.5
	assert.Equal(t, int64(668), DepositFor(2225, DepositPolicy{Required: true, Percentage: 30}))
	assert.Equal(t, int64(0), DepositFor(2225, DepositPolicy{Required: false, Percentage: 30}))
}
