// Package pricing derives night counts and amounts for a stay.  Every
// function here is pure and safe to call on every keystroke.
package pricing

import (
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DepositPolicy is the slice of hotel settings pricing depends on.
type DepositPolicy struct {
	Required   bool
	Percentage int
}

// Quote is the derived price of a stay.
type Quote struct {
	Nights     int   `json:"nights"`
	Subtotal   int64 `json:"subtotal"`
	Deposit    int64 `json:"deposit"`
	PayableNow int64 `json:"payable_now"`
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Nights returns ceil((checkOut - checkIn) in days), never below 1.  A
// missing or unparseable date, or a non-positive span, yields 1.
func Nights(checkIn, checkOut string) int {
	in, ok := ParseDate(checkIn)
	if !ok {
		return 1
	}
	out, ok := ParseDate(checkOut)
	if !ok {
		return 1
	}
	days := math.Ceil(out.Sub(in).Hours() / 24)
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 1 {
		return 1
	}
	return int(days)
}

// DepositFor returns round(subtotal * pct / 100) when a deposit is
// required, otherwise 0.  Halves round away from zero.
func DepositFor(subtotal int64, p DepositPolicy) int64 {
	if !p.Required {
		return 0
	}
	return int64(math.Round(float64(subtotal) * float64(p.Percentage) / 100))
}

// Calculate prices a stay at rate per night between the two dates.
func Calculate(rate int64, checkIn, checkOut string, p DepositPolicy) Quote {
	nights := Nights(checkIn, checkOut)
	subtotal := rate * int64(nights)
	deposit := DepositFor(subtotal, p)
	payable := subtotal
	if p.Required {
		payable = deposit
	}
	return Quote{
		Nights:     nights,
		Subtotal:   subtotal,
		Deposit:    deposit,
		PayableNow: payable,
	}
}
