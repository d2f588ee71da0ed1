package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no-show"
)

// PaymentStatus tracks money received against a booking.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentDepositPaid PaymentStatus = "deposit-paid"
	PaymentFullyPaid   PaymentStatus = "fully-paid"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentFailed      PaymentStatus = "failed"
)

// GuestInfo is the contact snapshot captured in the guest step.
type GuestInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country,omitempty"`
}

// FullName joins first and last name, trimming the gap when one is empty.
func (g GuestInfo) FullName() string {
	switch {
	case g.FirstName == "":
		return g.LastName
	case g.LastName == "":
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// Booking is the record persisted by the wizard when the guest finalizes
// the review step.  It is created exactly once per finalize and
// afterwards only touched by the payment proof flow.
//
// Fields:
//  ID              – opaque unique identifier (uuid).
//  Reference       – human readable sequential reference (SHAHID-JJG-00042).
//  RoomID          – catalog id of the booked room.
//  Room            – room snapshot at booking time.
//  Guest           – guest contact snapshot.
//  CheckIn         – YYYY-MM-DD.
//  CheckOut        – YYYY-MM-DD.
//  Nights          – computed night count, always >= 1.
//  Adults          – adult guests (1..10).
//  Children        – child guests (0..10).
//  Status          – lifecycle status.
//  TotalAmount     – nightly rate times nights, whole ETB.
//  DepositAmount   – deposit due up front; zero when no deposit is required.
//  PaymentStatus   – payment progress.
//  PaymentMethod   – selected rail, if any.
//  TransactionID   – id issued on receipt submission.
//  SpecialRequests – trimmed free text, omitted when blank.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              string           `json:"id"`
	Reference       string           `json:"booking_reference"`
	RoomID          string           `json:"room_id"`
	Room            *Room            `json:"room,omitempty"`
	Guest           GuestInfo        `json:"guest_info"`
	CheckIn         string           `json:"check_in"`
	CheckOut        string           `json:"check_out"`
	Nights          int              `json:"nights"`
	Adults          int              `json:"adults"`
	Children        int              `json:"children"`
	Status          BookingStatus    `json:"status"`
	TotalAmount     int64            `json:"total_amount"`
	DepositAmount   int64            `json:"deposit_amount,omitempty"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	PaymentMethod   PaymentMethodTag `json:"payment_method,omitempty"`
	TransactionID   string           `json:"transaction_id,omitempty"`
	SpecialRequests string           `json:"special_requests,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PayableNow is the amount the guest is asked to transfer: the deposit
// when one was required at booking time, otherwise the full total.
func (b Booking) PayableNow() int64 {
	if b.DepositAmount > 0 {
		return b.DepositAmount
	}
	return b.TotalAmount
}

// BookingPatch carries the fields the payment flow is allowed to change.
// Nil fields are left untouched by the ledger's update.
type BookingPatch struct {
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	PaymentMethod *PaymentMethodTag
	TransactionID *string
}

// Apply merges the non-nil fields of p onto b.
func (p BookingPatch) Apply(b *Booking) {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		b.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentMethod != nil {
		b.PaymentMethod = *p.PaymentMethod
	}
	if p.TransactionID != nil {
		b.TransactionID = *p.TransactionID
	}
}
