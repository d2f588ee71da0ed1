package model

import "time"

// ReceiptFile describes an uploaded receipt.  DataURL is only populated
// when the file was small enough to inline into the ledger.
type ReceiptFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	DataURL string `json:"data_url,omitempty"`
}

// Inlined reports whether the file content is stored with the proof.
func (f *ReceiptFile) Inlined() bool { return f != nil && f.DataURL != "" }

// PaymentProof is the guest's self-reported evidence of payment for one
// booking.  There is at most one live proof per booking id; submitting
// again overwrites it.
//
// Fields:
//  BookingID        – booking the proof belongs to.
//  BookingReference – denormalised booking reference.
//  Method           – payment rail the guest used.
//  Amount           – amount due at submission time, whole ETB.
//  Note             – optional free text.
//  File             – optional receipt descriptor.
//  SubmittedAt      – submission timestamp.
//  VerifiedAt       – set only by the demo verification action.
//  TransactionID    – id issued for this submission.
type PaymentProof struct {
	BookingID        string           `json:"booking_id"`
	BookingReference string           `json:"booking_reference"`
	Method           PaymentMethodTag `json:"method"`
	Amount           int64            `json:"amount_etb"`
	Note             string           `json:"note,omitempty"`
	File             *ReceiptFile     `json:"file,omitempty"`
	SubmittedAt      time.Time        `json:"submitted_at"`
	VerifiedAt       *time.Time       `json:"verified_at,omitempty"`
	TransactionID    string           `json:"transaction_id"`
}
