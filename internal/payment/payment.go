// Package payment records guest payment evidence against a booking and
// builds the WhatsApp handoff used instead of an integrated gateway.
//
// The demo verification here is a local stand-in for the hotel confirming
// a transfer.  It is not an authority and is switched off in deployments
// that have a real confirmation source.
package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/iliyamo/hotel-booking/internal/catalog"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/reference"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// MaxInlineReceiptBytes is the size at which a receipt stops being
// embedded in the proof record.
const MaxInlineReceiptBytes = 750 * 1024

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrProofNotFound   = errors.New("payment proof not found")
	ErrInvalidMethod   = errors.New("unsupported payment method")
	ErrReceiptRead     = errors.New("could not read receipt")
)

// Upload is a receipt file as received from the client.  Open may be
// called more than once.
type Upload struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ReceiptInput is one receipt submission.  Both the file and the note are
// optional.
type ReceiptInput struct {
	Method model.PaymentMethodTag
	Note   string
	File   *Upload
}

// Result is the outcome of a successful payment action.
type Result struct {
	Booking model.Booking      `json:"booking"`
	Proof   model.PaymentProof `json:"proof"`
	Notices []model.Notice     `json:"notices"`
}

// Service implements the payment proof flow over a visitor's ledger.
type Service struct {
	catalog *catalog.Catalog
	now     func() time.Time
	newTx   func() string
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the submission and verification timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithTransactionIDs overrides the transaction id source.
func WithTransactionIDs(f func() string) Option { return func(s *Service) { s.newTx = f } }

// NewService returns a payment service bound to the catalog's methods and
// settings.
func NewService(c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: c,
		now:     func() time.Time { return time.Now().UTC() },
		newTx:   func() string { return reference.UID("TX") },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func resolveMethod(m, fallback model.PaymentMethodTag) (model.PaymentMethodTag, error) {
	if m == "" {
		m = fallback
	}
	if m == "" {
		m = model.DefaultPaymentMethod
	}
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, m)
	}
	return m, nil
}

// SubmitReceipt records a proof for the booking and marks its payment as
// pending verification.  The receipt is read completely before anything
// is written.  If the booking update fails the previous proof, or its
// absence, is put back, so the caller sees either both writes or none.
func (s *Service) SubmitReceipt(ctx context.Context, ledger *repository.Ledger, bookingID string, in ReceiptInput) (*Result, error) {
	b, ok := ledger.Bookings.Get(ctx, bookingID)
	if !ok {
		return nil, ErrBookingNotFound
	}
	method, err := resolveMethod(in.Method, b.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var notices []model.Notice
	file, oversized, err := readReceipt(in.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReceiptRead, err)
	}
	if oversized {
		notices = append(notices, receiptTooLarge())
	}

	prev, hadPrev := ledger.Proofs.Get(ctx, b.ID)
	tx := s.newTx()
	proof := model.PaymentProof{
		BookingID:        b.ID,
		BookingReference: b.Reference,
		Method:           method,
		Amount:           b.PayableNow(),
		Note:             strings.TrimSpace(in.Note),
		File:             file,
		SubmittedAt:      s.now(),
		TransactionID:    tx,
	}
	if err := ledger.Proofs.Put(ctx, proof); err != nil {
		return nil, fmt.Errorf("save proof: %w", err)
	}

	pending, payPending := model.BookingPending, model.PaymentPending
	updated, err := ledger.Bookings.Update(ctx, b.ID, model.BookingPatch{
		Status:        &pending,
		PaymentStatus: &payPending,
		PaymentMethod: &method,
		TransactionID: &tx,
	})
	if err != nil {
		return nil, s.rollback(ctx, ledger, b.ID, prev, hadPrev, fmt.Errorf("update booking: %w", err))
	}

	notices = append(notices, receiptSubmitted())
	return &Result{Booking: *updated, Proof: proof, Notices: notices}, nil
}

// VerifyDemo simulates the hotel confirming the transfer: the proof gets a
// verification time and the booking becomes confirmed.  A booking created
// with a deposit moves to deposit-paid, otherwise to fully-paid.
func (s *Service) VerifyDemo(ctx context.Context, ledger *repository.Ledger, bookingID string, method model.PaymentMethodTag) (*Result, error) {
	b, ok := ledger.Bookings.Get(ctx, bookingID)
	if !ok {
		return nil, ErrBookingNotFound
	}
	prev, ok := ledger.Proofs.Get(ctx, bookingID)
	if !ok {
		return nil, ErrProofNotFound
	}
	method, err := resolveMethod(method, prev.Method)
	if err != nil {
		return nil, err
	}

	now := s.now()
	proof := prev
	proof.VerifiedAt = &now
	if err := ledger.Proofs.Put(ctx, proof); err != nil {
		return nil, fmt.Errorf("save proof: %w", err)
	}

	confirmed := model.BookingConfirmed
	paid := model.PaymentFullyPaid
	if b.DepositAmount > 0 {
		paid = model.PaymentDepositPaid
	}
	tx := proof.TransactionID
	if tx == "" {
		tx = s.newTx()
	}
	updated, err := ledger.Bookings.Update(ctx, b.ID, model.BookingPatch{
		Status:        &confirmed,
		PaymentStatus: &paid,
		PaymentMethod: &method,
		TransactionID: &tx,
	})
	if err != nil {
		return nil, s.rollback(ctx, ledger, b.ID, prev, true, fmt.Errorf("update booking: %w", err))
	}
	return &Result{Booking: *updated, Proof: proof, Notices: []model.Notice{paymentVerified()}}, nil
}

func (s *Service) rollback(ctx context.Context, ledger *repository.Ledger, bookingID string, prev model.PaymentProof, hadPrev bool, cause error) error {
	var restore *model.PaymentProof
	if hadPrev {
		restore = &prev
	}
	if err := ledger.Proofs.Restore(ctx, bookingID, restore); err != nil {
		return errors.Join(cause, fmt.Errorf("restore proof: %w", err))
	}
	return cause
}

// readReceipt builds the file descriptor.  Files under the inline limit are
// read fully and embedded as a data URL; larger ones keep metadata only and
// report oversized.
func readReceipt(u *Upload) (*model.ReceiptFile, bool, error) {
	if u == nil {
		return nil, false, nil
	}
	rf := &model.ReceiptFile{Name: u.Name, Type: u.Type, Size: u.Size}
	if u.Size >= MaxInlineReceiptBytes && rf.Type != "" {
		return rf, true, nil
	}
	if u.Open == nil {
		return nil, false, errors.New("no file content")
	}
	r, err := u.Open()
	if err != nil {
		return nil, false, err
	}
	defer r.Close()

	if u.Size >= MaxInlineReceiptBytes {
		mt, err := mimetype.DetectReader(r)
		if err != nil {
			return nil, false, err
		}
		rf.Type = mt.String()
		return rf, true, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxInlineReceiptBytes))
	if err != nil {
		return nil, false, err
	}
	if rf.Type == "" {
		rf.Type = mimetype.Detect(data).String()
	}
	if len(data) >= MaxInlineReceiptBytes {
		// declared size was wrong
		if rf.Size < int64(len(data)) {
			rf.Size = int64(len(data))
		}
		return rf, true, nil
	}
	rf.Size = int64(len(data))
	rf.DataURL = "data:" + rf.Type + ";base64," + base64.StdEncoding.EncodeToString(data)
	return rf, false, nil
}
