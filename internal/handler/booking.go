package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/payment"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// BookingHandler serves the visitor's ledger and the payment proof flow.
type BookingHandler struct {
	Payments       *payment.Service
	Scope          *Scope
	Logger         *zap.Logger
	DemoVerify     bool  // exposes POST /verify
	MaxUploadBytes int64 // cap on the multipart request body
}

// NewBookingHandler wires the payment service to the visitor scope.
func NewBookingHandler(p *payment.Service, scope *Scope, demoVerify bool, maxUpload int64, logger *zap.Logger) *BookingHandler {
	if p == nil || scope == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{Payments: p, Scope: scope, Logger: logger, DemoVerify: demoVerify, MaxUploadBytes: maxUpload}
}

// List handles GET /v1/bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	ledger := h.Scope.Ledger(middleware.VisitorID(c))
	return c.JSON(http.StatusOK, echo.Map{"bookings": ledger.Bookings.List(c.Request().Context())})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	ledger := h.Scope.Ledger(middleware.VisitorID(c))
	b, ok := ledger.Bookings.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, b)
}

// Proof handles GET /v1/bookings/:id/proof.
func (h *BookingHandler) Proof(c echo.Context) error {
	ledger := h.Scope.Ledger(middleware.VisitorID(c))
	p, ok := ledger.Proofs.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment proof not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// SubmitReceipt handles POST /v1/bookings/:id/receipt.  The body is a
// multipart form with optional "file", "note" and "method" parts; a plain
// urlencoded form works when no file is sent.
func (h *BookingHandler) SubmitReceipt(c echo.Context) error {
	if h.MaxUploadBytes > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.MaxUploadBytes)
	}
	var in payment.ReceiptInput
	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		in.File = uploadFrom(fh)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "upload too large"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
	}
	in.Method = model.PaymentMethodTag(c.FormValue("method"))
	in.Note = c.FormValue("note")

	visitor := middleware.VisitorID(c)
	ctx := c.Request().Context()
	res, err := h.Payments.SubmitReceipt(ctx, h.Scope.Ledger(visitor), c.Param("id"), in)
	if err != nil {
		return h.paymentError(c, "Failed to submit receipt", err)
	}
	h.Scope.publish(ctx, queue.EventReceiptSubmitted, visitor, res.Booking)
	return c.JSON(http.StatusOK, res)
}

func uploadFrom(fh *multipart.FileHeader) *payment.Upload {
	ct := fh.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		// generic clients send this for everything; sniff instead
		ct = ""
	}
	return &payment.Upload{
		Name: fh.Filename,
		Type: ct,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Handoff handles GET /v1/bookings/:id/handoff?method=telebirr and returns
// the WhatsApp message and link.
func (h *BookingHandler) Handoff(c echo.Context) error {
	ledger := h.Scope.Ledger(middleware.VisitorID(c))
	b, ok := ledger.Bookings.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	method := model.PaymentMethodTag(c.QueryParam("method"))
	if method != "" && !method.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unsupported payment method"})
	}
	return c.JSON(http.StatusOK, h.Payments.Handoff(b, method))
}

// Verify handles POST /v1/bookings/:id/verify, the demo stand-in for the
// hotel confirming a transfer.  It answers 404 when demo verification is
// disabled.
func (h *BookingHandler) Verify(c echo.Context) error {
	if !h.DemoVerify {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	var body struct {
		Method model.PaymentMethodTag `json:"method"`
	}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
	}

	visitor := middleware.VisitorID(c)
	ctx := c.Request().Context()
	res, err := h.Payments.VerifyDemo(ctx, h.Scope.Ledger(visitor), c.Param("id"), body.Method)
	if err != nil {
		return h.paymentError(c, "Failed to verify payment", err)
	}
	h.Scope.publish(ctx, queue.EventPaymentVerified, visitor, res.Booking)
	return c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) paymentError(c echo.Context, title string, err error) error {
	notice := model.FailureNotice(title, err)
	switch {
	case errors.Is(err, payment.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, payment.ErrProofNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment proof not found"})
	case errors.Is(err, payment.ErrInvalidMethod):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "notice": notice})
	case errors.Is(err, payment.ErrReceiptRead):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "notice": notice})
	}
	h.Logger.Error("payment action failed", zap.String("booking_id", c.Param("id")), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save payment", "notice": notice})
}
