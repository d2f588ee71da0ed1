package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/session"
	"github.com/iliyamo/hotel-booking/internal/wizard"
)

// WizardHandler drives the booking dialog.  Each visitor has at most one
// open session; every action returns the full view so clients never have
// to replay state locally.
type WizardHandler struct {
	Machine  *wizard.Machine
	Sessions *session.Manager
	Scope    *Scope
	Logger   *zap.Logger
}

// NewWizardHandler wires the state machine to the session store.
func NewWizardHandler(m *wizard.Machine, sessions *session.Manager, scope *Scope, logger *zap.Logger) *WizardHandler {
	if m == nil || sessions == nil || scope == nil {
		panic("nil dependency passed to NewWizardHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardHandler{Machine: m, Sessions: sessions, Scope: scope, Logger: logger}
}

type wizardView struct {
	SessionID string         `json:"session_id"`
	Step      wizard.Step    `json:"step"`
	Draft     wizard.Draft   `json:"draft"`
	Summary   wizard.Summary `json:"summary"`
	Booking   *model.Booking `json:"booking,omitempty"`
	Notices   []model.Notice `json:"notices,omitempty"`
}

func (h *WizardHandler) view(s session.Session, notices ...model.Notice) wizardView {
	return wizardView{
		SessionID: s.ID,
		Step:      s.State.Step,
		Draft:     s.State.Draft,
		Summary:   h.Machine.Quote(s.State),
		Booking:   s.State.Created,
		Notices:   notices,
	}
}

// Open handles POST /v1/wizard.  The optional body {"room_id": "2"} seeds
// the room; any previous session of this visitor is discarded.
func (h *WizardHandler) Open(c echo.Context) error {
	var body struct {
		RoomID string `json:"room_id"`
	}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
	}
	s := h.Sessions.Open(middleware.VisitorID(c), h.Machine.Open(body.RoomID))
	return c.JSON(http.StatusCreated, h.view(s))
}

// Get handles GET /v1/wizard/:sid.
func (h *WizardHandler) Get(c echo.Context) error {
	s, err := h.Sessions.Get(middleware.VisitorID(c), c.Param("sid"))
	if err != nil {
		return h.fail(c, s, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// PatchDraft handles PATCH /v1/wizard/:sid/draft.  Only the fields present
// in the body change.  Edits never validate; validation happens on next.
func (h *WizardHandler) PatchDraft(c echo.Context) error {
	var patch wizard.DraftPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := h.Sessions.Update(middleware.VisitorID(c), c.Param("sid"), func(st wizard.State) (wizard.State, error) {
		return st.Apply(patch)
	})
	if err != nil {
		return h.fail(c, s, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// Next handles POST /v1/wizard/:sid/next.
func (h *WizardHandler) Next(c echo.Context) error {
	s, err := h.Sessions.Update(middleware.VisitorID(c), c.Param("sid"), h.Machine.Next)
	if err != nil {
		return h.fail(c, s, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// Back handles POST /v1/wizard/:sid/back.
func (h *WizardHandler) Back(c echo.Context) error {
	s, err := h.Sessions.Update(middleware.VisitorID(c), c.Param("sid"), func(st wizard.State) (wizard.State, error) {
		return h.Machine.Back(st), nil
	})
	if err != nil {
		return h.fail(c, s, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// Finalize handles POST /v1/wizard/:sid/finalize.  On success the booking
// is in the visitor's ledger and the session is on the success step.  A
// storage failure answers 500 and leaves the session on review.
func (h *WizardHandler) Finalize(c echo.Context) error {
	ctx := c.Request().Context()
	visitor := middleware.VisitorID(c)
	ledger := h.Scope.Ledger(visitor)
	refs := h.Scope.References(visitor)

	s, err := h.Sessions.Update(visitor, c.Param("sid"), func(st wizard.State) (wizard.State, error) {
		return h.Machine.Finalize(ctx, st, refs, ledger.Bookings)
	})
	if err != nil {
		return h.fail(c, s, err)
	}

	b := *s.State.Created
	h.Logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("visitor_id", visitor))
	h.Scope.publish(ctx, queue.EventBookingCreated, visitor, b)

	return c.JSON(http.StatusCreated, h.view(s, model.Notice{
		Level:       model.NoticeSuccess,
		Title:       "Booking created!",
		Description: "Reference: " + b.Reference,
	}))
}

// fail maps wizard and session errors to responses.  When a session is
// known its unchanged view is included so the client can re-render.
func (h *WizardHandler) fail(c echo.Context, s session.Session, err error) error {
	body := echo.Map{"error": err.Error()}
	if s.ID != "" {
		body["session"] = h.view(s)
	}

	var verr *wizard.ValidationError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "wizard session not found"})
	case errors.As(err, &verr):
		body["error"] = "validation failed"
		body["step"] = verr.Step
		body["fields"] = verr.Fields
		return c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, wizard.ErrCheckOutNotAfterCheckIn):
		body["warning"] = err.Error()
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrFinished):
		return c.JSON(http.StatusConflict, body)
	}

	h.Logger.Error("wizard action failed", zap.String("session_id", s.ID), zap.Error(err))
	body["error"] = "could not save booking"
	body["notice"] = model.FailureNotice("Failed to create booking", err)
	return c.JSON(http.StatusInternalServerError, body)
}
