// Package wizard is the booking dialog's state machine.  State values are
// plain data; Machine methods are reducers that take a State and return
// the next one, so every transition is testable without a UI.
package wizard

import (
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Step is a wizard screen.
type Step string

const (
	StepRoom    Step = "room"
	StepDates   Step = "dates"
	StepGuest   Step = "guest"
	StepReview  Step = "review"
	StepSuccess Step = "success"
)

var (
	// ErrInvalidTransition is returned when an action does not apply to
	// the current step, e.g. finalize outside review.
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrFinished is returned when the draft is edited after the booking
	// was created.
	ErrFinished = errors.New("wizard already finished")

	// ErrCheckOutNotAfterCheckIn is the date-order warning.  It is kept
	// apart from field validation so the UI can show it as a notice.
	ErrCheckOutNotAfterCheckIn = errors.New("check-out must be after check-in")
)

// Draft is the in-progress booking form.  The validate tags are the
// per-field rules; which fields are checked depends on the step.
type Draft struct {
	RoomID          string                 `json:"room_id" validate:"required,known_room"`
	CheckIn         string                 `json:"check_in" validate:"required,stay_date"`
	CheckOut        string                 `json:"check_out" validate:"required,stay_date"`
	Adults          int                    `json:"adults" validate:"min=1,max=10"`
	Children        int                    `json:"children" validate:"min=0,max=10"`
	FirstName       string                 `json:"first_name" validate:"required"`
	LastName        string                 `json:"last_name" validate:"required"`
	Email           string                 `json:"email" validate:"required,email"`
	Phone           string                 `json:"phone" validate:"required,min=6"`
	SpecialRequests string                 `json:"special_requests"`
	PaymentMethod   model.PaymentMethodTag `json:"payment_method" validate:"omitempty,payment_method"`
}

// DraftPatch is a partial edit of the draft.  Nil fields are kept.
type DraftPatch struct {
	RoomID          *string                 `json:"room_id"`
	CheckIn         *string                 `json:"check_in"`
	CheckOut        *string                 `json:"check_out"`
	Adults          *int                    `json:"adults"`
	Children        *int                    `json:"children"`
	FirstName       *string                 `json:"first_name"`
	LastName        *string                 `json:"last_name"`
	Email           *string                 `json:"email"`
	Phone           *string                 `json:"phone"`
	SpecialRequests *string                 `json:"special_requests"`
	PaymentMethod   *model.PaymentMethodTag `json:"payment_method"`
}

// State is one snapshot of an open dialog.  Created is set only on the
// success step.
type State struct {
	Step    Step           `json:"step"`
	Draft   Draft          `json:"draft"`
	Created *model.Booking `json:"created,omitempty"`
}

// Apply returns s with the patch merged into its draft.  Text fields are
// trimmed except special requests, which are trimmed at finalize.
func (s State) Apply(p DraftPatch) (State, error) {
	if s.Step == StepSuccess {
		return s, ErrFinished
	}
	d := &s.Draft
	setTrimmed := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setTrimmed(&d.RoomID, p.RoomID)
	setTrimmed(&d.CheckIn, p.CheckIn)
	setTrimmed(&d.CheckOut, p.CheckOut)
	setTrimmed(&d.FirstName, p.FirstName)
	setTrimmed(&d.LastName, p.LastName)
	setTrimmed(&d.Email, p.Email)
	setTrimmed(&d.Phone, p.Phone)
	if p.Adults != nil {
		d.Adults = *p.Adults
	}
	if p.Children != nil {
		d.Children = *p.Children
	}
	if p.SpecialRequests != nil {
		d.SpecialRequests = *p.SpecialRequests
	}
	if p.PaymentMethod != nil {
		d.PaymentMethod = *p.PaymentMethod
	}
	return s, nil
}
