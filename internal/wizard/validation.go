package wizard

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/hotel-booking/internal/catalog"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/pricing"
)

// stepFields lists the Draft fields gated by each forward transition.
var stepFields = map[Step][]string{
	StepRoom:  {"RoomID"},
	StepDates: {"CheckIn", "CheckOut", "Adults", "Children"},
	StepGuest: {"FirstName", "LastName", "Email", "Phone"},
}

// FieldError is one failed rule, named by the field's JSON key.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError blocks a forward transition.
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s step: invalid %s", e.Step, strings.Join(names, ", "))
}

func newValidator(c *catalog.Catalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("known_room", func(fl validator.FieldLevel) bool {
		_, ok := c.Room(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("stay_date", func(fl validator.FieldLevel) bool {
		_, ok := pricing.ParseDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return model.PaymentMethodTag(fl.Field().String()).Valid()
	})
	return v
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "known_room":
		return "is not a room we offer"
	case "stay_date":
		return "must be a date (YYYY-MM-DD)"
	case "payment_method":
		return "is not a supported payment method"
	}
	return "is invalid"
}

// check validates the given Draft fields, or all of them when fields is
// empty.  It returns nil or a *ValidationError.
func (m *Machine) check(step Step, d Draft, fields ...string) error {
	var err error
	if len(fields) == 0 {
		err = m.validate.Struct(d)
	} else {
		err = m.validate.StructPartial(d, fields...)
	}
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{Step: step}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

// checkDateOrder assumes both dates already parsed.
func checkDateOrder(d Draft) error {
	in, okIn := pricing.ParseDate(d.CheckIn)
	out, okOut := pricing.ParseDate(d.CheckOut)
	if okIn && okOut && !out.After(in) {
		return ErrCheckOutNotAfterCheckIn
	}
	return nil
}
