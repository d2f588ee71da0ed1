package payment

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iliyamo/hotel-booking/internal/model"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a whole amount with thousands separators, e.g.
// "ETB 1,680".
func FormatAmount(currency string, v int64) string {
	if currency == "" {
		currency = "ETB"
	}
	return amountPrinter.Sprintf("%s %d", currency, v)
}

// Handoff is a prefilled WhatsApp message and its deep link.
type Handoff struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Handoff builds the message a guest sends to the hotel to pay for b with
// method.  Nothing is persisted.
func (s *Service) Handoff(b model.Booking, method model.PaymentMethodTag) Handoff {
	settings := s.catalog.Settings()
	if method == "" {
		method = b.PaymentMethod
	}
	methodName := "Payment"
	if m := s.catalog.PaymentMethod(method); m.Name != "" {
		methodName = m.Name
	}
	hotel := settings.HotelName
	if hotel == "" {
		hotel = "the hotel"
	}

	lines := []string{
		"Hello " + hotel + ", I want to pay the deposit.",
		"Booking Ref: " + b.Reference,
		"Amount: " + FormatAmount(settings.Currency, b.PayableNow()),
		"Method: " + methodName,
		strings.TrimSpace("Name: " + b.Guest.FirstName + " " + b.Guest.LastName),
		strings.TrimSpace("Phone: " + b.Guest.Phone),
		"Please confirm once received. Thank you.",
	}
	msg := strings.Join(lines, "\n")
	return Handoff{Message: msg, URL: whatsAppURL(settings.WhatsAppNumber, msg)}
}

func whatsAppURL(number, text string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	enc := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits.String() + "?text=" + enc
}
