package model

// Settings is the hotel-wide configuration consumed by pricing and the
// payment flow.
type Settings struct {
	DepositRequired    bool   `json:"deposit_required" mapstructure:"deposit_required"`
	DepositPercentage  int    `json:"deposit_percentage" mapstructure:"deposit_percentage"`
	Currency           string `json:"currency" mapstructure:"currency"`
	CancellationPolicy string `json:"cancellation_policy" mapstructure:"cancellation_policy"`
	WhatsAppNumber     string `json:"whatsapp_number" mapstructure:"whatsapp_number"`
	HotelName          string `json:"hotel_name" mapstructure:"hotel_name"`
}
