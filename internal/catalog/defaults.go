package catalog

import "github.com/iliyamo/hotel-booking/internal/model"

// DefaultRooms is the hotel's room list used when no hotel file is given.
func DefaultRooms() []model.Room {
	return []model.Room{
		{
			ID: "1", Slug: "standard-room", Name: "Standard Room",
			ShortDescription: "Cozy comfort with essential amenities",
			PricePerNight:    2200, Size: "24 m²", MaxGuests: 2, BedType: "1 Queen Bed",
			Images:   []string{"/lotus_room1.jpg"},
			Features: []string{"Free Wi-Fi", "Air Conditioning", "Flat-screen TV"},
			Category: model.RoomStandard, IsAvailable: true,
		},
		{
			ID: "2", Slug: "deluxe-double", Name: "Deluxe Double",
			ShortDescription: "Guest favorite with signature Shaahid comfort",
			PricePerNight:    2800, Size: "28 m²", MaxGuests: 2, BedType: "1 King Bed",
			Images:   []string{"/lotus_standard.jpg"},
			Features: []string{"Mini Bar", "In-room Safe", "24/7 Room Service"},
			Category: model.RoomDeluxe, IsAvailable: true,
		},
		{
			ID: "3", Slug: "twin-room", Name: "Twin Room",
			ShortDescription: "Ideal for shared travel experiences",
			PricePerNight:    2400, Size: "26 m²", MaxGuests: 2, BedType: "2 Single Beds",
			Images:   []string{"/lotus_twin.jpg"},
			Features: []string{"Work Desk", "Free Wi-Fi"},
			Category: model.RoomStandard, IsAvailable: true,
		},
		{
			ID: "4", Slug: "vip-suite", Name: "VIP Suite",
			ShortDescription: "Ultimate luxury with separate living space",
			PricePerNight:    4800, Size: "45 m²", MaxGuests: 3, BedType: "1 King Bed + Sofa Bed",
			Images:   []string{"/lotus_suite.jpg"},
			Features: []string{"Jacuzzi Tub", "Private Balcony", "Premium Mini Bar"},
			Category: model.RoomVIP, IsAvailable: true,
		},
	}
}

// DefaultPaymentMethods lists the rails offered in the pay step.
func DefaultPaymentMethods() []model.PaymentMethod {
	return []model.PaymentMethod{
		{Method: model.MethodCBE, Name: "CBE", Instructions: "Bank Account: 1000518679728. Use CBE Birr mobile banking or app.", IsAvailable: true},
		{Method: model.MethodEbirr, Name: "Ebirr", Instructions: "Pay using Ebirr mobile money service. Merchant: 400193", IsAvailable: true},
		{Method: model.MethodHelloCash, Name: "HelloCash", Instructions: "Pay using HelloCash mobile wallet. Follow on-screen instructions.", IsAvailable: true},
		{Method: model.MethodTelebirr, Name: "Telebirr", Instructions: "Pay using Telebirr mobile money. Enter your phone number to receive a payment request.", IsAvailable: true},
		{Method: model.MethodAbyssiniaBank, Name: "Abyssinia Bank", Instructions: "Transfer to Abyssinia Bank account. Include booking reference in the transfer description.", IsAvailable: true},
	}
}

// DefaultSettings requires a 30% deposit.
func DefaultSettings() model.Settings {
	return model.Settings{
		DepositRequired:    true,
		DepositPercentage:  30,
		Currency:           "ETB",
		CancellationPolicy: "Free cancellation up to 24h before check-in.",
		WhatsAppNumber:     "251976040457",
		HotelName:          "Shaahid Hotel",
	}
}

// Default builds the catalog from the built-in data.
func Default() *Catalog {
	c, err := New(DefaultRooms(), DefaultPaymentMethods(), DefaultSettings())
	if err != nil {
		panic("catalog: invalid default data: " + err.Error())
	}
	return c
}
