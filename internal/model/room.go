package model

// RoomCategory groups rooms by tier in the hotel catalog.
type RoomCategory string

const (
	RoomStandard RoomCategory = "standard"
	RoomDeluxe   RoomCategory = "deluxe"
	RoomSuite    RoomCategory = "suite"
	RoomVIP      RoomCategory = "vip"
)

// Room is a read-only catalog entry.  The booking core only reads
// PricePerNight and MaxGuests; the rest is denormalised into the booking
// snapshot so a later catalog change does not rewrite past bookings.
//
// Fields:
//  ID               – catalog identifier ("1".."4" in the default data).
//  Slug             – URL friendly name.
//  Name             – display name.
//  ShortDescription – one line teaser shown in the room step.
//  Description      – long form description.
//  PricePerNight    – nightly rate in whole ETB.
//  Size             – floor area as displayed (e.g. "28 m²").
//  MaxGuests        – capacity.
//  BedType          – bed configuration.
//  Images           – image paths, first one is the cover.
//  Features         – short bullet list.
//  Category         – tier, see RoomCategory.
//  IsAvailable      – whether the room is offered in the wizard.
type Room struct {
	ID               string       `json:"id" mapstructure:"id"`
	Slug             string       `json:"slug" mapstructure:"slug"`
	Name             string       `json:"name" mapstructure:"name"`
	ShortDescription string       `json:"short_description" mapstructure:"short_description"`
	Description      string       `json:"description,omitempty" mapstructure:"description"`
	PricePerNight    int64        `json:"price_per_night" mapstructure:"price_per_night"`
	Size             string       `json:"size" mapstructure:"size"`
	MaxGuests        int          `json:"max_guests" mapstructure:"max_guests"`
	BedType          string       `json:"bed_type" mapstructure:"bed_type"`
	Images           []string     `json:"images" mapstructure:"images"`
	Features         []string     `json:"features,omitempty" mapstructure:"features"`
	Category         RoomCategory `json:"category" mapstructure:"category"`
	IsAvailable      bool         `json:"is_available" mapstructure:"is_available"`
}
