// Package catalog provides the read-only hotel data the booking core
// consumes: rooms, payment rails and deposit settings.
package catalog

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ErrDuplicateRoom is returned by New when two rooms share an id.
var ErrDuplicateRoom = errors.New("duplicate room id")

// Catalog is an immutable lookup over rooms, payment methods and the hotel
// settings.  It is safe for concurrent use because nothing mutates it
// after construction.
type Catalog struct {
	rooms    []model.Room
	byID     map[string]int
	methods  []model.PaymentMethod
	settings model.Settings
}

// New validates and indexes the provided data.  The deposit percentage is
// clamped to [0,100].
func New(rooms []model.Room, methods []model.PaymentMethod, settings model.Settings) (*Catalog, error) {
	byID := make(map[string]int, len(rooms))
	for i, r := range rooms {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoom, r.ID)
		}
		byID[r.ID] = i
	}
	if settings.DepositPercentage < 0 {
		settings.DepositPercentage = 0
	}
	if settings.DepositPercentage > 100 {
		settings.DepositPercentage = 100
	}
	return &Catalog{
		rooms:    append([]model.Room(nil), rooms...),
		byID:     byID,
		methods:  append([]model.PaymentMethod(nil), methods...),
		settings: settings,
	}, nil
}

// Rooms returns the rooms in catalog order.
func (c *Catalog) Rooms() []model.Room {
	return append([]model.Room(nil), c.rooms...)
}

// Room looks a room up by id.
func (c *Catalog) Room(id string) (model.Room, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Room{}, false
	}
	return c.rooms[i], true
}

// FirstRoom returns the first catalog room, used as the wizard default.
func (c *Catalog) FirstRoom() (model.Room, bool) {
	if len(c.rooms) == 0 {
		return model.Room{}, false
	}
	return c.rooms[0], true
}

// Settings returns the hotel settings.
func (c *Catalog) Settings() model.Settings { return c.settings }

// PaymentMethods returns the configured rails.
func (c *Catalog) PaymentMethods() []model.PaymentMethod {
	return append([]model.PaymentMethod(nil), c.methods...)
}

// PaymentMethod resolves a tag to its catalog entry.  Unknown or empty tags
// fall back to the default method, then to the first configured one.
func (c *Catalog) PaymentMethod(tag model.PaymentMethodTag) model.PaymentMethod {
	if tag == "" {
		tag = model.DefaultPaymentMethod
	}
	for _, m := range c.methods {
		if m.Method == tag {
			return m
		}
	}
	if len(c.methods) > 0 {
		return c.methods[0]
	}
	return model.PaymentMethod{Method: tag, Name: "Payment"}
}
