package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadFile reads a hotel file (yaml, json or toml; the extension decides)
// and overlays it on the built-in defaults.  Top level keys are "rooms",
// "payment_methods" and "settings".  When path is empty or the file does
// not exist the defaults are returned unchanged.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read hotel file: %w", err)
	}

	rooms := DefaultRooms()
	if v.IsSet("rooms") {
		rooms = nil
		if err := v.UnmarshalKey("rooms", &rooms); err != nil {
			return nil, fmt.Errorf("decode rooms: %w", err)
		}
	}
	methods := DefaultPaymentMethods()
	if v.IsSet("payment_methods") {
		methods = nil
		if err := v.UnmarshalKey("payment_methods", &methods); err != nil {
			return nil, fmt.Errorf("decode payment methods: %w", err)
		}
	}
	settings := DefaultSettings()
	if v.IsSet("settings") {
		if err := v.UnmarshalKey("settings", &settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	return New(rooms, methods, settings)
}
