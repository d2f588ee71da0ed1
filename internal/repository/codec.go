package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/iliyamo/hotel-booking/internal/storage"
)

// loadJSON decodes the value at key into dst.  A missing key or a value
// that does not decode leaves dst at its zero value and reports no error.
// Only backend failures are returned, so a write never clobbers a
// collection that merely could not be reached.
func loadJSON(ctx context.Context, s storage.Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrStorage, key, err)
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		// corrupt value: treated as empty, dropping anything decoded so far
		v := reflect.ValueOf(dst).Elem()
		v.Set(reflect.Zero(v.Type()))
	}
	return nil
}

func saveJSON(ctx context.Context, s storage.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	return nil
}
