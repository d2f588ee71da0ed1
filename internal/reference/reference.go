// Package reference issues booking references and opaque ids.
package reference

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/storage"
)

// Default prefixes.  References look like SHAHID-JJG-00042; when the
// counter cannot be used they degrade to SHAHID-<ts>-<rand>.
const (
	DefaultPrefix         = "SHAHID-JJG"
	DefaultFallbackPrefix = "SHAHID"
)

// UID returns PREFIX-<unix millis base36>-<6 random base36 chars>, all
// upper case.  It never fails; ids are unique in practice but carry no
// ordering guarantee.
func UID(prefix string) string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return prefix + "-" + ts + "-" + randomToken(6)
}

func randomToken(n int) string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS source is broken; the clock
		// still separates ids.
		binary.BigEndian.PutUint64(b[:], uint64(time.Now().UnixNano()))
	}
	s := strings.ToUpper(strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36))
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s[len(s)-n:]
}

// Generator hands out sequential references backed by a counter in store.
// The counter lives in the store's key space, so a namespaced store gives
// every visitor an independent sequence.
type Generator struct {
	store          storage.Store
	prefix         string
	fallbackPrefix string
	logger         *zap.Logger
}

// NewGenerator builds a generator.  Empty prefixes fall back to the
// defaults and a nil logger discards output.
func NewGenerator(store storage.Store, prefix, fallbackPrefix string, logger *zap.Logger) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if fallbackPrefix == "" {
		fallbackPrefix = DefaultFallbackPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{store: store, prefix: prefix, fallbackPrefix: fallbackPrefix, logger: logger}
}

// Next advances the counter and formats it as PREFIX-NNNNN.  It never
// returns an error: any storage failure yields an opaque UID instead.
func (g *Generator) Next(ctx context.Context) string {
	n, err := g.advance(ctx)
	if err != nil {
		ref := UID(g.fallbackPrefix)
		g.logger.Warn("booking counter unavailable, using opaque reference",
			zap.String("reference", ref), zap.Error(err))
		return ref
	}
	return Format(g.prefix, n)
}

// Format renders a sequential reference.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

func (g *Generator) advance(ctx context.Context) (int64, error) {
	if inc, ok := g.store.(storage.Incrementer); ok {
		return inc.Incr(ctx, storage.KeyBookingSeq)
	}
	raw, err := g.store.Get(ctx, storage.KeyBookingSeq)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	cur, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if cur < 0 {
		cur = 0
	}
	next := cur + 1
	if err := g.store.Set(ctx, storage.KeyBookingSeq, strconv.FormatInt(next, 10)); err != nil {
		return 0, fmt.Errorf("write counter: %w", err)
	}
	return next, nil
}
