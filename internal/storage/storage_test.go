package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, m.Writes())
}

func TestMemoryIncr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for want := int64(1); want <= 3; want++ {
		n, err := m.Incr(ctx, "seq")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	require.NoError(t, m.Set(ctx, "seq", "garbage"))
	n, err := m.Incr(ctx, "seq")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryFaultInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("quota exceeded")

	m.FailWrites(boom)
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), boom)
	_, err := m.Incr(ctx, "seq")
	assert.ErrorIs(t, err, boom)

	m.FailWrites(nil)
	require.NoError(t, m.Set(ctx, "k", "v"))

	m.FailReads(boom)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
}

func TestNamespaceIsolatesVisitors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := Namespace(m, "alice")
	b := Namespace(m, "bob")

	require.NoError(t, a.Set(ctx, KeyBookings, "[1]"))
	_, err := b.Get(ctx, KeyBookings)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := m.Get(ctx, "visitor:alice:"+KeyBookings)
	require.NoError(t, err)
	assert.Equal(t, "[1]", v)
}

func TestNamespaceKeepsIncrementer(t *testing.T) {
	ctx := context.Background()
	ns := Namespace(NewMemory(), "alice")

	inc, ok := ns.(Incrementer)
	require.True(t, ok)
	n, err := inc.Incr(ctx, KeyBookingSeq)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNamespaceWithoutIncrementer(t *testing.T) {
	var s Store = struct{ Store }{NewMemory()}
	_, ok := Namespace(s, "alice").(Incrementer)
	assert.False(t, ok)
}
