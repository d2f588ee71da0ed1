package storage

import "context"

// Namespace scopes every key of s under "visitor:<id>:".  If s is an
// Incrementer the returned Store is one as well.
func Namespace(s Store, visitorID string) Store {
	p := prefixed{inner: s, prefix: "visitor:" + visitorID + ":"}
	if inc, ok := s.(Incrementer); ok {
		return prefixedIncr{prefixed: p, inc: inc}
	}
	return p
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

type prefixedIncr struct {
	prefixed
	inc Incrementer
}

func (p prefixedIncr) Incr(ctx context.Context, key string) (int64, error) {
	return p.inc.Incr(ctx, p.prefix+key)
}
