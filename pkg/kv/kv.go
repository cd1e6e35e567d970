// Package kv is the key-value persistence used for visitor preferences.
//
// A Store has plain get/set/remove semantics. Stores are scoped to one
// visitor with [Scope], the server-side counterpart of a browser origin.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrEmptyKey = errors.New("kv: empty key")
)

// Store is a string key-value store.
type Store interface {
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove succeeds for a missing key.
	Remove(ctx context.Context, key string) error
}

// Scoper is implemented by stores with a native notion of visitor scope.
type Scoper interface {
	Scope(visitorID string) Store
}

// Scope returns a view of s holding only the keys of one visitor.
func Scope(s Store, visitorID string) Store {
	if sc, ok := s.(Scoper); ok {
		return sc.Scope(visitorID)
	}
	return Prefixed(s, "visitor:"+visitorID+":")
}

// Prefixed returns a view of s where every key is prefixed.
func Prefixed(s Store, prefix string) Store {
	return &prefixed{store: s, prefix: prefix}
}

type prefixed struct {
	store  Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return p.store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.store.Remove(ctx, p.prefix+key)
}
