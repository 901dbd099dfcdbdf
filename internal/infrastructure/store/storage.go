package store

import "context"

// Storage is the durable key/value collaborator the storefront persists its
// client state through (cart lines, auth token).
type Storage interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Prefixed namespaces every key of s with profile, so several shoppers can
// share one backend.
func Prefixed(s Storage, profile string) Storage {
	if profile == "" {
		return s
	}
	return &prefixedStorage{inner: s, prefix: profile + ":"}
}

type prefixedStorage struct {
	inner  Storage
	prefix string
}

func (p *prefixedStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixedStorage) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixedStorage) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
