package service

import "context"

// KeyValueStore is the persisted string storage the content store writes snapshots to.
// Get reports ok=false when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
