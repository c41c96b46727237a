package repository

import "context"

// StateRepository is the per-device durable key/value store backing the
// navigation state (the browser local-storage analogue). Get returns "" for
// absent keys; values are never expired or namespaced per session, so stale
// keys from earlier sessions may remain.
type StateRepository interface {
	Get(ctx context.Context, deviceID, key string) (string, error)
	Set(ctx context.Context, deviceID, key, value string) error
}
