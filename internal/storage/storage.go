package storage

import (
	"context"
	"errors"
)

// Adapter persists the cart snapshot as a single opaque blob under a fixed
// key. The cart store never writes partial state: every Save carries the
// full snapshot.
type Adapter interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Clear(ctx context.Context) error
}

// ErrNotFound is returned by Load when no snapshot has been saved yet, or
// after Clear. Callers treat it as "start with an empty cart".
var ErrNotFound = errors.New("no snapshot stored")
