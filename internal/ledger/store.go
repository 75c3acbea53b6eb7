package ledger

import "context"

// Store persists the saved transaction collection. Implementations
// assign the opaque ID and creation timestamp at append time.
//
// List returns the current collection ordered newest first. Watch
// returns a channel that receives the full ordered collection once
// immediately and again after every change; the channel is closed when
// ctx is done. Delete of an unknown ID is a no-op, not an error.
type Store interface {
	List(ctx context.Context) ([]SavedRecord, error)
	Append(ctx context.Context, rec Record) (*SavedRecord, error)
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan []SavedRecord, error)
	Close() error
}
