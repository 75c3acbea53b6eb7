package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	ledgerBucket    = "ledger"
	transactionsKey = "transactions"
)

// BoltStore implements Store on a local BoltDB file. The whole
// collection is serialized as a single JSON array under one fixed key
// on every mutation, so there are no partial writes to recover from.
type BoltStore struct {
	db *bbolt.DB

	mu          sync.Mutex
	subscribers map[chan []SavedRecord]struct{}
}

// NewBoltStore opens (or creates) the database file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{
		db:          db,
		subscribers: make(map[chan []SavedRecord]struct{}),
	}, nil
}

// List returns all saved records, newest first.
func (b *BoltStore) List(ctx context.Context) ([]SavedRecord, error) {
	records, err := b.load()
	if err != nil {
		// A corrupt or unreadable blob degrades to an empty
		// collection rather than blocking the whole app.
		slog.Error("Failed to load saved transactions", "error", err)
		return []SavedRecord{}, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return records, nil
}

// Append assigns an ID and creation time, persists the grown
// collection, and notifies watchers.
func (b *BoltStore) Append(ctx context.Context, rec Record) (*SavedRecord, error) {
	saved := SavedRecord{
		ID:        uuid.NewString(),
		Record:    rec,
		CreatedAt: time.Now(),
	}

	records, err := b.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	records = append([]SavedRecord{saved}, records...)

	if err := b.save(records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	b.notify(records)
	return &saved, nil
}

// Delete removes the record with the given ID. Unknown IDs are a
// no-op.
func (b *BoltStore) Delete(ctx context.Context, id string) error {
	records, err := b.load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	kept := records[:0]
	removed := false
	for _, r := range records {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return nil
	}

	if err := b.save(kept); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	b.notify(kept)
	return nil
}

// Watch subscribes to collection changes. The current collection is
// pushed immediately, then again after every mutation until ctx is
// done.
func (b *BoltStore) Watch(ctx context.Context) (<-chan []SavedRecord, error) {
	ch := make(chan []SavedRecord, 1)

	records, err := b.load()
	if err != nil {
		slog.Error("Failed to load saved transactions for watcher", "error", err)
		records = []SavedRecord{}
	}
	ch <- records

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Close closes the underlying database.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) load() ([]SavedRecord, error) {
	records := make([]SavedRecord, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(ledgerBucket)).Get([]byte(transactionsKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (b *BoltStore) save(records []SavedRecord) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling transactions: %w", err)
		}
		return tx.Bucket([]byte(ledgerBucket)).Put([]byte(transactionsKey), data)
	})
}

func (b *BoltStore) notify(records []SavedRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		// Drop the stale pending snapshot if the watcher is slow;
		// only the latest collection matters.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- records:
		default:
		}
	}
}
