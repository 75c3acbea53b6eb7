package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// writeTimeout bounds every remote mutation so a write that never
// lands surfaces an error instead of leaving the user waiting on a
// subscription push that will not come.
const writeTimeout = 5 * time.Second

// RedisStore implements Store against a remote Redis instance, scoped
// to a single owner. Each record is one JSON document in an
// owner-scoped hash, ordered by a sorted set scored on creation time.
// A pub/sub channel per owner drives Watch, so the local view updates
// only when the store reports the change, never optimistically.
type RedisStore struct {
	client *redis.Client
	owner  string
}

// NewRedisStore connects to the Redis instance at url and scopes all
// keys to owner.
func NewRedisStore(url, owner string) (*RedisStore, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{client: client, owner: owner}, nil
}

func (s *RedisStore) recordsKey() string { return fmt.Sprintf("snapledger:%s:records", s.owner) }
func (s *RedisStore) orderKey() string   { return fmt.Sprintf("snapledger:%s:order", s.owner) }
func (s *RedisStore) channel() string    { return fmt.Sprintf("snapledger:%s:events", s.owner) }

// List returns the owner's records ordered by creation time,
// descending.
func (s *RedisStore) List(ctx context.Context) ([]SavedRecord, error) {
	ids, err := s.client.ZRevRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		slog.Error("Failed to list transactions", "owner", s.owner, "error", err)
		return []SavedRecord{}, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if len(ids) == 0 {
		return []SavedRecord{}, nil
	}

	docs, err := s.client.HMGet(ctx, s.recordsKey(), ids...).Result()
	if err != nil {
		return []SavedRecord{}, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	records := make([]SavedRecord, 0, len(docs))
	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			continue // order entry without a document; skip
		}
		var rec SavedRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			slog.Warn("Skipping unreadable transaction document", "owner", s.owner, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append stores one record document and publishes a change event.
func (s *RedisStore) Append(ctx context.Context, rec Record) (*SavedRecord, error) {
	saved := SavedRecord{
		ID:        uuid.NewString(),
		Record:    rec,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("marshaling transaction: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.HSet(wctx, s.recordsKey(), saved.ID, data)
	pipe.ZAdd(wctx, s.orderKey(), redis.Z{
		Score:  float64(saved.CreatedAt.UnixMilli()),
		Member: saved.ID,
	})
	if _, err := pipe.Exec(wctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.publish(saved.ID)
	return &saved, nil
}

// Delete removes one record document. Unknown IDs are a no-op.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	removed := pipe.HDel(wctx, s.recordsKey(), id)
	pipe.ZRem(wctx, s.orderKey(), id)
	if _, err := pipe.Exec(wctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	if removed.Val() > 0 {
		s.publish(id)
	}
	return nil
}

// Watch subscribes to the owner's change channel and pushes the full
// ordered collection on every event, plus once immediately.
func (s *RedisStore) Watch(ctx context.Context) (<-chan []SavedRecord, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribing to changes: %w", err)
	}

	ch := make(chan []SavedRecord, 1)
	records, err := s.List(ctx)
	if err != nil {
		records = []SavedRecord{}
	}
	ch <- records

	go func() {
		defer close(ch)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				records, err := s.List(ctx)
				if err != nil {
					continue
				}
				select {
				case ch <- records:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) publish(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel(), id).Err(); err != nil {
		slog.Warn("Failed to publish change event", "owner", s.owner, "error", err)
	}
}
