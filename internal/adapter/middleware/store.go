package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// storedResponse is what a request id maps to: first a pending marker while
// the handler runs, then the final status and body.
type storedResponse struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}

func (r storedResponse) replayable() bool {
	return !r.Pending && r.Status != 0 && len(r.Body) > 0
}

type responseStore struct {
	rdb redis.Cmdable
	// pendingTTL bounds how long a crashed handler can block its request id.
	pendingTTL time.Duration
	ttl        time.Duration
}

// reserve claims key for a pending request. It returns false when the key
// already exists.
func (s responseStore) reserve(ctx context.Context, key string, r storedResponse) (bool, error) {
	r.Pending = true
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.pendingTTL).Result()
}

func (s responseStore) load(ctx context.Context, key string) (storedResponse, error) {
	var r storedResponse
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return r, nil
	}
	if err != nil {
		return r, err
	}
	return r, json.Unmarshal(raw, &r)
}

func (s responseStore) commit(ctx context.Context, key string, r storedResponse) error {
	r.Pending = false
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s responseStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
