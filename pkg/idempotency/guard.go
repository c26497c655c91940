// Package idempotency makes mutating endpoints safe to retry. A request
// carrying an Idempotency-Key is executed once; replays with the same key and
// body get the recorded response, replays with a different body are conflicts.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrConflict = errors.New("idempotency key reused with a different request body")

// Record is the stored outcome of the first execution.
type Record struct {
	BodyHash   string
	StatusCode int
	Body       []byte
}

// Guard is a TTL-bounded key-value store of executed mutations.
type Guard struct {
	store *cache.Cache
}

func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{
		store: cache.New(ttl, 10*time.Minute),
	}
}

// BodyHash binds the key to (household, route, request body).
func BodyHash(householdId, route string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(householdId))
	h.Write([]byte{0})
	h.Write([]byte(route))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Check looks up a prior execution. A nil record with nil error means the
// caller should execute normally and Store the result.
func (g *Guard) Check(token, bodyHash string) (*Record, error) {
	v, found := g.store.Get(token)
	if !found {
		return nil, nil
	}
	rec := v.(*Record)
	if rec.BodyHash != bodyHash {
		return nil, ErrConflict
	}
	return rec, nil
}

// Store records the first execution's response for later replay.
func (g *Guard) Store(token, bodyHash string, statusCode int, body []byte) {
	buf := make([]byte, len(body))
	copy(buf, body)
	g.store.Set(token, &Record{
		BodyHash:   bodyHash,
		StatusCode: statusCode,
		Body:       buf,
	}, cache.DefaultExpiration)
}
