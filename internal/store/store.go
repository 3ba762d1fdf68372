// Package store wraps the Redis client with the small record-store surface
// the repositories need: field-map reads and writes, key-pattern
// enumeration, per-key TTL, atomic pipelined batches, atomic counter
// increments and server-side scripts.  All reads and writes of shared seat
// state go through here; there is no in-process locking anywhere in the
// service, the store's atomic primitives are the only synchronization.
package store

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxAttempts bounds the retry loop for transient I/O failures.  Business
// rule failures are never retried; they are not errors at this layer.
const maxAttempts = 3

// retryBase is the first backoff step; it doubles per attempt.
const retryBase = 50 * time.Millisecond

// Entry pairs a record key with its field map for batched writes.
type Entry struct {
	Key    string
	Fields map[string]string
}

// RecordStore is the durable record store used by every repository.
type RecordStore struct {
	rdb *redis.Client
}

// New returns a RecordStore over the given Redis client.
func New(rdb *redis.Client) *RecordStore {
	if rdb == nil {
		panic("nil redis client passed to store.New")
	}
	return &RecordStore{rdb: rdb}
}

// Client exposes the underlying Redis client for collaborators that speak
// Redis directly, such as the rate-limit middleware.
func (s *RecordStore) Client() *redis.Client { return s.rdb }

// Exists reports whether a record exists at the given key.
func (s *RecordStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := s.do(ctx, func() error {
		var err error
		n, err = s.rdb.Exists(ctx, key).Result()
		return err
	})
	return n > 0, err
}

// GetFields reads a full field map.  A missing key yields an empty map, not
// an error; decoders treat the empty map as record absence.
func (s *RecordStore) GetFields(ctx context.Context, key string) (map[string]string, error) {
	var m map[string]string
	err := s.do(ctx, func() error {
		var err error
		m, err = s.rdb.HGetAll(ctx, key).Result()
		return err
	})
	return m, err
}

// SetFields writes (merges) a field map at the given key.
func (s *RecordStore) SetFields(ctx context.Context, key string, fields map[string]string) error {
	return s.do(ctx, func() error {
		return s.rdb.HSet(ctx, key, flatten(fields)...).Err()
	})
}

// Expire sets the TTL of a key.
func (s *RecordStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.do(ctx, func() error {
		return s.rdb.Expire(ctx, key, ttl).Err()
	})
}

// IncrFieldBy atomically adds delta to an integer field and returns the new
// value.  This is the only way shared counters are ever mutated.
func (s *RecordStore) IncrFieldBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	var n int64
	err := s.do(ctx, func() error {
		var err error
		n, err = s.rdb.HIncrBy(ctx, key, field, delta).Result()
		return err
	})
	return n, err
}

// ScanKeys enumerates all keys matching the pattern.  SCAN is used instead
// of KEYS so large keyspaces do not block the server.
func (s *RecordStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	err := s.do(ctx, func() error {
		keys = keys[:0]
		iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		return iter.Err()
	})
	return keys, err
}

// Delete removes the given keys in one call.  Deleting zero keys is a no-op.
func (s *RecordStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.do(ctx, func() error {
		return s.rdb.Del(ctx, keys...).Err()
	})
}

// BatchSet writes all entries in one atomic transaction.  Either every
// field map is applied or none is; concurrent batches touching the same
// keys never observe a partial write.
func (s *RecordStore) BatchSet(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.do(ctx, func() error {
		pipe := s.rdb.TxPipeline()
		for _, e := range entries {
			pipe.HSet(ctx, e.Key, flatten(e.Fields)...)
		}
		_, err := pipe.Exec(ctx)
		return err
	})
}

// BatchGet reads the field maps of all keys in one pipelined round trip.
// The result slice is positionally aligned with keys; missing records come
// back as empty maps.
func (s *RecordStore) BatchGet(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var out []map[string]string
	err := s.do(ctx, func() error {
		pipe := s.rdb.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, len(keys))
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		out = make([]map[string]string, len(keys))
		for i, cmd := range cmds {
			out[i] = cmd.Val()
		}
		return nil
	})
	return out, err
}

// RunScript executes a server-side script.  Scripts are the check-and-set
// primitive of this service: every conditional state transition on seats
// and holds is a single script invocation, never a read call followed by a
// write call.
func (s *RecordStore) RunScript(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (interface{}, error) {
	var val interface{}
	err := s.do(ctx, func() error {
		var err error
		val, err = script.Run(ctx, s.rdb, keys, args...).Result()
		return err
	})
	return val, err
}

// do runs fn, retrying transient I/O failures with doubling backoff up to
// maxAttempts.  Cancellation and non-transient errors surface immediately.
func (s *RecordStore) do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBase << (attempt - 1)):
			}
		}
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
	}
	return err
}

// isTransient reports whether an error is a network-level failure worth one
// more attempt.  Context cancellation is not transient: the caller gave up.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// flatten converts a field map to the alternating key/value slice HSET takes.
func flatten(fields map[string]string) []interface{} {
	out := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
