package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a cached upstream payload stamped with the time it was fetched.
type Entry struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Payload   json.RawMessage `json:"payload"`
}

// Age reports how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Result labels what GetOrRefresh did, for metrics.
type Result string

const (
	ResultHit    Result = "hit"
	ResultMiss   Result = "miss"
	ResultBypass Result = "bypass"
	ResultError  Result = "error"
)

type FetchFunc func(ctx context.Context) ([]byte, error)

// DefaultFetchTimeout bounds a shared refresh when FetchTimeout is unset.
const DefaultFetchTimeout = 30 * time.Second

// Refresher serves payloads from a Store while they are younger than the
// requested ttl and refetches them otherwise. Concurrent refreshes of the
// same key share one upstream call.
type Refresher struct {
	Store   Store
	Now     func() time.Time
	Observe func(key string, result Result)

	// FetchTimeout bounds a shared refresh, which runs detached from the
	// cancellation of the caller that started it.
	FetchTimeout time.Duration

	group singleflight.Group
}

func NewRefresher(store Store) *Refresher {
	return &Refresher{Store: store, Now: time.Now}
}

// GetOrRefresh returns the cached entry for key when it is younger than ttl.
// ttl <= 0 bypasses the cache entirely. Fetch errors are returned as-is and
// nothing is stored for them.
func (r *Refresher) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) (Entry, error) {
	if ttl <= 0 || r.Store == nil {
		body, err := fetch(ctx)
		if err != nil {
			r.observe(key, ResultError)
			return Entry{}, err
		}
		r.observe(key, ResultBypass)
		return Entry{FetchedAt: r.now(), Payload: body}, nil
	}

	if entry, ok := r.lookup(ctx, key, ttl); ok {
		r.observe(key, ResultHit)
		return entry, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.fetchTimeout())
		defer cancel()

		// Another caller may have refreshed while we waited on the group.
		if entry, ok := r.lookup(ctx, key, ttl); ok {
			return entry, nil
		}
		body, err := fetch(ctx)
		if err != nil {
			return Entry{}, err
		}
		entry := Entry{FetchedAt: r.now(), Payload: body}
		raw, err := json.Marshal(entry)
		if err != nil {
			return Entry{}, fmt.Errorf("encode cache entry: %w", err)
		}
		if err := r.Store.Set(ctx, key, raw, ttl); err != nil {
			return Entry{}, fmt.Errorf("cache set %s: %w", key, err)
		}
		return entry, nil
	})
	if err != nil {
		r.observe(key, ResultError)
		return Entry{}, err
	}
	r.observe(key, ResultMiss)
	return v.(Entry), nil
}

// Invalidate drops key so the next call refetches.
func (r *Refresher) Invalidate(ctx context.Context, key string) error {
	if r.Store == nil {
		return nil
	}
	return r.Store.Delete(ctx, key)
}

func (r *Refresher) lookup(ctx context.Context, key string, ttl time.Duration) (Entry, bool) {
	raw, found, err := r.Store.Get(ctx, key)
	if err != nil || !found {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	if entry.Age(r.now()) >= ttl {
		return Entry{}, false
	}
	return entry, true
}

func (r *Refresher) fetchTimeout() time.Duration {
	if r.FetchTimeout > 0 {
		return r.FetchTimeout
	}
	return DefaultFetchTimeout
}

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Refresher) observe(key string, result Result) {
	if r.Observe != nil {
		r.Observe(key, result)
	}
}
