package snapshot

import (
	"context"
	"sync"
)

// Token identifies one fetch started by Tracker.Begin.
type Token uint64

type flight struct {
	token  Token
	cancel context.CancelFunc
}

// Tracker hands out generation tokens per fetch key. Starting a fetch cancels
// the previous in-flight fetch for the same key, and only the latest fetch may
// commit its result.
type Tracker struct {
	mu       sync.Mutex
	seq      Token
	inflight map[string]flight
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{inflight: make(map[string]flight)}
}

// Begin starts a fetch for key. The returned context is cancelled when a newer
// fetch for the same key begins, or when the fetch commits.
func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, Token) {
	fctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.seq++
	tok := t.seq
	prev, ok := t.inflight[key]
	t.inflight[key] = flight{token: tok, cancel: cancel}
	t.mu.Unlock()

	if ok {
		prev.cancel()
	}
	return fctx, tok
}

// Commit ends the fetch identified by tok and reports whether it is still the
// latest one for key. A false result means the response is stale and must be
// discarded.
func (t *Tracker) Commit(key string, tok Token) bool {
	t.mu.Lock()
	cur, ok := t.inflight[key]
	current := ok && cur.token == tok
	if current {
		delete(t.inflight, key)
	}
	t.mu.Unlock()

	if current {
		cur.cancel()
	}
	return current
}

// CancelAll aborts every in-flight fetch, e.g. on logout.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	flights := t.inflight
	t.inflight = make(map[string]flight)
	t.mu.Unlock()

	for _, f := range flights {
		f.cancel()
	}
}

// InFlight reports whether a fetch for key has begun and not committed.
func (t *Tracker) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inflight[key]
	return ok
}
