package idempotency

import (
	"context"
	"sync"
	"time"

	clockport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[idempotency.Fingerprint]idempotency.Record

	// ttl of zero keeps records forever.
	ttl time.Duration
	clk clockport.Clock
}

type Option func(*Store)

// WithTTL makes records older than ttl (by CreatedAt, per clk) invisible and
// prunes them on write.
func WithTTL(ttl time.Duration, clk clockport.Clock) Option {
	return func(s *Store) {
		s.ttl = ttl
		if clk != nil {
			s.clk = clk
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		m:   make(map[idempotency.Fingerprint]idempotency.Record),
		clk: systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.m[fp]
	if !ok || s.expired(rec, s.clk.Now()) {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clk.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if s.ttl > 0 {
		for k, v := range s.m {
			if s.expired(v, now) {
				delete(s.m, k)
			}
		}
	}
	s.m[fp] = cloneRecord(rec)
	return nil
}

// Len reports how many records are held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) expired(rec idempotency.Record, now time.Time) bool {
	return s.ttl > 0 && now.Sub(rec.CreatedAt) >= s.ttl
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
