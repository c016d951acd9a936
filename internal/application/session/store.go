package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
	"github.com/kobina/pos-cart-service/internal/pkg/clock"
)

// Store owns the live terminal sessions. Idle sessions are dropped after the
// configured timeout, checked lazily on access and by the janitor sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	clk          clock.Clock
	cfg          Config
	idleTimeout  time.Duration
	loader       SnapshotLoader
	sink         ports.SaleSink
	registry     ports.CategoryRegistry
	newSessionID func() string
	newSaleID    func() string
	log          *zap.Logger
}

type StoreOptions struct {
	Clock        clock.Clock
	Config       Config
	IdleTimeout  time.Duration
	Loader       SnapshotLoader
	Sink         ports.SaleSink
	Registry     ports.CategoryRegistry
	NewSessionID func() string
	NewSaleID    func() string
	Logger       *zap.Logger
}

func NewStore(opts StoreOptions) *Store {
	return &Store{
		sessions:     make(map[string]*Session),
		clk:          opts.Clock,
		cfg:          opts.Config,
		idleTimeout:  opts.IdleTimeout,
		loader:       opts.Loader,
		sink:         opts.Sink,
		registry:     opts.Registry,
		newSessionID: opts.NewSessionID,
		newSaleID:    opts.NewSaleID,
		log:          opts.Logger,
	}
}

// Create opens a session against a freshly loaded snapshot.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	snapshot, err := st.loader(ctx)
	if err != nil {
		return nil, err
	}

	s := newSession(
		st.newSessionID(),
		snapshot,
		st.clk,
		st.cfg,
		st.loader,
		st.sink,
		st.registry,
		st.newSaleID,
		st.log,
	)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}

	if st.expired(s) {
		st.Remove(id)
		return nil, domainErrors.ErrSessionNotFound
	}

	return s, nil
}

func (st *Store) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session) bool {
	return st.idleTimeout > 0 && st.clk.Since(s.LastActive()) > st.idleTimeout
}

// Sweep drops every idle session. The janitor calls it on an interval.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.idleTimeout > 0 && st.clk.Since(s.LastActive()) > st.idleTimeout {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle sessions until the context is cancelled.
func (st *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := st.Sweep(); removed > 0 {
					st.log.Info("idle sessions removed", zap.Int("count", removed))
				}
			}
		}
	}()
}
