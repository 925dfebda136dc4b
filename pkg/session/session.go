// Package session keeps live layout engines for the HTTP host.
//
// A session pairs a manifest with the [mosaic.Layout] packing it, so that a
// scrolling client can query frames rectangle by rectangle while the engine
// amortizes packing across requests. The engine itself is single-threaded;
// every access goes through [Session.Do], which holds one mutex around
// packing and caching for the whole epoch.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(m, mosaic.Options{Viewport: geom.Size{W: 400, H: 800}}, session.DefaultTTL)
//	_ = store.Set(ctx, sess)
//
//	err := sess.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
//	    frames = l.FramesForRect(visible)
//	    return nil
//	})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Default durations.
const (
	// DefaultTTL is how long an idle session lives.
	DefaultTTL = 30 * time.Minute

	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = time.Minute
)

// Session is one live layout over a manifest.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	ttl       time.Duration
	expiresAt time.Time
	manifest  *manifest.Manifest
	layout    *mosaic.Layout
}

// New creates a session with a fresh random ID.
func New(m *manifest.Manifest, opts mosaic.Options, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts.Insets = m
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
		manifest:  m,
		layout:    mosaic.New(m, m, opts),
	}
}

// Do runs fn with exclusive access to the manifest and layout, and extends
// the session's lifetime.
func (s *Session) Do(fn func(m *manifest.Manifest, l *mosaic.Layout) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
	return fn(s.manifest, s.layout)
}

// IsExpired reports whether the session has been idle past its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// Info is a serializable summary of a session.
type Info struct {
	ID        string       `json:"id"`
	Groups    int          `json:"groups"`
	Items     int          `json:"items"`
	Axis      string       `json:"axis"`
	Unit      geom.Size    `json:"unit"`
	Viewport  geom.Size    `json:"viewport"`
	Capacity  int          `json:"capacity"`
	Extent    geom.Size    `json:"content_extent"`
	Stats     mosaic.Stats `json:"stats"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	var info Info
	_ = s.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		info = Info{
			ID:        s.ID,
			Groups:    m.GroupCount(),
			Items:     m.Len(),
			Axis:      l.Axis().String(),
			Unit:      l.Unit(),
			Viewport:  l.Viewport(),
			Capacity:  l.Capacity(),
			Extent:    l.ContentExtent(),
			Stats:     l.Stats(),
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.expiresAt,
		}
		return nil
	})
	return info
}

// Insert adds an item to the manifest and tells the layout about it.
func (s *Session) Insert(id mosaic.ItemID, it manifest.Item) error {
	return s.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		if _, err := m.Insert(id, it); err != nil {
			return err
		}
		l.NotifyStructuralChange(mosaic.ChangeInsert, id)
		return nil
	})
}

// Remove deletes an item from the manifest and tells the layout about it.
func (s *Session) Remove(id mosaic.ItemID) error {
	return s.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		if _, err := m.Remove(id); err != nil {
			return err
		}
		l.NotifyStructuralChange(mosaic.ChangeDelete, id)
		return nil
	})
}

// Move relocates an item and tells the layout about it.
func (s *Session) Move(from, to mosaic.ItemID) error {
	return s.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		if _, err := m.Move(from, to); err != nil {
			return err
		}
		l.NotifyStructuralChange(mosaic.ChangeMove, to)
		return nil
	})
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a live session. Missing and expired sessions both
	// return an ErrCodeSessionNotFound error.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if sess.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	return sess, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Cleanup implements Store.
func (s *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.IsExpired() {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ Store = (*MemoryStore)(nil)

// RunCleanup sweeps expired sessions every interval until ctx is done.
func RunCleanup(ctx context.Context, store Store, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", "err", err)
			} else if n > 0 {
				logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
