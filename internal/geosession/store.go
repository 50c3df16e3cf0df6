// Package geosession remembers the last geocoded location per caller session
// so the nearby lookup can default to it. Nothing is shared across sessions.
package geosession

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/showfinder/internal/cache"
	"github.com/geocoder89/showfinder/internal/domain/location"
)

const maxSessionIDLen = 128

type Store interface {
	Save(ctx context.Context, key string, loc location.Location) error
	Load(ctx context.Context, key string) (location.Location, bool, error)
}

// Key derives the session key: the authenticated user wins over a client
// supplied session id. An empty key means the caller has no session.
func Key(userID int64, sessionID string) string {
	if userID > 0 {
		return "user:" + strconv.FormatInt(userID, 10)
	}

	sessionID = strings.TrimSpace(sessionID)

	if sessionID == "" || len(sessionID) > maxSessionIDLen {
		return ""
	}

	return "sid:" + sessionID
}

// MemoryStore keeps sessions in process. A background sweeper evicts expired
// sessions so ids that are never read again do not accumulate.
type MemoryStore struct {
	c    *cache.Cache[location.Location]
	stop func()
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	c := cache.New[location.Location](ttl)

	interval := ttl
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}

	return &MemoryStore{c: c, stop: c.StartSweeper(interval)}
}

// Close stops the sweeper.
func (s *MemoryStore) Close() {
	s.stop()
}

// Len counts stored sessions, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.c.Len()
}

func (s *MemoryStore) Save(_ context.Context, key string, loc location.Location) error {
	s.c.Set(key, loc)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (location.Location, bool, error) {
	loc, ok := s.c.Get(key)
	return loc, ok, nil
}
