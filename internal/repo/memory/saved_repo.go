package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/showfinder/internal/domain/saved"
)

type savedKey struct {
	userID int64
	tmID   string
}

// SavedRepo mirrors the postgres saved table, including the (user_id, tm_id)
// uniqueness constraint.
type SavedRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]saved.Concert
	keys   map[savedKey]int64
}

func NewSavedRepo() *SavedRepo {
	return &SavedRepo{
		items: make(map[int64]saved.Concert),
		keys:  make(map[savedKey]int64),
	}
}

func (r *SavedRepo) ListByUser(_ context.Context, userID int64) ([]saved.Concert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]saved.Concert, 0)

	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *SavedRepo) Create(_ context.Context, req saved.CreateSavedRequest) (saved.Concert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := savedKey{userID: req.UserID, tmID: req.TMID}

	if _, ok := r.keys[key]; ok {
		return saved.Concert{}, saved.ErrAlreadySaved
	}

	r.nextID++

	c := saved.NewFromCreateRequest(req)
	c.ID = r.nextID

	r.items[c.ID] = c
	r.keys[key] = c.ID

	return c, nil
}

func (r *SavedRepo) DeleteForUser(_ context.Context, userID, id int64) (saved.Concert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok || c.UserID != userID {
		return saved.Concert{}, saved.ErrNotFound
	}

	delete(r.items, id)
	delete(r.keys, savedKey{userID: c.UserID, tmID: c.TMID})

	return c, nil
}
