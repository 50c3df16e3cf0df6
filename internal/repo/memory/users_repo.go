package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/showfinder/internal/domain/user"
)

type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]user.User // keyed by email
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, params user.CreateParams) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[params.Email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	r.nextID++

	u := user.User{
		ID:           r.nextID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		DisplayName:  params.DisplayName,
		CityName:     params.CityName,
		Lat:          params.Lat,
		Long:         params.Long,
		CreatedAt:    time.Now().UTC(),
	}
	r.items[u.Email] = u

	return u, nil
}

// Count reports how many users exist.
func (r *UsersRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
