package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/docvault-console/internal/models"
)

type userRecord struct {
	user     models.User
	password string
}

// userRepo is the in-memory implementation of UserRepository
type userRepo struct {
	mu     sync.RWMutex
	clock  Clock
	nextID int
	byID   map[int]*userRecord
}

// NewUserRepo creates a new user repository
func NewUserRepo(clock Clock) UserRepository {
	return &userRepo{
		clock:  clock,
		nextID: 1,
		byID:   make(map[int]*userRecord),
	}
}

// Create inserts a new account; ID and CreatedAt are assigned here
func (r *userRepo) Create(ctx context.Context, user *models.User, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(user.Username) != nil {
		return ErrDuplicate
	}

	user.ID = r.nextID
	user.CreatedAt = stamp(r.clock)
	r.nextID++
	r.byID[user.ID] = &userRecord{user: *user, password: password}
	return nil
}

// Authenticate returns the account when the credentials match, nil otherwise
func (r *userRepo) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := r.findLocked(username)
	if rec == nil || rec.password != password {
		return nil, nil
	}
	u := rec.user
	return &u, nil
}

// GetByID retrieves an account by ID
func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u := rec.user
	return &u, nil
}

// GetByUsername retrieves an account by login
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := r.findLocked(username)
	if rec == nil {
		return nil, nil
	}
	u := rec.user
	return &u, nil
}

// List returns all accounts ordered by ID
func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.byID))
	for _, rec := range r.byID {
		users = append(users, rec.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Update changes name, login and role; nil when the account does not exist
func (r *userRepo) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if other := r.findLocked(req.Username); other != nil && other.user.ID != id {
		return nil, ErrDuplicate
	}

	rec.user.FullName = req.FullName
	rec.user.Username = req.Username
	rec.user.Role = req.Role
	u := rec.user
	return &u, nil
}

// Delete removes an account and reports whether it existed
func (r *userRepo) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// Count returns the total number of accounts
func (r *userRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *userRepo) findLocked(username string) *userRecord {
	for _, rec := range r.byID {
		if rec.user.Username == username {
			return rec
		}
	}
	return nil
}
