package server

import (
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	// ErrUserExists is returned when a roll number is registered twice.
	ErrUserExists = errors.New("server: user already exists")
	// ErrInvalidUser is returned for registrations missing a field.
	ErrInvalidUser = errors.New("server: roll number and name are required")
)

// Registry is an in-memory user store keyed by roll number.
type Registry struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]model.User)}
}

// Create registers user. Roll number and name are trimmed and both required.
func (r *Registry) Create(user model.User) (model.User, error) {
	user.RollNumber = strings.TrimSpace(user.RollNumber)
	user.Name = strings.TrimSpace(user.Name)
	if user.RollNumber == "" || user.Name == "" {
		return model.User{}, ErrInvalidUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.RollNumber]; ok {
		return model.User{}, ErrUserExists
	}
	r.users[user.RollNumber] = user
	return user, nil
}

// Lookup returns the user registered under rollNumber.
func (r *Registry) Lookup(rollNumber string) (model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[strings.TrimSpace(rollNumber)]
	return user, ok
}

// Len reports how many users are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
