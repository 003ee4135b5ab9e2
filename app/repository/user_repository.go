package repository

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/khudpay/onboard/app/models"
)

// UsersStorageKey holds the JSON-serialized account collection.
const UsersStorageKey = "users"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrMobileTaken  = errors.New("an account with this mobile number already exists")
)

// userRepository implements the UserRepository interface with the same
// whole-collection storage semantics as the client repository.
type userRepository struct {
	storage Storage

	mu     sync.Mutex
	cache  []models.User
	loaded bool
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(storage Storage) UserRepository {
	return &userRepository{storage: storage}
}

// load reads the account collection, failing soft to empty.
// Callers must hold r.mu.
func (r *userRepository) load() []models.User {
	if r.loaded {
		return r.cache
	}

	r.cache = []models.User{}
	r.loaded = true

	raw, err := r.storage.Get(UsersStorageKey)
	if err != nil || len(raw) == 0 {
		return r.cache
	}

	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		log.Printf("user storage is malformed, treating as empty: %v", err)
		return r.cache
	}

	r.cache = users
	return r.cache
}

// save overwrites the storage key. Callers must hold r.mu.
func (r *userRepository) save(users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	if err := r.storage.Set(UsersStorageKey, raw, 0); err != nil {
		r.loaded = false
		return err
	}
	r.cache = append([]models.User(nil), users...)
	r.loaded = true
	return nil
}

// Create appends the account. The first account in an empty store is
// promoted to the admin role; the emptiness check and the write happen
// under the same lock, so concurrent signups produce exactly one admin.
func (r *userRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load()
	for _, existing := range users {
		if existing.Mobile == user.Mobile {
			return ErrMobileTaken
		}
	}
	if len(users) == 0 {
		user.Role = models.ROLE_ADMIN
	}
	return r.save(append(append([]models.User(nil), users...), *user))
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.load() {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) GetByMobile(mobile string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.load() {
		if user.Mobile == mobile {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := append([]models.User(nil), r.load()...)
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			return r.save(users)
		}
	}
	return ErrUserNotFound
}

func (r *userRepository) List() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]models.User(nil), r.load()...)
}

func (r *userRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.load())
}
