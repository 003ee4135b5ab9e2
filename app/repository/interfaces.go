package repository

import (
	"github.com/khudpay/onboard/app/models"
)

// ClientRepository is the single gateway to the persisted client
// collection. The collection is stored whole under one key and rewritten
// atomically on every mutation; there is no partial-update primitive.
// Safe for a single process only (read-modify-write is last-write-wins
// across processes).
type ClientRepository interface {
	// Load returns the stored collection. A missing or malformed payload
	// reads as an empty collection, never as an error the caller sees.
	Load() []models.ClientRecord
	// Save serializes and overwrites the entire collection.
	Save(collection []models.ClientRecord) error

	GetByID(id int64) (models.ClientRecord, bool)
	// Upsert replaces the record matching the id, or appends it.
	Upsert(record models.ClientRecord) error
	DeleteByID(id int64) error
	// DeleteBranch removes one branch by position within its client.
	DeleteBranch(clientID int64, branchIndex int) error
	// DeleteAPI removes one API entry by position within its branch.
	DeleteAPI(clientID int64, branchIndex, apiIndex int) error
	// SearchByName filters by case-insensitive substring on the client name.
	SearchByName(query string) []models.ClientRecord
}

// UserRepository persists console accounts, stored as one collection under
// a second key with the same whole-slice semantics.
type UserRepository interface {
	// Create appends the account; the first account in an empty store
	// becomes the console admin.
	Create(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByMobile(mobile string) (*models.User, error)
	Update(user *models.User) error
	List() []models.User
	Count() int
}

// Repositories struct holds all repository instances
type Repositories struct {
	Client ClientRepository
	User   UserRepository
}

// NewRepositories creates a new instance of all repositories over one
// storage backend.
func NewRepositories(storage Storage) *Repositories {
	return &Repositories{
		Client: NewClientRepository(storage),
		User:   NewUserRepository(storage),
	}
}
