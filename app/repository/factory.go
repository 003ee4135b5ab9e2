package repository

import (
	"sync"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	storage Storage
	repos   *Repositories
	once    sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(storage Storage) *Factory {
	return &Factory{
		storage: storage,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.storage)
	})
	return f.repos
}

// GetClientRepository returns the client repository instance
func (f *Factory) GetClientRepository() ClientRepository {
	return f.GetRepositories().Client
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// Global factory instance
var (
	globalFactory *Factory
	factoryMu     sync.Mutex
)

// InitializeFactory initializes the global repository factory.
func InitializeFactory(storage Storage) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if globalFactory == nil {
		globalFactory = NewFactory(storage)
	}
}

// ResetFactory clears the global factory. Tests use it to install a fresh
// storage backend.
func ResetFactory(storage Storage) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	globalFactory = NewFactory(storage)
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
