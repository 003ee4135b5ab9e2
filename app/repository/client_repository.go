package repository

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/khudpay/onboard/app/models"
)

// ClientsStorageKey is the single key holding the JSON-serialized client
// collection, the unit of persistence for the whole console.
const ClientsStorageKey = "clients"

// clientRepository implements the ClientRepository interface. It keeps an
// in-memory copy of the collection, invalidated on every write, and guards
// the read-modify-write cycle with a mutex so the process is a single
// writer.
type clientRepository struct {
	storage Storage

	mu     sync.Mutex
	cache  []models.ClientRecord
	loaded bool
}

// NewClientRepository creates a new client repository instance.
func NewClientRepository(storage Storage) ClientRepository {
	return &clientRepository{storage: storage}
}

func (r *clientRepository) Load() []models.ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyCollection(r.load())
}

// load returns the cached collection, reading storage on first use.
// Missing or malformed data fails soft to an empty collection.
// Callers must hold r.mu.
func (r *clientRepository) load() []models.ClientRecord {
	if r.loaded {
		return r.cache
	}

	r.cache = []models.ClientRecord{}
	r.loaded = true

	raw, err := r.storage.Get(ClientsStorageKey)
	if err != nil || len(raw) == 0 {
		return r.cache
	}

	var collection []models.ClientRecord
	if err := json.Unmarshal(raw, &collection); err != nil {
		log.Printf("client storage is malformed, treating as empty: %v", err)
		return r.cache
	}

	r.cache = collection
	return r.cache
}

func (r *clientRepository) Save(collection []models.ClientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(collection)
}

// save overwrites the storage key with the entire collection and refreshes
// the cache. Callers must hold r.mu.
func (r *clientRepository) save(collection []models.ClientRecord) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	if err := r.storage.Set(ClientsStorageKey, raw, 0); err != nil {
		// Write failed; the cache may no longer match storage.
		r.loaded = false
		return err
	}
	r.cache = copyCollection(collection)
	r.loaded = true
	return nil
}

func (r *clientRepository) GetByID(id int64) (models.ClientRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.load() {
		if record.ID == id {
			return record, true
		}
	}
	return models.ClientRecord{}, false
}

func (r *clientRepository) Upsert(record models.ClientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := copyCollection(r.load())
	for i := range collection {
		if collection[i].ID == record.ID {
			collection[i] = record
			return r.save(collection)
		}
	}
	return r.save(append(collection, record))
}

func (r *clientRepository) DeleteByID(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load()
	collection := make([]models.ClientRecord, 0, len(current))
	for _, record := range current {
		if record.ID != id {
			collection = append(collection, record)
		}
	}
	return r.save(collection)
}

func (r *clientRepository) DeleteBranch(clientID int64, branchIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := copyCollection(r.load())
	for i := range collection {
		if collection[i].ID != clientID {
			continue
		}
		branches := collection[i].Branches
		if branchIndex < 0 || branchIndex >= len(branches) {
			return nil
		}
		collection[i].Branches = append(branches[:branchIndex], branches[branchIndex+1:]...)
		return r.save(collection)
	}
	return nil
}

func (r *clientRepository) DeleteAPI(clientID int64, branchIndex, apiIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := copyCollection(r.load())
	for i := range collection {
		if collection[i].ID != clientID {
			continue
		}
		if branchIndex < 0 || branchIndex >= len(collection[i].Branches) {
			return nil
		}
		apis := collection[i].Branches[branchIndex].Apis
		if apiIndex < 0 || apiIndex >= len(apis) {
			return nil
		}
		collection[i].Branches[branchIndex].Apis = append(apis[:apiIndex], apis[apiIndex+1:]...)
		return r.save(collection)
	}
	return nil
}

func (r *clientRepository) SearchByName(query string) []models.ClientRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(query)
	var matches []models.ClientRecord
	for _, record := range r.load() {
		if strings.Contains(strings.ToLower(record.ClientName), needle) {
			matches = append(matches, record)
		}
	}
	return copyCollection(matches)
}

// copyCollection deep-copies the nested slices so callers can never mutate
// the cache behind the repository's back.
func copyCollection(collection []models.ClientRecord) []models.ClientRecord {
	out := make([]models.ClientRecord, len(collection))
	for i, record := range collection {
		out[i] = record
		out[i].Contracts = make([]models.ContractPeriod, len(record.Contracts))
		copy(out[i].Contracts, record.Contracts)
		out[i].Branches = make([]models.BranchRecord, len(record.Branches))
		for j, branch := range record.Branches {
			out[i].Branches[j] = branch
			out[i].Branches[j].Apis = make([]models.ApiEntry, len(branch.Apis))
			copy(out[i].Branches[j].Apis, branch.Apis)
		}
	}
	return out
}
