package repository

import "time"

// Storage is the subset of the gofiber storage contract the repositories
// need. Production wires gofiber/storage/redis; tests use a map fake.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}
