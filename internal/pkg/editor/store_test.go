package editor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage is a map-backed fiber.Storage for tests.
type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStorage) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *memStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStorage) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

func (m *memStorage) Close() error { return nil }

func TestStoreClientDraftRoundTrip(t *testing.T) {
	store := NewStore(newMemStorage())

	d := NewClientDraft()
	d.ApplyForm(ClientForm{ClientName: "Acme Retail"})
	seq := d.SelectCountry("India")
	d.ApplyStateOptions(seq, []string{"Kerala"})

	require.NoError(t, store.PutClient("sess-1", d))

	got := store.GetClient("sess-1")
	require.NotNil(t, got)
	assert.Equal(t, "Acme Retail", got.Record.ClientName)
	assert.Equal(t, []string{"Kerala"}, got.StateOptions)
	assert.Equal(t, d.LookupSeq, got.LookupSeq)
}

func TestStoreDraftsAreSessionScoped(t *testing.T) {
	store := NewStore(newMemStorage())

	a := NewClientDraft()
	a.ApplyForm(ClientForm{ClientName: "Client A"})
	require.NoError(t, store.PutClient("sess-a", a))

	assert.Nil(t, store.GetClient("sess-b"))
}

func TestStoreBranchDraftRoundTrip(t *testing.T) {
	store := NewStore(newMemStorage())

	b := NewBranchDraft(nil)
	b.SetBranchName("Downtown")
	require.NoError(t, store.PutBranch("sess-1", b))

	got := store.GetBranch("sess-1")
	require.NotNil(t, got)
	assert.Equal(t, "Downtown", got.Record.BranchName)

	require.NoError(t, store.DeleteBranch("sess-1"))
	assert.Nil(t, store.GetBranch("sess-1"))
}

func TestStoreMalformedDraftReadsAsMissing(t *testing.T) {
	storage := newMemStorage()
	require.NoError(t, storage.Set(clientDraftKeyPrefix+"sess-1", []byte("{broken"), 0))

	store := NewStore(storage)
	assert.Nil(t, store.GetClient("sess-1"))
}
