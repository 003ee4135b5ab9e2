package editor

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	clientDraftKeyPrefix = "draft:client:"
	branchDraftKeyPrefix = "draft:branch:"

	// Drafts outlive the one-hour session slightly so a login refresh does
	// not drop form state.
	draftTTL = 2 * time.Hour
)

// Store persists drafts between requests, keyed by session id. A missing or
// malformed entry reads back as nil; the controllers then start a fresh
// draft.
type Store struct {
	storage fiber.Storage
}

func NewStore(storage fiber.Storage) *Store {
	return &Store{storage: storage}
}

// GetClient returns the session's client draft, or nil when absent.
func (s *Store) GetClient(sessionID string) *ClientDraft {
	raw, err := s.storage.Get(clientDraftKeyPrefix + sessionID)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var d ClientDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}

// PutClient saves the session's client draft.
func (s *Store) PutClient(sessionID string, d *ClientDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.storage.Set(clientDraftKeyPrefix+sessionID, raw, draftTTL)
}

// DeleteClient drops the session's client draft (after submit or clear).
func (s *Store) DeleteClient(sessionID string) error {
	return s.storage.Delete(clientDraftKeyPrefix + sessionID)
}

// GetBranch returns the session's branch draft, or nil when absent.
func (s *Store) GetBranch(sessionID string) *BranchDraft {
	raw, err := s.storage.Get(branchDraftKeyPrefix + sessionID)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var d BranchDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}

// PutBranch saves the session's branch draft.
func (s *Store) PutBranch(sessionID string, d *BranchDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.storage.Set(branchDraftKeyPrefix+sessionID, raw, draftTTL)
}

// DeleteBranch drops the session's branch draft.
func (s *Store) DeleteBranch(sessionID string) error {
	return s.storage.Delete(branchDraftKeyPrefix + sessionID)
}
