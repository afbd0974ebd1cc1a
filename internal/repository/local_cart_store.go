package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/nexus-cart/internal/domain"
	"github.com/nikolayk812/nexus-cart/internal/port"
)

type localEntryEntity struct {
	ProductID uuid.UUID               `json:"productId"`
	Selection map[string]optionEntity `json:"selection"`
	Quantity  int                     `json:"quantity"`
}

// localCartStore keeps each session's anonymous cart as a serialized ordered
// list, the way a browser-scoped key-value store would.
type localCartStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewLocalCartStore() port.LocalCartStore {
	return &localCartStore{data: make(map[string][]byte)}
}

func (s *localCartStore) Entries(_ context.Context, sessionID string) ([]domain.LocalCartEntry, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	s.mu.RLock()
	raw, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	return decodeLocalEntries(raw)
}

func (s *localCartStore) Save(_ context.Context, sessionID string, entries []domain.LocalCartEntry) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	raw, err := encodeLocalEntries(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.put(sessionID, raw)
	s.mu.Unlock()

	return nil
}

// Update reads, transforms and writes the session's entries under one write
// lock. When fn fails nothing is written.
func (s *localCartStore) Update(
	_ context.Context,
	sessionID string,
	fn func(entries []domain.LocalCartEntry) ([]domain.LocalCartEntry, error),
) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.LocalCartEntry
	if raw, ok := s.data[sessionID]; ok {
		decoded, err := decodeLocalEntries(raw)
		if err != nil {
			return err
		}
		entries = decoded
	}

	updated, err := fn(entries)
	if err != nil {
		return err
	}

	raw, err := encodeLocalEntries(updated)
	if err != nil {
		return err
	}
	s.put(sessionID, raw)

	return nil
}

func (s *localCartStore) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	s.mu.Lock()
	delete(s.data, sessionID)
	s.mu.Unlock()

	return nil
}

// put must be called with mu held. A nil raw drops the session.
func (s *localCartStore) put(sessionID string, raw []byte) {
	if raw == nil {
		delete(s.data, sessionID)
		return
	}
	s.data[sessionID] = raw
}

func decodeLocalEntries(raw []byte) ([]domain.LocalCartEntry, error) {
	var entities []localEntryEntity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	entries := make([]domain.LocalCartEntry, 0, len(entities))
	for _, e := range entities {
		sel := make(domain.ConfigSelection, len(e.Selection))
		for category, opt := range e.Selection {
			sel[domain.Category(category)] = domain.ConfigOption{Name: opt.Name, Price: opt.Price}
		}

		entries = append(entries, domain.LocalCartEntry{
			ProductID: e.ProductID,
			Selection: sel,
			Quantity:  e.Quantity,
		})
	}

	return entries, nil
}

// encodeLocalEntries returns nil for an empty list.
func encodeLocalEntries(entries []domain.LocalCartEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	entities := make([]localEntryEntity, 0, len(entries))
	for _, e := range entries {
		sel := make(map[string]optionEntity, len(e.Selection))
		for category, opt := range e.Selection {
			sel[string(category)] = optionEntity{Name: opt.Name, Price: opt.Price}
		}

		entities = append(entities, localEntryEntity{
			ProductID: e.ProductID,
			Selection: sel,
			Quantity:  e.Quantity,
		})
	}

	raw, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return raw, nil
}
