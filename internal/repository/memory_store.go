package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"uno_server/internal/game"
)

// MemoryStore keeps encoded snapshots in process. Used when Redis is not
// configured and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context) (map[string]*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make(map[string]*game.Session, len(m.rooms))
	for code, raw := range m.rooms {
		var sess game.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("decode room %s: %w", code, err)
		}
		sessions[code] = &sess
	}
	return sessions, nil
}

func (m *MemoryStore) Save(ctx context.Context, sess *game.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", sess.Code, err)
	}

	m.mu.Lock()
	m.rooms[sess.Code] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	return nil
}

// Codes lists stored rooms.
func (m *MemoryStore) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}
