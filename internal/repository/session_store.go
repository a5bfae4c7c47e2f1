package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"uno_server/internal/game"
	"uno_server/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// DefaultSessionKey is the Redis hash holding one field per open room.
const DefaultSessionKey = "uno:rooms"

// SessionStore keeps room snapshots in a Redis hash.
type SessionStore struct {
	rdb *redis.Client
	key string
}

func NewSessionStore(rdb *redis.Client, key string) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionStore{rdb: rdb, key: key}
}

// Load reads every snapshot. Entries that fail to decode are skipped.
func (s *SessionStore) Load(ctx context.Context) (map[string]*game.Session, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", s.key, err)
	}

	sessions := make(map[string]*game.Session, len(fields))
	for code, raw := range fields {
		var sess game.Session
		if err := json.Unmarshal([]byte(raw), &sess); err != nil {
			logger.Warn("skipping unreadable room snapshot", "room", code, "error", err)
			continue
		}
		sessions[code] = &sess
	}
	return sessions, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *game.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", sess.Code, err)
	}
	if err := s.rdb.HSet(ctx, s.key, sess.Code, raw).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", sess.Code, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, code string) error {
	if err := s.rdb.HDel(ctx, s.key, code).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", code, err)
	}
	return nil
}
