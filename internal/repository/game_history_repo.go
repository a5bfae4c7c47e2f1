package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"uno_server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameHistoryRepository struct {
	db *pgxpool.Pool
}

func NewGameHistoryRepository(db *pgxpool.Pool) *GameHistoryRepository {
	return &GameHistoryRepository{db: db}
}

// Create сохраняет законченную игру в историю
func (r *GameHistoryRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	playersJSON, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO game_history (room_code, winner, players)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		rec.RoomCode,
		rec.Winner,
		playersJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetByPlayerName возвращает последние игры, в которых участвовал игрок
func (r *GameHistoryRepository) GetByPlayerName(ctx context.Context, name string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	playerJSON, err := json.Marshal([]string{name})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, room_code, winner, players, created_at
		 FROM game_history
		 WHERE players @> $1::jsonb
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerJSON, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountWins считает победы игрока
func (r *GameHistoryRepository) CountWins(ctx context.Context, name string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM game_history WHERE winner = $1`,
		name,
	).Scan(&count)
	return count, err
}

func scanRecords(rows pgx.Rows) ([]*domain.GameRecord, error) {
	result := make([]*domain.GameRecord, 0)

	for rows.Next() {
		var (
			rec         domain.GameRecord
			playersJSON []byte
		)
		if err := rows.Scan(&rec.ID, &rec.RoomCode, &rec.Winner, &playersJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		players, err := decodePlayers(playersJSON)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", rec.ID, err)
		}
		rec.Players = players
		result = append(result, &rec)
	}

	return result, rows.Err()
}

// decodePlayers reads the players column. NULL gives no players.
func decodePlayers(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var players []string
	if err := json.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	return players, nil
}
