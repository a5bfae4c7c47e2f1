package domain

import "time"

// GameRecord is one finished game: a player emptied their hand.
type GameRecord struct {
	ID        int64     `db:"id" json:"id"`
	RoomCode  string    `db:"room_code" json:"room_code"`
	Winner    string    `db:"winner" json:"winner"`
	Players   []string  `db:"players" json:"players"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
