package entity

import "time"

// MoveRecord is the audit entry written for every accepted move.
type MoveRecord struct {
	GameID     string    `json:"gameId"`
	PlayerID   string    `json:"playerId"`
	MoveNumber int       `json:"moveNumber"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PlayerStats struct {
	PlayerID    string    `json:"playerId"`
	GamesPlayed int       `json:"gamesPlayed"`
	GamesWon    int       `json:"gamesWon"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}
