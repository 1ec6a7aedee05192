package entity

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
)

const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusCompleted = "completed"

	DefaultMaxPlayers = 2
	MaxPlayersLimit   = 8
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the persisted state of one match and the unit of optimistic
// concurrency control: Version grows by one on every accepted write.
type Game struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	Rows               int        `json:"rows"`
	Cols               int        `json:"cols"`
	Grid               Grid       `json:"grid"`
	Players            []Player   `json:"players"`
	MaxPlayers         int        `json:"maxPlayers"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	TurnNumber         int        `json:"turnNumber"`
	TotalMoves         int        `json:"totalMoves"`
	IsGameOver         bool       `json:"isGameOver"`
	WinnerID           string     `json:"winnerId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	Version            uint64     `json:"version"`
}

// Move is a request by PlayerID to place one atom at (X, Y).
type Move struct {
	PlayerID string `json:"playerId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// NewGame returns a waiting game owned by creator on the given empty grid.
func NewGame(id string, grid Grid, creator Player, maxPlayers int, createdAt time.Time) *Game {
	if maxPlayers < DefaultMaxPlayers {
		maxPlayers = DefaultMaxPlayers
	}

	creator.ColorIndex = 0

	return &Game{
		ID:         id,
		Status:     StatusWaiting,
		Rows:       grid.Rows(),
		Cols:       grid.Cols(),
		Grid:       grid,
		Players:    []Player{creator},
		MaxPlayers: maxPlayers,
		CreatedAt:  createdAt,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Game) IsCompleted() bool {
	return that.Status == StatusCompleted
}

func (that *Game) IsFull() bool {
	return len(that.Players) >= that.MaxPlayers
}

// ConfirmActive returns nil only for a game that accepts moves.
func (that *Game) ConfirmActive() error {
	switch that.Status {
	case StatusActive:
		return nil
	case StatusWaiting, StatusCompleted:
		return fmt.Errorf("%w: status %s", apperror.ErrNotActive, that.Status)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) PlayerIndex(playerID string) int {
	return slices.IndexFunc(that.Players, func(p Player) bool {
		return p.ID == playerID
	})
}

func (that *Game) HasPlayer(playerID string) bool {
	return that.PlayerIndex(playerID) >= 0
}

// CurrentPlayer returns the player to move, or false when the index is out
// of range.
func (that *Game) CurrentPlayer() (Player, bool) {
	if that.CurrentPlayerIndex < 0 || that.CurrentPlayerIndex >= len(that.Players) {
		return Player{}, false
	}

	return that.Players[that.CurrentPlayerIndex], true
}

// AddPlayer appends player with the next color and activates the game once
// it is full.
func (that *Game) AddPlayer(player Player, at time.Time) {
	player.ColorIndex = len(that.Players)
	that.Players = append(that.Players, player)

	if that.IsFull() {
		that.Status = StatusActive
		started := at
		that.StartedAt = &started
	}
}

// Clone returns a deep copy of the game.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Grid = that.Grid.Clone()
	clone.Players = slices.Clone(that.Players)

	if that.StartedAt != nil {
		started := *that.StartedAt
		clone.StartedAt = &started
	}
	if that.EndedAt != nil {
		ended := *that.EndedAt
		clone.EndedAt = &ended
	}

	return &clone
}
