package entity

import "strings"

const (
	KindHuman = "human"
	KindBot   = "bot"

	EasyDifficulty = "easy"
	HardDifficulty = "hard"

	botIDPrefix = "bot:"
)

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"colorIndex"`
	Kind       string `json:"kind"`
	Difficulty string `json:"difficulty,omitempty"`
}

// NewBotPlayer returns the automated opponent of a game.
func NewBotPlayer(gameID, difficulty string) Player {
	if difficulty != HardDifficulty {
		difficulty = EasyDifficulty
	}

	return Player{
		ID:         botIDPrefix + gameID,
		Name:       "Bot",
		Kind:       KindBot,
		Difficulty: difficulty,
	}
}

func (that Player) IsBot() bool {
	return that.Kind == KindBot || strings.HasPrefix(that.ID, botIDPrefix)
}
