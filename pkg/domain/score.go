package domain

import "strings"

// HighScore is one leaderboard entry.
type HighScore struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Score      int       `json:"score"`
	GameMode   string    `json:"game_mode"`
	AchievedAt Timestamp `json:"achieved_at"`
}

// ScoreInput is the payload for submitting a game score.
type ScoreInput struct {
	Score    int    `json:"score" validate:"gte=0"`
	GameMode string `json:"game_mode" validate:"required"`
}

// Quiz categories and difficulties. A game mode is "<category>-<difficulty>".
var (
	QuizCategories   = []string{"temples", "weapons", "fossils"}
	QuizDifficulties = []string{"easy", "medium", "hard"}
)

// GameMode joins a quiz category and difficulty.
func GameMode(category, difficulty string) string {
	return strings.ToLower(category) + "-" + strings.ToLower(difficulty)
}

var validGameModeSet = func() map[string]bool {
	m := make(map[string]bool, len(QuizCategories)*len(QuizDifficulties))
	for _, c := range QuizCategories {
		for _, d := range QuizDifficulties {
			m[GameMode(c, d)] = true
		}
	}
	return m
}()

// ValidGameMode returns true if mode is a known category-difficulty pair.
func ValidGameMode(mode string) bool {
	return validGameModeSet[mode]
}
