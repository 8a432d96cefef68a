// Package quiz runs the game-room quiz: a short shuffled round of questions
// drawn from one category and difficulty.
package quiz

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/naveenspark/museum/pkg/domain"
)

const (
	// MaxQuestions is the round length.
	MaxQuestions = 10
	// PointsPerAnswer is awarded for each correct answer.
	PointsPerAnswer = 10
)

var (
	ErrNoQuestions     = errors.New("quiz: no questions for that category and difficulty")
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrFinished        = errors.New("quiz: game finished")
	ErrBadOption       = errors.New("quiz: option out of range")
)

// Question is one multiple-choice question from the bank.
type Question struct {
	Text          string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Category      string   `json:"category" validate:"required"`
	Difficulty    string   `json:"difficulty" validate:"required"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// Bank is a set of questions.
type Bank []Question

//go:embed questions.json
var defaultBank []byte

var validate = validator.New()

// Default returns the bundled question bank.
func Default() Bank {
	b, err := Parse(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("quiz: bundled bank: %v", err))
	}
	return b
}

// Parse decodes and checks a JSON question bank.
func Parse(data []byte) (Bank, error) {
	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("quiz.Parse: %w", err)
	}
	for i, q := range b {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("quiz.Parse: question %d: %w", i, err)
		}
		if q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("quiz.Parse: question %d: correct_answer %d out of range", i, q.CorrectAnswer)
		}
	}
	return b, nil
}

// Load reads a bank from r.
func Load(r io.Reader) (Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("quiz.Load: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a bank from path.
func LoadFile(path string) (Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("quiz.LoadFile: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Filter returns the questions matching category and difficulty, ignoring case.
func (b Bank) Filter(category, difficulty string) Bank {
	var out Bank
	for _, q := range b {
		if strings.EqualFold(q.Category, category) && strings.EqualFold(q.Difficulty, difficulty) {
			out = append(out, q)
		}
	}
	return out
}

// Game is one round. It is not safe for concurrent use.
type Game struct {
	category   string
	difficulty string
	questions  []Question
	index      int
	score      int
	answered   bool
	selected   int
	done       bool
}

// NewGame shuffles the matching questions with rng and keeps at most
// MaxQuestions of them.
func NewGame(bank Bank, category, difficulty string, rng *rand.Rand) (*Game, error) {
	pool := bank.Filter(category, difficulty)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, domain.GameMode(category, difficulty))
	}
	qs := make([]Question, len(pool))
	copy(qs, pool)
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}
	return &Game{
		category:   strings.ToLower(category),
		difficulty: strings.ToLower(difficulty),
		questions:  qs,
		selected:   -1,
	}, nil
}

// Current returns the question being asked and its zero-based index.
func (g *Game) Current() (Question, int) {
	return g.questions[g.index], g.index
}

// Len is the number of questions in the round.
func (g *Game) Len() int { return len(g.questions) }

// Answer records the choice for the current question. A second answer to
// the same question is rejected and does not change the score.
func (g *Game) Answer(option int) (bool, error) {
	if g.done {
		return false, ErrFinished
	}
	if g.answered {
		return false, ErrAlreadyAnswered
	}
	q := g.questions[g.index]
	if option < 0 || option >= len(q.Options) {
		return false, ErrBadOption
	}
	g.answered = true
	g.selected = option
	correct := option == q.CorrectAnswer
	if correct {
		g.score += PointsPerAnswer
	}
	return correct, nil
}

// Answered reports whether the current question has an answer, and which.
func (g *Game) Answered() (bool, int) { return g.answered, g.selected }

// Next moves to the following question. It returns false once the round is
// over. Unanswered questions score nothing.
func (g *Game) Next() bool {
	if g.done {
		return false
	}
	if g.index >= len(g.questions)-1 {
		g.done = true
		return false
	}
	g.index++
	g.answered = false
	g.selected = -1
	return true
}

// Done reports whether the round is over.
func (g *Game) Done() bool { return g.done }

// Score is the points earned so far.
func (g *Game) Score() int { return g.score }

// MaxScore is the best possible score for this round.
func (g *Game) MaxScore() int { return len(g.questions) * PointsPerAnswer }

// Percent is the score as a rounded percentage of MaxScore.
func (g *Game) Percent() int {
	return int(math.Round(g.ratio() * 100))
}

func (g *Game) ratio() float64 {
	if g.MaxScore() == 0 {
		return 0
	}
	return float64(g.score) / float64(g.MaxScore())
}

// GameMode is the leaderboard key, e.g. "temples-easy".
func (g *Game) GameMode() string { return domain.GameMode(g.category, g.difficulty) }

// Result is the score payload for the leaderboard.
func (g *Game) Result() domain.ScoreInput {
	return domain.ScoreInput{Score: g.score, GameMode: g.GameMode()}
}

// Grade is the performance band of a finished round.
type Grade int

const (
	GradeKeepLearning Grade = iota
	GradeGoodTry
	GradeGreat
	GradeExcellent
)

// Grade bands the unrounded percentage at 80, 60 and 40.
func (g *Game) Grade() Grade {
	p := g.ratio() * 100
	switch {
	case p >= 80:
		return GradeExcellent
	case p >= 60:
		return GradeGreat
	case p >= 40:
		return GradeGoodTry
	default:
		return GradeKeepLearning
	}
}

// Message is the line shown under the final score.
func (gr Grade) Message() string {
	switch gr {
	case GradeExcellent:
		return "Excellent! You're a true museum expert!"
	case GradeGreat:
		return "Great job! You know your stuff!"
	case GradeGoodTry:
		return "Good try! Learn more and try again!"
	default:
		return "Keep learning! You can do better!"
	}
}
