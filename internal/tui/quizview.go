package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/internal/metrics"
	"github.com/naveenspark/museum/internal/quiz"
	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

type quizPhase int

const (
	phaseSelect quizPhase = iota
	phasePlaying
	phaseResult
)

type scoreSubmittedMsg struct {
	score *domain.HighScore
	err   error
}

type quizModel struct {
	client     *client.Client
	bank       quiz.Bank
	rng        *rand.Rand
	metrics    *metrics.Metrics
	phase      quizPhase
	row        int // 0 category, 1 difficulty
	category   int
	difficulty int
	game       *quiz.Game
	lastRight  bool
	submitting bool
	submitErr  string
	err        string
	width      int
	height     int
}

func newQuizModel(c *client.Client, bank quiz.Bank, rng *rand.Rand, mt *metrics.Metrics) quizModel {
	return quizModel{client: c, bank: bank, rng: rng, metrics: mt}
}

func (m quizModel) reset() quizModel {
	m.phase = phaseSelect
	m.game = nil
	m.err = ""
	m.submitErr = ""
	return m
}

func (m quizModel) Update(msg tea.Msg) (quizModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case scoreSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.submitErr = errText(msg.err)
		}

	case tea.KeyMsg:
		switch m.phase {
		case phaseSelect:
			return m.handleSelect(msg)
		case phasePlaying:
			return m.handlePlaying(msg)
		case phaseResult:
			return m.handleResult(msg)
		}
	}
	return m, nil
}

func (m quizModel) handleSelect(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return closeRoomMsg{} }
	case "j", "down", "tab":
		m.row = (m.row + 1) % 2
	case "k", "up", "shift+tab":
		m.row = (m.row + 1) % 2
	case "l", "right":
		if m.row == 0 {
			m.category = (m.category + 1) % len(domain.QuizCategories)
		} else {
			m.difficulty = (m.difficulty + 1) % len(domain.QuizDifficulties)
		}
	case "h", "left":
		if m.row == 0 {
			m.category = (m.category - 1 + len(domain.QuizCategories)) % len(domain.QuizCategories)
		} else {
			m.difficulty = (m.difficulty - 1 + len(domain.QuizDifficulties)) % len(domain.QuizDifficulties)
		}
	case "enter":
		g, err := quiz.NewGame(m.bank, domain.QuizCategories[m.category], domain.QuizDifficulties[m.difficulty], m.rng)
		if err != nil {
			m.err = fmt.Sprintf("no questions found for %s - %s", domain.QuizCategories[m.category], domain.QuizDifficulties[m.difficulty])
			return m, nil
		}
		m.err = ""
		m.game = g
		m.phase = phasePlaying
	}
	return m, nil
}

func (m quizModel) handlePlaying(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m = m.reset()
		return m, nil
	case "enter", "n":
		if answered, _ := m.game.Answered(); !answered {
			return m, nil
		}
		if m.game.Next() {
			return m, nil
		}
		return m.finish()
	}
	if opt, ok := optionIndex(key); ok {
		right, err := m.game.Answer(opt)
		if err == nil {
			m.lastRight = right
		}
	}
	return m, nil
}

// optionIndex maps 1-4 and a-d to an option index.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch c := key[0]; {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'f':
		return int(c - 'a'), true
	}
	return 0, false
}

func (m quizModel) finish() (quizModel, tea.Cmd) {
	m.phase = phaseResult
	result := m.game.Result()
	m.metrics.QuizCompleted(result.GameMode)
	if m.client == nil {
		return m, nil
	}
	m.submitting = true
	c := m.client
	return m, func() tea.Msg {
		hs, err := c.SubmitScore(context.Background(), result)
		return scoreSubmittedMsg{score: hs, err: err}
	}
}

func (m quizModel) handleResult(msg tea.KeyMsg) (quizModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m = m.reset()
	case "esc":
		m = m.reset()
		return m, func() tea.Msg { return closeRoomMsg{} }
	}
	return m, nil
}

func (m quizModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + roomStyle(domain.RoomGame).Render("Game Room") + "\n\n")

	switch m.phase {
	case phaseSelect:
		rows := []struct {
			label  string
			values []string
			sel    int
		}{
			{"category", domain.QuizCategories, m.category},
			{"difficulty", domain.QuizDifficulties, m.difficulty},
		}
		for i, r := range rows {
			cursor := "  "
			if i == m.row {
				cursor = accentStyle.Render("▸ ")
			}
			parts := make([]string, len(r.values))
			for j, v := range r.values {
				if j == r.sel {
					parts[j] = selectedStyle.Render("[" + v + "]")
				} else {
					parts[j] = dimStyle.Render(" " + v + " ")
				}
			}
			fmt.Fprintf(&b, " %s%-11s %s\n", cursor, metaStyle.Render(r.label), strings.Join(parts, " "))
		}
		b.WriteString("\n " + dimStyle.Render("enter to start") + "\n")
		if m.err != "" {
			b.WriteString("\n " + errStyle.Render(m.err) + "\n")
		}

	case phasePlaying:
		q, idx := m.game.Current()
		answered, sel := m.game.Answered()
		fmt.Fprintf(&b, " %s  %s\n\n",
			metaStyle.Render(fmt.Sprintf("Question %d of %d", idx+1, m.game.Len())),
			goldStyle.Render(fmt.Sprintf("Score: %d", m.game.Score())))
		for _, line := range wrap(q.Text, max(m.width-4, 20)) {
			b.WriteString(" " + selectedStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
		for i, opt := range q.Options {
			label := fmt.Sprintf("%c) %s", 'A'+i, opt)
			style := normalStyle
			if answered {
				switch {
				case i == q.CorrectAnswer:
					style = okStyle
				case i == sel:
					style = errStyle
				default:
					style = dimStyle
				}
			}
			b.WriteString("   " + style.Render(label) + "\n")
		}
		if answered {
			b.WriteString("\n")
			if m.lastRight {
				b.WriteString(" " + okStyle.Render("Correct! +10 points") + "\n")
			} else {
				b.WriteString(" " + errStyle.Render(fmt.Sprintf("Incorrect. The correct answer was option %c", 'A'+q.CorrectAnswer)) + "\n")
			}
		}

	case phaseResult:
		g := m.game
		fmt.Fprintf(&b, " %s %s\n", goldStyle.Render(fmt.Sprintf("Your score: %d", g.Score())), dimStyle.Render(fmt.Sprintf("/ %d", g.MaxScore())))
		fmt.Fprintf(&b, " %s\n\n", metaStyle.Render(fmt.Sprintf("%d%% accuracy  ·  %s", g.Percent(), g.GameMode())))
		b.WriteString(" " + selectedStyle.Render(g.Grade().Message()) + "\n\n")
		switch {
		case m.submitting:
			b.WriteString(" " + dimStyle.Render("saving score...") + "\n")
		case m.submitErr != "":
			b.WriteString(" " + errStyle.Render("score not saved: "+m.submitErr) + "\n")
		case m.client != nil:
			b.WriteString(" " + okStyle.Render("score saved to the leaderboard") + "\n")
		}
	}
	return b.String()
}

func (m quizModel) helpKeys() string {
	switch m.phase {
	case phasePlaying:
		return helpEntry("a-d", "answer") + "  " + helpEntry("enter", "next") + "  " + helpEntry("esc", "quit quiz")
	case phaseResult:
		return helpEntry("enter", "play again") + "  " + helpEntry("esc", "rooms")
	}
	return helpEntry("j/k", "row") + "  " + helpEntry("h/l", "change") + "  " + helpEntry("enter", "start") + "  " + helpEntry("esc", "rooms")
}
