package tui

import (
	"math/rand/v2"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/internal/quiz"
)

func testBank() quiz.Bank {
	var b quiz.Bank
	for i := range 3 {
		b = append(b, quiz.Question{
			Text:          "Which dynasty built temple " + string(rune('A'+i)) + "?",
			Options:       []string{"Chola", "Pallava", "Pandya", "Chera"},
			CorrectAnswer: i,
			Category:      "Temples",
			Difficulty:    "Easy",
		})
	}
	return b
}

func newTestQuiz() quizModel {
	m := newQuizModel(nil, testBank(), rand.New(rand.NewPCG(1, 2)), nil)
	m.width = 80
	m.height = 30
	return m
}

func TestQuizPlaysToResult(t *testing.T) {
	m := newTestQuiz()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phasePlaying {
		t.Fatalf("expected playing, got phase %d", m.phase)
	}
	if m.game.Len() != 3 {
		t.Fatalf("game has %d questions, want 3", m.game.Len())
	}

	for i := range 3 {
		q, _ := m.game.Current()
		key := string(rune('a' + q.CorrectAnswer))
		if i == 2 {
			key = string(rune('a' + (q.CorrectAnswer+1)%4))
		}
		m, _ = m.Update(runeKey(key))
		if answered, _ := m.game.Answered(); !answered {
			t.Fatalf("question %d not answered", i)
		}
		if !strings.Contains(m.View(), "orrect") {
			t.Errorf("expected answer feedback:\n%s", m.View())
		}
		m, _ = m.Update(runeKey("n"))
	}

	if m.phase != phaseResult {
		t.Fatalf("expected result, got phase %d", m.phase)
	}
	if m.game.Score() != 20 {
		t.Errorf("score = %d, want 20", m.game.Score())
	}
	view := m.View()
	if !strings.Contains(view, "Your score: 20") || !strings.Contains(view, "67%") {
		t.Errorf("unexpected result view:\n%s", view)
	}
	if !strings.Contains(view, "Great job! You know your stuff!") {
		t.Errorf("expected grade message:\n%s", view)
	}
}

func TestQuizNextNeedsAnswer(t *testing.T) {
	m := newTestQuiz()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, idx := m.game.Current(); idx != 0 {
		t.Errorf("advanced without an answer to %d", idx)
	}
}

func TestQuizNoQuestionsForSelection(t *testing.T) {
	m := newTestQuiz()
	m, _ = m.Update(runeKey("j"))
	m, _ = m.Update(runeKey("l"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseSelect {
		t.Fatal("should stay on selection")
	}
	if !strings.Contains(m.err, "temples - medium") {
		t.Errorf("err = %q", m.err)
	}
}

func TestQuizSelectionWraps(t *testing.T) {
	m := newTestQuiz()
	m, _ = m.Update(runeKey("h"))
	if m.category != 2 {
		t.Errorf("category = %d, want 2", m.category)
	}
	m, _ = m.Update(runeKey("l"))
	if m.category != 0 {
		t.Errorf("category = %d, want 0", m.category)
	}
}

func TestQuizEscLeavesRoomFromSelection(t *testing.T) {
	m := newTestQuiz()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(closeRoomMsg); !ok {
		t.Error("expected closeRoomMsg")
	}
}

func TestQuizEscAbandonsGame(t *testing.T) {
	m := newTestQuiz()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseSelect || m.game != nil {
		t.Errorf("esc should abandon the game, phase %d", m.phase)
	}
}

func TestOptionIndex(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"4", 3, true},
		{"a", 0, true},
		{"d", 3, true},
		{"z", 0, false},
		{"enter", 0, false},
	}
	for _, tc := range tests {
		got, ok := optionIndex(tc.key)
		if got != tc.want || ok != tc.ok {
			t.Errorf("optionIndex(%q) = %d, %v; want %d, %v", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}
