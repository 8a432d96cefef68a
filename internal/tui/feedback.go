package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

type feedbackSentMsg struct {
	err error
}

type feedbackModel struct {
	client     *client.Client
	rating     int
	message    string
	submitting bool
	status     string
	isErr      bool
}

func newFeedbackModel(c *client.Client) feedbackModel {
	return feedbackModel{client: c, rating: 5}
}

func (m feedbackModel) Update(msg tea.Msg) (feedbackModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackSentMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.status = "thank you for your feedback"
		m.isErr = false
		m.message = ""
		m.rating = 5

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "left", "ctrl+h":
			if m.rating > 1 {
				m.rating--
			}
		case "right", "ctrl+l":
			if m.rating < 5 {
				m.rating++
			}
		case "enter":
			m.message = editRune(m.message, "\n")
		default:
			m.message = editRune(m.message, keyText(msg))
		}
	}
	return m, nil
}

func (m feedbackModel) submit() (feedbackModel, tea.Cmd) {
	in := domain.FeedbackInput{Rating: m.rating, Message: strings.TrimSpace(m.message)}
	if in.Message == "" {
		m.status = "tell us a little about your visit first"
		m.isErr = true
		return m, nil
	}
	if m.client == nil {
		return m, nil
	}
	m.submitting = true
	c := m.client
	return m, func() tea.Msg {
		_, err := c.SubmitFeedback(context.Background(), in)
		return feedbackSentMsg{err: err}
	}
}

func (m feedbackModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("Feedback") + "\n\n")
	b.WriteString("   " + metaStyle.Render("rating   ") + ratingStars(m.rating) + "  " + dimStyle.Render("←/→") + "\n\n")

	b.WriteString("   " + metaStyle.Render("message") + "\n")
	if m.message == "" {
		b.WriteString("   " + inputPlaceholderStyle.Render("what did you enjoy?") + accentStyle.Render("█") + "\n")
	} else {
		lines := strings.Split(m.message, "\n")
		for i, line := range lines {
			if i == len(lines)-1 {
				line = normalStyle.Render(line) + accentStyle.Render("█")
			} else {
				line = normalStyle.Render(line)
			}
			b.WriteString("   " + line + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("sending...") + "\n")
	case m.status != "" && m.isErr:
		b.WriteString(" " + errStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m feedbackModel) helpKeys() string {
	return helpEntry("←/→", "rating") + "  " + helpEntry("ctrl+s", "send") + "  " + helpEntry("esc", "rooms")
}
