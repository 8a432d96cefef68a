package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

// boardLimit matches the leaderboard page size of the web client.
const boardLimit = 10

// bestLimit is how many of the visitor's own scores are shown.
const bestLimit = 3

// -- messages --

type boardLoadedMsg struct {
	mode    string
	entries []domain.HighScore
	err     error
}

type myScoresLoadedMsg struct {
	scores []domain.HighScore
	err    error
}

// -- model --

type boardModel struct {
	client    *client.Client
	entries   []domain.HighScore
	best      []domain.HighScore // the visitor's top scores across modes
	cursor    int
	mode      string // "" = all game modes
	modeCycle int    // index into modeOrder
	err       string
	loading   bool
	myID      int
	width     int
	height    int
}

// modeOrder is the cycle order for game-mode filtering.
var modeOrder = func() []string {
	out := []string{""}
	for _, c := range domain.QuizCategories {
		for _, d := range domain.QuizDifficulties {
			out = append(out, domain.GameMode(c, d))
		}
	}
	return out
}()

func newBoardModel(c *client.Client) boardModel {
	return boardModel{client: c}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(), m.loadMine())
}

func (m boardModel) loadMine() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		scores, err := c.MyScores(context.Background())
		return myScoresLoadedMsg{scores: scores, err: err}
	}
}

// topScores returns the highest scores first, at most n of them.
func topScores(scores []domain.HighScore, n int) []domain.HighScore {
	out := slices.Clone(scores)
	slices.SortStableFunc(out, func(a, b domain.HighScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (m boardModel) loadBoard() tea.Cmd {
	c := m.client
	mode := m.mode
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := c.Leaderboard(context.Background(), mode, boardLimit)
		return boardLoadedMsg{mode: mode, entries: entries, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (boardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case boardLoadedMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
		} else {
			m.entries = msg.entries
			m.err = ""
			if m.cursor >= len(m.entries) {
				m.cursor = 0
			}
		}

	case myScoresLoadedMsg:
		// The leaderboard still renders without them.
		if msg.err == nil {
			m.best = topScores(msg.scores, bestLimit)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.modeCycle = (m.modeCycle + 1) % len(modeOrder)
		m.mode = modeOrder[m.modeCycle]
		m.cursor = 0
		m.loading = true
		return m, m.loadBoard()
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadBoard(), m.loadMine())
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder

	filter := "all games"
	if m.mode != "" {
		filter = m.mode
	}
	b.WriteString("\n " + sectionHeaderStyle.Render("Leaderboard") + "  " + dimStyle.Render(filter) + "\n\n")

	if m.loading && len(m.entries) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.entries) == 0 {
		b.WriteString(" " + dimStyle.Render("no scores yet, visit the game room to set one") + "\n")
		return b.String()
	}

	for i, entry := range m.entries {
		rank := i + 1
		isActive := i == m.cursor
		isYou := m.myID != 0 && entry.UserID == m.myID

		cursor := " "
		if isActive {
			cursor = accentStyle.Render("▸")
		}

		rankLabel := fmt.Sprintf("#%-3d", rank)
		rankStr := rankStyle(rank).Render(rankLabel)
		if isYou {
			rankStr = accentStyle.Render(rankLabel)
		}

		player := fmt.Sprintf("%-12s", fmt.Sprintf("player %d", entry.UserID))
		if isYou {
			player = selectedStyle.Render(fmt.Sprintf("%-12s", "you"))
		} else {
			player = normalStyle.Render(player)
		}

		score := goldStyle.Render(fmt.Sprintf("%4d", entry.Score))
		mode := metaStyle.Render(fmt.Sprintf("%-16s", entry.GameMode))
		when := dimStyle.Render(formatTime(entry.AchievedAt.Time))

		row := fmt.Sprintf(" %s %s  %s  %s  %s  %s", cursor, rankStr, player, score, mode, when)
		if isYou {
			row += " " + accentStyle.Render("<- you")
		}
		b.WriteString(row + "\n")
	}

	if len(m.best) > 0 {
		b.WriteString("\n " + sectionHeaderStyle.Render("Your best") + "\n")
		for _, s := range m.best {
			fmt.Fprintf(&b, "   %s  %s  %s\n",
				goldStyle.Render(fmt.Sprintf("%4d", s.Score)),
				metaStyle.Render(fmt.Sprintf("%-16s", s.GameMode)),
				dimStyle.Render(formatTime(s.AchievedAt.Time)))
		}
	}

	b.WriteString("\n " + dimStyle.Render("g cycle game mode") + "\n")
	return b.String()
}

func (m boardModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("g", "game mode") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
