package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

const adminFeedbackLimit = 20

type adminLoadedMsg struct {
	stats    *domain.VisitStats
	feedback []domain.Feedback
	err      error
}

type adminModel struct {
	client   *client.Client
	stats    *domain.VisitStats
	feedback []domain.Feedback
	loading  bool
	err      string
	width    int
	height   int
}

func newAdminModel(c *client.Client) adminModel {
	return adminModel{client: c}
}

func (m adminModel) Init() tea.Cmd {
	c := m.client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := c.VisitStats(ctx)
		if err != nil {
			return adminLoadedMsg{err: err}
		}
		fb, err := c.AllFeedback(ctx, adminFeedbackLimit)
		return adminLoadedMsg{stats: stats, feedback: fb, err: err}
	}
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case adminLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		m.feedback = msg.feedback
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("Dashboard") + "\n\n")

	if m.loading && m.stats == nil {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if m.stats == nil {
		return b.String()
	}

	s := m.stats
	fmt.Fprintf(&b, " %s %s   %s %s   %s %s\n\n",
		goldStyle.Render(fmt.Sprintf("%d", s.TotalVisits)), dimStyle.Render("visits"),
		goldStyle.Render(fmt.Sprintf("%d", s.UniqueUsers)), dimStyle.Render("visitors"),
		goldStyle.Render(fmt.Sprintf("%.1f", s.AverageVisitDuration)), dimStyle.Render("min avg"))

	rooms := make([]string, 0, len(s.RoomStatistics))
	for r := range s.RoomStatistics {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if s.RoomStatistics[rooms[i]] != s.RoomStatistics[rooms[j]] {
			return s.RoomStatistics[rooms[i]] > s.RoomStatistics[rooms[j]]
		}
		return rooms[i] < rooms[j]
	})
	top := 0
	for _, r := range rooms {
		top = max(top, s.RoomStatistics[r])
	}
	for _, r := range rooms {
		n := s.RoomStatistics[r]
		bar := 0
		if top > 0 {
			bar = n * 30 / top
		}
		fmt.Fprintf(&b, " %s %s %s\n",
			roomStyle(r).Render(fmt.Sprintf("%-10s", r)),
			roomStyle(r).Render(strings.Repeat("█", bar)),
			metaStyle.Render(fmt.Sprintf("%d", n)))
	}

	if len(m.feedback) > 0 {
		b.WriteString("\n " + sectionHeaderStyle.Render("Recent feedback") + "\n")
		for _, f := range m.feedback {
			fmt.Fprintf(&b, " %s  %s  %s\n",
				ratingStars(f.Rating),
				normalStyle.Render(truncStr(oneLine(f.Message), max(m.width-24, 20))),
				dimStyle.Render(formatTime(f.SubmittedAt.Time)))
		}
	}
	return b.String()
}

func (m adminModel) helpKeys() string {
	return helpEntry("r", "refresh") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
