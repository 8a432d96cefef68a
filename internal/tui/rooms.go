package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/pkg/domain"
)

// openRoomMsg asks the app to enter a room.
type openRoomMsg struct {
	id string
}

// visitTrackedMsg reports the outcome of recording a room visit.
type visitTrackedMsg struct {
	room string
	err  error
}

var roomBlurbs = map[string]string{
	"temples":       "Dynasties and their shrines, arranged in three rings",
	"weapons":       "Blades, bows and maces of the old kingdoms",
	"fossils":       "Bones and shells from deep time",
	domain.RoomGame: "Ten questions, ten points each",
}

type roomsModel struct {
	cursor int
	user   string
	width  int
	height int
}

func newRoomsModel() roomsModel {
	return roomsModel{}
}

func (m roomsModel) Update(msg tea.Msg) (roomsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(domain.RoomOrder)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			id := domain.RoomOrder[m.cursor]
			return m, func() tea.Msg { return openRoomMsg{id: id} }
		}
	}
	return m, nil
}

func (m roomsModel) View() string {
	var b strings.Builder
	if m.user != "" {
		b.WriteString("\n " + dimStyle.Render("welcome, ") + selectedStyle.Render(m.user) + "\n")
	}
	b.WriteString("\n " + sectionHeaderStyle.Render("Rooms") + "\n\n")
	for i, id := range domain.RoomOrder {
		room := domain.Rooms[id]
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸ ")
		}
		name := roomStyle(id).Render(fmt.Sprintf("%-10s", room.Name))
		fmt.Fprintf(&b, " %s%s  %s\n", cursor, name, dimStyle.Render(roomBlurbs[id]))
	}
	return b.String()
}

func (m roomsModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "enter room") + "  " + helpEntry("L", "logout") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
