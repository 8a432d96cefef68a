package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/museum/internal/browser"
	"github.com/naveenspark/museum/internal/layout"
	"github.com/naveenspark/museum/internal/metrics"
	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

// -- messages --

type exhibitsLoadedMsg struct {
	kind  domain.Kind
	items []domain.Exhibit
	err   error
}

type copyResultMsg struct {
	what string
	err  error
}

type openResultMsg struct{ err error }

type exhibitDeletedMsg struct {
	name string
	err  error
}

// closeRoomMsg returns to the room list.
type closeRoomMsg struct{}

// LayoutSource resolves a gallery name to its ring layout.
type LayoutSource func(name string) (layout.RingConfig, bool)

// -- model --

type galleryModel struct {
	client     *client.Client
	token      func() string
	layouts    LayoutSource
	metrics    *metrics.Metrics
	kind       domain.Kind
	exhibits   []domain.Exhibit
	placements []layout.Placement[domain.Exhibit]
	bound      float64
	cursor     int
	detail     bool
	shrine     bool
	admin      bool
	confirmDel bool
	loading    bool
	err        string
	status     string
	width      int
	height     int
}

func newGalleryModel(c *client.Client, token func() string, layouts LayoutSource, mt *metrics.Metrics) galleryModel {
	if layouts == nil {
		layouts = layout.For
	}
	return galleryModel{client: c, token: token, layouts: layouts, metrics: mt}
}

// enter resets the gallery for kind and starts loading it.
func (m galleryModel) enter(kind domain.Kind) (galleryModel, tea.Cmd) {
	m.kind = kind
	m.exhibits = nil
	m.placements = nil
	m.cursor = 0
	m.detail = false
	m.shrine = false
	m.err = ""
	m.status = ""
	m.loading = true
	return m, m.load()
}

func (m galleryModel) load() tea.Cmd {
	c := m.client
	kind := m.kind
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := c.ListExhibits(context.Background(), kind)
		return exhibitsLoadedMsg{kind: kind, items: items, err: err}
	}
}

// layoutName is the preset used for the current room.
func (m galleryModel) layoutName() string {
	if m.kind == domain.KindTemple && m.shrine {
		return layout.Shrine
	}
	return string(m.kind)
}

func (m galleryModel) arrange() galleryModel {
	name := m.layoutName()
	cfg, ok := m.layouts(name)
	if !ok {
		m.placements = nil
		m.bound = 0
		return m
	}
	m.placements = layout.ComputePositions(m.exhibits, cfg)
	m.bound = layout.Bounds(len(m.exhibits), cfg)
	m.metrics.Placed(name, len(m.placements))
	return m
}

func (m galleryModel) selected() (domain.Exhibit, bool) {
	if m.cursor < 0 || m.cursor >= len(m.exhibits) {
		return domain.Exhibit{}, false
	}
	return m.exhibits[m.cursor], true
}

func (m galleryModel) Update(msg tea.Msg) (galleryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case exhibitsLoadedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.exhibits = msg.items
		if m.cursor >= len(m.exhibits) {
			m.cursor = 0
		}
		m = m.arrange()

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = msg.what + " link copied"
		}

	case exhibitDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + errText(msg.err)
			return m, nil
		}
		m.status = msg.name + " deleted"
		m.detail = false
		m.loading = true
		return m, m.load()

	case openResultMsg:
		if msg.err != nil {
			m.status = "could not open browser: " + msg.err.Error()
		} else {
			m.status = "opened 3D model"
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m galleryModel) handleKey(msg tea.KeyMsg) (galleryModel, tea.Cmd) {
	m.status = ""
	key := msg.String()
	confirming := m.confirmDel
	m.confirmDel = false
	switch key {
	case "x":
		e, ok := m.selected()
		if !m.admin || !ok || m.client == nil {
			return m, nil
		}
		if !confirming {
			m.confirmDel = true
			m.status = "press x again to delete " + e.Name
			return m, nil
		}
		c := m.client
		return m, func() tea.Msg {
			err := c.DeleteExhibit(context.Background(), e.Kind, e.ID)
			return exhibitDeletedMsg{name: e.Name, err: err}
		}
	case "esc":
		if m.detail {
			m.detail = false
			return m, nil
		}
		return m, func() tea.Msg { return closeRoomMsg{} }
	case "j", "down":
		if m.cursor < len(m.exhibits)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.exhibits) > 0 {
			m.detail = !m.detail
		}
	case "s":
		if m.kind == domain.KindTemple {
			m.shrine = !m.shrine
			m = m.arrange()
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "c":
		return m, m.copyMedia(client.MediaImages, "image")
	case "a":
		return m, m.copyMedia(client.MediaAudio, "audio")
	case "o":
		if e, ok := m.selected(); ok && e.HasModel() {
			u := e.ModelURL()
			return m, func() tea.Msg {
				return openResultMsg{err: browser.Open(u)}
			}
		}
		m.status = "no 3D model for this exhibit"
	}
	return m, nil
}

func (m galleryModel) copyMedia(mediaType, what string) tea.Cmd {
	e, ok := m.selected()
	if !ok || m.client == nil {
		return nil
	}
	ref := e.ImageRef
	if mediaType == client.MediaAudio {
		ref = e.AudioRef
	}
	if ref == "" {
		return func() tea.Msg {
			return copyResultMsg{what: what, err: fmt.Errorf("no %s for %s", what, e.Name)}
		}
	}
	token := ""
	if m.token != nil {
		token = m.token()
	}
	u := m.client.MediaURL(e.Kind, mediaType, ref, token)
	return func() tea.Msg {
		err := clipboard.WriteAll(u)
		return copyResultMsg{what: what, err: err}
	}
}

func (m galleryModel) View() string {
	room := domain.Rooms[string(m.kind)]
	var b strings.Builder

	header := " " + roomStyle(string(m.kind)).Render(room.Name)
	if m.kind == domain.KindTemple {
		if m.shrine {
			header += "  " + dimStyle.Render("shrine layout")
		} else {
			header += "  " + dimStyle.Render("hall layout")
		}
	}
	b.WriteString("\n" + header + "\n\n")

	if m.loading && len(m.exhibits) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.exhibits) == 0 {
		b.WriteString(" " + dimStyle.Render("this room is empty for now") + "\n")
		return b.String()
	}

	listWidth := 34
	if m.width > 0 && m.width < 70 {
		listWidth = m.width / 2
	}
	var left string
	if m.detail {
		left = m.detailView(listWidth)
	} else {
		left = m.listView(listWidth)
	}

	mapW := m.width - listWidth - 4
	mapH := m.height - 6
	if mapW > 2*mapH {
		mapW = 2 * mapH
	}
	right := renderRingMap(m.placements, m.bound, m.cursor, mapW, mapH, room.HexColor)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m galleryModel) listView(width int) string {
	var b strings.Builder
	visible := m.height - 6
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	for i := start; i < len(m.exhibits) && i < start+visible; i++ {
		e := m.exhibits[i]
		cursor := "  "
		name := normalStyle.Render(truncStr(e.Name, width-4))
		if i == m.cursor {
			cursor = accentStyle.Render("▸ ")
			name = selectedStyle.Render(truncStr(e.Name, width-4))
		}
		b.WriteString(" " + cursor + name + "\n")
	}
	fmt.Fprintf(&b, "\n %s\n", metaStyle.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.exhibits))))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m galleryModel) detailView(width int) string {
	e, ok := m.selected()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render(truncStr(e.Name, width-2)) + "\n")
	if e.Subtitle != "" {
		b.WriteString(" " + dimStyle.Render(truncStr(e.Subtitle, width-2)) + "\n")
	}
	if m.cursor < len(m.placements) {
		p := m.placements[m.cursor]
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("ring %d  (%.1f, %.1f, %.1f)", p.Ring+1, p.Position.X, p.Position.Y, p.Position.Z)) + "\n")
	}
	b.WriteString("\n")
	for _, f := range e.Facts {
		b.WriteString(" " + dimStyle.Render(f.Label+": ") + normalStyle.Render(truncStr(f.Value, width-len(f.Label)-4)) + "\n")
	}
	if e.Summary != "" {
		b.WriteString("\n")
		for _, line := range wrap(oneLine(e.Summary), width-2) {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}
	if e.HasModel() {
		b.WriteString("\n " + goldStyle.Render("3D model available") + " " + dimStyle.Render("(o to open)") + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m galleryModel) helpKeys() string {
	if m.detail {
		return helpEntry("c", "copy image") + "  " + helpEntry("a", "copy audio") + "  " + helpEntry("o", "3D model") + "  " + helpEntry("esc", "back")
	}
	keys := helpEntry("j/k", "nav") + "  " + helpEntry("enter", "details") + "  " + helpEntry("c", "copy image")
	if m.kind == domain.KindTemple {
		keys += "  " + helpEntry("s", "layout")
	}
	if m.admin {
		keys += "  " + helpEntry("x", "delete")
	}
	return keys + "  " + helpEntry("r", "refresh") + "  " + helpEntry("esc", "rooms")
}
