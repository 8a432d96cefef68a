package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/museum/internal/metrics"
	"github.com/naveenspark/museum/internal/quiz"
	"github.com/naveenspark/museum/internal/session"
	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

type view int

const (
	viewLogin view = iota
	viewRooms
	viewGallery
	viewQuiz
	viewBoard
	viewFeedback
	viewAdmin
)

// Session is the part of the session manager the TUI drives.
type Session interface {
	Login(ctx context.Context, email, password string) (session.State, error)
	Register(ctx context.Context, email, password string) error
	Logout()
	State() session.State
	Token() string
	CheckExpiry()
}

// Deps wires the TUI to the rest of the program. Only Session is required.
type Deps struct {
	Client   *client.Client
	Session  Session
	Activity *session.ActivityHub
	Layouts  LayoutSource
	Bank     quiz.Bank
	Rand     *rand.Rand
	Metrics  *metrics.Metrics
	Version  string
	// Timeout is shown in the help overlay.
	Timeout time.Duration
}

// sessionMsg carries a state published by the session manager.
type sessionMsg struct {
	state session.State
}

// SessionChanged wraps a session state for tea.Program.Send.
func SessionChanged(s session.State) tea.Msg {
	return sessionMsg{state: s}
}

// App is the root Bubbletea model.
type App struct {
	deps     Deps
	view     view
	state    session.State
	login    loginModel
	rooms    roomsModel
	gallery  galleryModel
	quiz     quizModel
	board    boardModel
	feedback feedbackModel
	admin    adminModel
	helpOpen bool
	update   string
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates a new TUI application. It starts on the login view unless
// the session is already authenticated.
func NewApp(d Deps) App {
	if d.Bank == nil {
		d.Bank = quiz.Default()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if d.Timeout <= 0 {
		d.Timeout = session.DefaultTimeout
	}
	var token func() string
	if d.Session != nil {
		token = d.Session.Token
	}
	a := App{
		deps:     d,
		view:     viewLogin,
		login:    newLoginModel(d.Session),
		rooms:    newRoomsModel(),
		gallery:  newGalleryModel(d.Client, token, d.Layouts, d.Metrics),
		quiz:     newQuizModel(d.Client, d.Bank, d.Rand, d.Metrics),
		board:    newBoardModel(d.Client),
		feedback: newFeedbackModel(d.Client),
		admin:    newAdminModel(d.Client),
	}
	if d.Session != nil {
		a = a.applyState(d.Session.State())
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), checkVersion(a.deps.Version))
}

// applyState moves the app between the login view and the museum. States
// older than the current one are ignored.
func (a App) applyState(st session.State) App {
	if st.Seq < a.state.Seq {
		return a
	}
	a.state = st
	if st.Authenticated {
		if st.User != nil {
			a.rooms.user = st.User.Email
			a.board.myID = st.User.ID
		}
		a.gallery.admin = st.Admin
		if a.view == viewLogin {
			a.view = viewRooms
		}
		return a
	}

	a.view = viewLogin
	a.helpOpen = false
	a.rooms.user = ""
	a.board.myID = 0
	a.gallery.admin = false
	switch st.Reason {
	case session.ReasonExpired:
		a.login = a.login.notice("your session expired after inactivity, log in again", true)
	case session.ReasonRejected:
		a.login = a.login.notice("your session is no longer valid, log in again", true)
	case session.ReasonLogout:
		a.login = a.login.notice("logged out", false)
	}
	return a
}

// emit reports visitor input to the activity hub.
func (a App) emit(msg tea.Msg) {
	hub := a.deps.Activity
	if hub == nil || !a.state.Authenticated {
		return
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		hub.Emit(session.KeyPress)
	case tea.MouseMsg:
		switch {
		case tea.MouseEvent(msg).IsWheel():
			hub.Emit(session.Scroll)
		case msg.Action == tea.MouseActionPress:
			hub.Emit(session.PointerPress)
		case msg.Action == tea.MouseActionRelease:
			hub.Emit(session.Click)
		}
	}
}

// The manager notifies subscribers synchronously and the subscriber sends
// into the program, so calls that may end the session run off the update loop.
func (a App) logoutCmd() tea.Cmd {
	s := a.deps.Session
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		s.Logout()
		return nil
	}
}

func (a App) checkExpiryCmd() tea.Cmd {
	s := a.deps.Session
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		s.CheckExpiry()
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.emit(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + blank(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.login, _ = a.login.Update(bodyMsg)
		a.rooms, _ = a.rooms.Update(bodyMsg)
		a.gallery, _ = a.gallery.Update(bodyMsg)
		a.quiz, _ = a.quiz.Update(bodyMsg)
		a.board, _ = a.board.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)
		return a, nil

	case tea.FocusMsg:
		return a, a.checkExpiryCmd()

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.update = msg.latestVersion
		}
		return a, nil

	case sessionMsg:
		a = a.applyState(msg.state)
		return a, nil

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err == nil {
			a = a.applyState(msg.state)
		}
		return a, nil

	case openRoomMsg:
		track := a.trackVisit(msg.id)
		if msg.id == domain.RoomGame {
			a.view = viewQuiz
			a.quiz = a.quiz.reset()
			return a, track
		}
		a.view = viewGallery
		var cmd tea.Cmd
		a.gallery, cmd = a.gallery.enter(domain.Kind(msg.id))
		return a, tea.Batch(track, cmd)

	case visitTrackedMsg:
		// Visit tracking is best effort and never interrupts the visitor.
		return a, nil

	case closeRoomMsg:
		a.view = viewRooms
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}
		if a.view != viewLogin && !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "L":
				return a, a.logoutCmd()
			case "1":
				a.view = viewRooms
				return a, nil
			case "2":
				if a.view != viewBoard {
					a.view = viewBoard
					a.board.loading = true
					return a, a.board.Init()
				}
				return a, nil
			case "3":
				a.view = viewFeedback
				return a, nil
			case "4":
				if a.state.Admin && a.view != viewAdmin {
					a.view = viewAdmin
					a.admin.loading = true
					return a, a.admin.Init()
				}
				return a, nil
			}
		} else if a.view == viewFeedback && msg.String() == "esc" {
			a.view = viewRooms
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRooms:
		a.rooms, cmd = a.rooms.Update(msg)
	case viewGallery:
		a.gallery, cmd = a.gallery.Update(msg)
	case viewQuiz:
		a.quiz, cmd = a.quiz.Update(msg)
	case viewBoard:
		a.board, cmd = a.board.Update(msg)
	case viewFeedback:
		a.feedback, cmd = a.feedback.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

func (a App) trackVisit(room string) tea.Cmd {
	c := a.deps.Client
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		err := c.TrackVisit(context.Background(), room)
		return visitTrackedMsg{room: room, err: err}
	}
}

func (a App) isEditing() bool {
	return a.view == viewFeedback
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	statusLine := ""
	switch {
	case a.update != "":
		statusLine = goldStyle.Render(a.update + " available")
	case a.state.Authenticated && a.state.User != nil:
		parts := []string{a.state.User.Email}
		if a.state.Admin {
			parts = append(parts, "admin")
		}
		statusLine = metaStyle.Render(strings.Join(parts, " . "))
	}

	header := center(logo, a.width) + "\n"
	if statusLine != "" {
		header += center(statusLine, a.width)
	}

	tabBar := ""
	if a.view != viewLogin {
		tabBar = a.tabBar()
	}

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case viewRooms:
		body = a.rooms.View()
		help = a.rooms.helpKeys()
	case viewGallery:
		body = a.gallery.View()
		help = a.gallery.helpKeys()
	case viewQuiz:
		body = a.quiz.View()
		help = a.quiz.helpKeys()
	case viewBoard:
		body = a.board.View()
		help = a.board.helpKeys()
	case viewFeedback:
		body = a.feedback.View()
		help = a.feedback.helpKeys()
	case viewAdmin:
		body = a.admin.View()
		help = a.admin.helpKeys()
	}
	if a.view != viewLogin {
		help = helpEntry(a.tabKeys(), "tabs") + "  " + help
	}

	if a.helpOpen {
		body = helpView(a.deps.Timeout)
		help = helpEntry("esc", "close")
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n\n %s", header, tabBar, body, help)
}

type tabEntry struct {
	key  string
	name string
	v    view
}

func (a App) tabs() []tabEntry {
	tabs := []tabEntry{
		{"1", "Rooms", viewRooms},
		{"2", "Leaderboard", viewBoard},
		{"3", "Feedback", viewFeedback},
	}
	if a.state.Admin {
		tabs = append(tabs, tabEntry{"4", "Dashboard", viewAdmin})
	}
	return tabs
}

func (a App) tabKeys() string {
	return fmt.Sprintf("1-%d", len(a.tabs()))
}

// tabBar spreads the tabs across the terminal in equal-width columns.
func (a App) tabBar() string {
	tabs := a.tabs()
	current := a.view
	if current == viewGallery || current == viewQuiz {
		current = viewRooms
	}
	colWidth := a.width / len(tabs)
	var b strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == current {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		b.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return b.String()
}

func center(s string, width int) string {
	pad := max((width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}
