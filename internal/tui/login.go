package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/internal/session"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	numLoginFields
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

type loginDoneMsg struct {
	state session.State
	err   error
}

type registerDoneMsg struct {
	email string
	err   error
}

type loginModel struct {
	sess       Session
	mode       loginMode
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	status     string
	isErr      bool
	width      int
	height     int
}

func newLoginModel(s Session) loginModel {
	return loginModel{sess: s}
}

// notice shows a message above the form, e.g. after the session expired.
func (m loginModel) notice(text string, isErr bool) loginModel {
	m.status = text
	m.isErr = isErr
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.fields[fieldPassword] = ""
			return m.notice(failureReason(msg.err), true), nil
		}
		m.fields = [numLoginFields]string{}
		m.focus = fieldEmail
		m.status = ""

	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			return m.notice(failureReason(msg.err), true), nil
		}
		// Registration does not sign in; switch to the login form prefilled.
		m.mode = modeLogin
		m.fields = [numLoginFields]string{fieldEmail: msg.email}
		m.focus = fieldPassword
		return m.notice("account created, log in to continue", false), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "ctrl+r":
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		m.status = ""
	case "enter":
		if m.focus == fieldEmail {
			m.focus = fieldPassword
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, keyText(msg))
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[fieldEmail])
	password := m.fields[fieldPassword]
	if email == "" || password == "" {
		return m.notice("email and password are required", true), nil
	}
	if m.sess == nil {
		return m, nil
	}

	m.submitting = true
	m.status = ""
	s := m.sess
	if m.mode == modeRegister {
		return m, func() tea.Msg {
			err := s.Register(context.Background(), email, password)
			return registerDoneMsg{email: email, err: err}
		}
	}
	return m, func() tea.Msg {
		st, err := s.Login(context.Background(), email, password)
		return loginDoneMsg{state: st, err: err}
	}
}

// failureReason extracts the message meant for the visitor.
func failureReason(err error) string {
	var authErr *session.AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	var regErr *session.RegistrationError
	if errors.As(err, &regErr) {
		return regErr.Reason
	}
	return err.Error()
}

func (m loginModel) View() string {
	var b strings.Builder

	title := "Log in"
	other := "ctrl+r to register"
	if m.mode == modeRegister {
		title = "Create an account"
		other = "ctrl+r to log in"
	}
	b.WriteString("\n " + sectionHeaderStyle.Render(title) + "  " + dimStyle.Render(other) + "\n\n")

	b.WriteString(" " + renderField("email", m.fields[fieldEmail], "you@example.com", m.focus == fieldEmail, false) + "\n")
	b.WriteString(" " + renderField("password", m.fields[fieldPassword], "", m.focus == fieldPassword, true) + "\n\n")

	switch {
	case m.submitting && m.mode == modeRegister:
		b.WriteString(" " + dimStyle.Render("registering...") + "\n")
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.status != "" && m.isErr:
		b.WriteString(" " + errStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+r", "login/register") + "  " + helpEntry("ctrl+c", "quit")
}
