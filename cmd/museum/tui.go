package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naveenspark/museum/internal/quiz"
	"github.com/naveenspark/museum/internal/session"
	"github.com/naveenspark/museum/internal/tui"
)

func runTUI(cmd *cobra.Command, opts *options) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	bank := quiz.Default()
	if path := e.cfg.Quiz.Bank; path != "" {
		if bank, err = quiz.LoadFile(path); err != nil {
			return err
		}
	}

	stopMetrics := e.serveMetrics()
	defer stopMetrics()

	// Only a token that survived the inactivity window and the backend's
	// check is resumed; otherwise the app opens on the login form.
	st := e.sess.Restore(cmd.Context())
	e.log.Info().Bool("authenticated", st.Authenticated).Str("reason", st.Reason.String()).Msg("starting museum")

	app := tui.NewApp(tui.Deps{
		Client:   e.api,
		Session:  e.sess,
		Activity: e.hub,
		Layouts:  e.cfg.Layout.For,
		Bank:     bank,
		Metrics:  e.metrics,
		Version:  version,
		Timeout:  e.cfg.Session.Timeout,
	})

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(cmd.Context()),
	)
	unsubscribe := e.sess.Subscribe(func(s session.State) {
		p.Send(tui.SessionChanged(s))
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
