package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/naveenspark/museum/internal/layout"
	"github.com/naveenspark/museum/internal/session"
	"github.com/naveenspark/museum/pkg/domain"
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("not logged in (run: museum login)")

// -- credentials --

// readCredentials takes the email from the flag or a prompt and the password
// from the terminal without echo, or from the next input line when stdin is
// not a terminal.
func readCredentials(cmd *cobra.Command, email string) (string, string, error) {
	in := cmd.InOrStdin()
	out := cmd.ErrOrStderr()
	r := bufio.NewReader(in)

	if email == "" {
		fmt.Fprint(out, "email: ")
		line, err := readLine(r)
		if err != nil {
			return "", "", fmt.Errorf("read email: %w", err)
		}
		email = line
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	fmt.Fprint(out, "password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	} else {
		line, err := readLine(r)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = line
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// -- login / register / logout / whoami --

func newLoginCmd(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := readCredentials(cmd, email)
			if err != nil {
				return err
			}
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			st, err := e.sess.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", st.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newRegisterCmd(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := readCredentials(cmd, email)
			if err != nil {
				return err
			}
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			if err := e.sess.Register(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run: museum login\n", email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			e.sess.Logout()
			printFarewell(cmd.OutOrStdout())
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in visitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			st := e.sess.Restore(cmd.Context())
			if !st.Authenticated {
				printGreeting(cmd.OutOrStdout())
				return errNotLoggedIn
			}
			role := "visitor"
			if st.Admin {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", st.User.Email, role)
			return nil
		},
	}
}

// -- layout --

type placementRow struct {
	Name string  `json:"name"`
	Ring int     `json:"ring"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

func newLayoutCmd(opts *options) *cobra.Command {
	var (
		count   int
		shrine  bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "layout <temples|weapons|fossils>",
		Short: "Print ring positions for a gallery",
		Long: `Prints where each exhibit of a gallery stands. With --count the layout
is computed for that many placeholder exhibits and no backend is needed;
otherwise the gallery's exhibits are fetched (requires login).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown gallery %q (want temples, weapons or fossils)", args[0])
			}
			name := string(kind)
			if shrine {
				if kind != domain.KindTemple {
					return errors.New("--shrine only applies to temples")
				}
				name = layout.Shrine
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			cfg, ok := e.cfg.Layout.For(name)
			if !ok {
				return fmt.Errorf("no layout configured for %s", name)
			}
			items, err := layoutItems(cmd.Context(), e, kind, count)
			if err != nil {
				return err
			}

			placements := layout.ComputePositions(items, cfg)
			e.metrics.Placed(name, len(placements))
			rows := make([]placementRow, len(placements))
			for i, p := range placements {
				rows[i] = placementRow{Name: p.Item.Name, Ring: p.Ring + 1, X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z}
			}
			return printPlacements(cmd.OutOrStdout(), rows, jsonOut)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "lay out this many placeholder exhibits instead of fetching")
	cmd.Flags().BoolVar(&shrine, "shrine", false, "use the shrine layout (temples only)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func layoutItems(ctx context.Context, e *env, kind domain.Kind, count int) ([]domain.Exhibit, error) {
	if count < 0 {
		return nil, errors.New("--count must not be negative")
	}
	if count > 0 {
		items := make([]domain.Exhibit, count)
		for i := range items {
			items[i] = domain.Exhibit{Kind: kind, ID: i + 1, Name: fmt.Sprintf("#%d", i+1)}
		}
		return items, nil
	}
	if st := e.sess.Restore(ctx); !st.Authenticated {
		return nil, errNotLoggedIn
	}
	return e.api.ListExhibits(ctx, kind)
}

func printPlacements(w io.Writer, rows []placementRow, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "no exhibits")
		return nil
	}
	fmt.Fprintf(w, "%-4s %8s %8s %8s  %s\n", "RING", "X", "Y", "Z", "EXHIBIT")
	for _, r := range rows {
		fmt.Fprintf(w, "%-4d %8.2f %8.2f %8.2f  %s\n", r.Ring, r.X, r.Y, r.Z, r.Name)
	}
	return nil
}

// -- leaderboard --

func newLeaderboardCmd(opts *options) *cobra.Command {
	var (
		mode  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show top quiz scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode = strings.ToLower(mode)
			if mode != "" && !domain.ValidGameMode(mode) {
				return fmt.Errorf("unknown game mode %q (want <category>-<difficulty>, e.g. temples-easy)", mode)
			}
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			st := e.sess.Restore(cmd.Context())
			scores, err := e.api.Leaderboard(cmd.Context(), mode, limit)
			if err != nil {
				return err
			}
			printLeaderboard(cmd.OutOrStdout(), scores, st)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "game mode filter, e.g. temples-easy")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of entries")
	return cmd
}

func printLeaderboard(w io.Writer, scores []domain.HighScore, st session.State) {
	if len(scores) == 0 {
		fmt.Fprintln(w, "no scores yet")
		return
	}
	me := 0
	if st.Authenticated && st.User != nil {
		me = st.User.ID
	}
	for i, s := range scores {
		player := fmt.Sprintf("player %d", s.UserID)
		if s.UserID == me {
			player = "you"
		}
		fmt.Fprintf(w, "#%-3d %-12s %5d  %s\n", i+1, player, s.Score, s.GameMode)
	}
}

// -- version --

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "museum "+version)
		},
	}
}
