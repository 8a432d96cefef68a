package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/museum/pkg/domain"
)

// Shimmer animation for the MUSEUM logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "M U S E U M" as a slow wave of lamp light.
// Bronze (#4a3414) -> gold (#f5c542).
func renderShimmerLogo(frame int) string {
	const text = "MUSEUM"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(74 + b*(245-74))
		g := clampByte(52 + b*(197-52))
		bl := clampByte(20 + b*(66-20))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)
		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ece6d8")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8c2b4"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5648"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5648"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0b040"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d05050"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#807868")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0b040")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3c382e"))

	// Ring map glyphs
	mapCenterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5648"))
)

// roomStyle returns a bold style in the room's signature color.
func roomStyle(id string) lipgloss.Style {
	if r, ok := domain.Rooms[id]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(r.HexColor)).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// rankStyle returns a colored style based on leaderboard position.
func rankStyle(rank int) lipgloss.Style {
	switch rank {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15")) // gold
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1")) // silver
	case 3:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#d08b4a")) // bronze
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#8891a5"))
	}
}

// ratingStars renders a 1-5 rating as filled and empty stars.
func ratingStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return goldStyle.Render(strings.Repeat("★", rating)) + metaStyle.Render(strings.Repeat("☆", 5-rating))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay.
func helpView(timeout time.Duration) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f5c542")).
		Bold(true).
		Render("M U S E U M")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Temples, weapons and fossils, arranged in rings."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"museum", "Enter the museum (interactive TUI)"},
		{"museum login", "Sign in with email and password"},
		{"museum register", "Create an account"},
		{"museum logout", "Clear your session"},
		{"museum layout <room>", "Print ring positions for a gallery"},
		{"museum leaderboard", "Show top quiz scores"},
		{"museum version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-4", "switch tabs"},
		{"j/k", "move"},
		{"enter", "open"},
		{"c", "copy media link (gallery)"},
		{"o", "open 3D model (gallery)"},
		{"L", "log out"},
		{"q", "quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, quote)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", k.key)), descStyle.Render(k.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", dimStyle.Render(fmt.Sprintf("sessions end after %s without activity", timeout)))
	return b.String()
}
