package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/museum/internal/layout"
	"github.com/naveenspark/museum/pkg/domain"
)

const (
	glyphExhibit  = '•'
	glyphSelected = '◆'
	glyphCenter   = '+'
)

// renderRingMap draws placements seen from above (X right, Z down) on a
// width x height character grid. Cells are roughly twice as tall as wide,
// so X and Z get separate scales.
func renderRingMap(ps []layout.Placement[domain.Exhibit], bound float64, selected, width, height int, color string) string {
	if width < 5 || height < 3 {
		return ""
	}
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}

	cx, cy := width/2, height/2
	grid[cy][cx] = glyphCenter

	if bound <= 0 {
		bound = 1
	}
	sx := float64(width/2-1) / bound
	sy := float64(height/2-1) / bound

	cell := func(p layout.Position) (int, int) {
		x := cx + int(math.Round(p.X*sx))
		y := cy + int(math.Round(p.Z*sy))
		return min(max(x, 0), width-1), min(max(y, 0), height-1)
	}

	for i, p := range ps {
		if i == selected {
			continue
		}
		x, y := cell(p.Position)
		grid[y][x] = glyphExhibit
	}
	if selected >= 0 && selected < len(ps) {
		x, y := cell(ps[selected].Position)
		grid[y][x] = glyphSelected
	}

	item := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	var b strings.Builder
	for _, row := range grid {
		for _, r := range row {
			switch r {
			case glyphExhibit:
				b.WriteString(item.Render(string(r)))
			case glyphSelected:
				b.WriteString(accentStyle.Render(string(r)))
			case glyphCenter:
				b.WriteString(mapCenterStyle.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
