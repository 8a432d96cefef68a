package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware), printable characters and pasted text.
// Returns the text unchanged for named keys (enter, esc, ctrl+c, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if isNamedKey(key) {
		return text
	}
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	runes := []rune(key)
	if len(runes) > room {
		runes = runes[:room]
	}
	return text + string(runes)
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "delete": true, "insert": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
}

func isNamedKey(key string) bool {
	if utf8.RuneCountInString(key) <= 1 {
		return key == ""
	}
	if namedKeys[key] {
		return true
	}
	for _, prefix := range []string{"ctrl+", "alt+", "shift+"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	// f1..f20
	if key[0] == 'f' && len(key) <= 3 && strings.Trim(key[1:], "0123456789") == "" {
		return true
	}
	return false
}

// keyText is the text a key press contributes to an input: the runes for
// typed or pasted text, otherwise the key name for editRune to interpret.
func keyText(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	}
	return msg.String()
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderField renders one labelled form input. Masked fields show a dot per
// rune; the focused field gets a block cursor.
func renderField(label, value, placeholder string, focused, masked bool) string {
	cursor := " "
	style := metaStyle
	if focused {
		cursor = inputPromptStyle.Render(">")
		style = selectedStyle
	}
	shown := value
	if masked {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	switch {
	case shown == "" && !focused:
		shown = inputPlaceholderStyle.Render(placeholder)
	case focused:
		shown = normalStyle.Render(shown) + accentStyle.Render("█")
	default:
		shown = normalStyle.Render(shown)
	}
	return cursor + " " + style.Render(label) + ": " + shown
}
