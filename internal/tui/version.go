package tui

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
)

const releaseURL = "https://api.github.com/repos/naveenspark/museum/releases/latest"

// versionCheckMsg carries the result of a background release check.
type versionCheckMsg struct {
	latestVersion string
	hasUpdate     bool
}

// checkVersion looks for a newer release in the background. It returns nil
// for dev builds.
func checkVersion(current string) tea.Cmd {
	if current == "" || current == "dev" {
		return nil
	}
	return checkVersionAt(releaseURL, current)
}

func checkVersionAt(url, current string) tea.Cmd {
	return func() tea.Msg {
		hc := &http.Client{Timeout: 5 * time.Second}
		resp, err := hc.Get(url)
		if err != nil {
			return versionCheckMsg{}
		}
		defer resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusOK {
			return versionCheckMsg{}
		}
		var release struct {
			TagName string `json:"tag_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return versionCheckMsg{}
		}
		latest := strings.TrimPrefix(release.TagName, "v")
		if isNewerVersion(latest, current) {
			return versionCheckMsg{latestVersion: "v" + latest, hasUpdate: true}
		}
		return versionCheckMsg{}
	}
}

// isNewerVersion reports whether latest is a newer semver than current.
func isNewerVersion(latest, current string) bool {
	parse := func(v string) [3]int {
		var out [3]int
		parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
		for i, p := range parts {
			out[i], _ = strconv.Atoi(p) //nolint:errcheck
		}
		return out
	}
	l, c := parse(latest), parse(current)
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}
