package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

var museumEnv = []string{
	"MUSEUM_API_URL", "MUSEUM_API_TIMEOUT", "MUSEUM_SESSION_TIMEOUT", "MUSEUM_SESSION_CHECK_INTERVAL",
	"MUSEUM_STORAGE_DIR", "MUSEUM_STORAGE_IN_MEMORY", "MUSEUM_LOG_LEVEL", "MUSEUM_LOG_FORMAT",
	"MUSEUM_LOG_FILE", "MUSEUM_QUIZ_BANK", "MUSEUM_METRICS_ADDR", "MUSEUM_CONFIG",
	"MUSEUM_API_BREAKER_THRESHOLD", "MUSEUM_API_BREAKER_COOLDOWN",
}

// fakeBackend accepts ada@example.com / pw and serves one leaderboard entry.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		if body.Email != "ada@example.com" || body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Incorrect email or password"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer"}`)) //nolint:errcheck
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":8,"email":"new@example.com"}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /api/v1/user/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"id":7,"email":"ada@example.com","is_active":true,"is_admin":false,"created_at":"2025-01-01T00:00:00"}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /api/v1/gamification/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"user_id":7,"score":90,"game_mode":"temples-easy","achieved_at":"2025-01-01T00:00:00"},` + //nolint:errcheck
			`{"id":2,"user_id":3,"score":70,"game_mode":"temples-easy","achieved_at":"2025-01-01T00:00:00"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setup isolates the command from the user's config and points it at url.
func setup(t *testing.T, url string) {
	t.Helper()
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range museumEnv {
		t.Setenv(name, "")
		os.Unsetenv(name) //nolint:errcheck
	}
	t.Setenv("MUSEUM_API_URL", url)
	t.Setenv("MUSEUM_STORAGE_DIR", filepath.Join(home, "session"))
	t.Setenv("MUSEUM_LOG_FILE", filepath.Join(home, "museum.log"))
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "museum dev\n" {
		t.Errorf("output = %q", out)
	}
}

func TestLayoutPlaceholders(t *testing.T) {
	setup(t, "http://127.0.0.1:1")

	out, err := execute(t, "", "layout", "weapons", "--count", "4")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got:\n%s", out)
	}
	if !strings.Contains(lines[1], "25.00") || !strings.Contains(lines[1], "7.00") || !strings.HasSuffix(lines[1], "#1") {
		t.Errorf("first weapon should sit at (25, 7, 0): %q", lines[1])
	}
}

func TestLayoutJSON(t *testing.T) {
	setup(t, "http://127.0.0.1:1")

	out, err := execute(t, "", "layout", "Temple", "-n", "23", "--json")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	var rows []placementRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 23 {
		t.Fatalf("rows = %d, want 23", len(rows))
	}
	if rows[19].Ring != 1 || rows[20].Ring != 2 {
		t.Errorf("ring split wrong: %d, %d", rows[19].Ring, rows[20].Ring)
	}
	if rows[20].X != 24 || rows[20].Y != 4.5 {
		t.Errorf("first outer temple = %+v, want x=24 y=4.5", rows[20])
	}
}

func TestLayoutShrine(t *testing.T) {
	setup(t, "http://127.0.0.1:1")

	out, err := execute(t, "", "layout", "temples", "--shrine", "-n", "1", "--json")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	var rows []placementRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].X != 12 || rows[0].Y != 1.5 {
		t.Errorf("shrine placement = %+v", rows)
	}
}

func TestLayoutErrors(t *testing.T) {
	setup(t, "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown gallery", []string{"layout", "paintings", "-n", "2"}, "unknown gallery"},
		{"shrine on weapons", []string{"layout", "weapons", "--shrine", "-n", "2"}, "only applies to temples"},
		{"negative count", []string{"layout", "fossils", "-n", "-1"}, "must not be negative"},
		{"needs login to fetch", []string{"layout", "fossils"}, "not logged in"},
		{"missing arg", []string{"layout"}, "accepts 1 arg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := fakeBackend(t)
	setup(t, srv.URL)

	out, err := execute(t, "ada@example.com\npw\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Welcome, ada@example.com.") {
		t.Errorf("login output = %q", out)
	}

	out, err = execute(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if out != "ada@example.com (visitor)\n" {
		t.Errorf("whoami output = %q", out)
	}

	if _, err := execute(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	out, err = execute(t, "", "whoami")
	if !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("whoami after logout: err = %v", err)
	}
	if !strings.Contains(out, "museum login") {
		t.Errorf("expected login hint, got %q", out)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := fakeBackend(t)
	setup(t, srv.URL)

	_, err := execute(t, "wrong\n", "login", "--email", "ada@example.com")
	if err == nil || !strings.Contains(err.Error(), "Incorrect email or password") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoginRequiresPassword(t *testing.T) {
	setup(t, "http://127.0.0.1:1")

	_, err := execute(t, "", "login", "-e", "ada@example.com")
	if err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestRegister(t *testing.T) {
	srv := fakeBackend(t)
	setup(t, srv.URL)

	out, err := execute(t, "new@example.com\nlongenough\n", "register")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out, "Account created for new@example.com") {
		t.Errorf("output = %q", out)
	}
}

func TestLeaderboard(t *testing.T) {
	srv := fakeBackend(t)
	setup(t, srv.URL)

	out, err := execute(t, "", "leaderboard", "--mode", "Temples-Easy")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, want := range []string{"#1", "player 7", "90", "#2", "player 3", "temples-easy"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	if _, err := execute(t, "", "leaderboard", "--mode", "paintings-easy"); err == nil {
		t.Error("expected error for unknown game mode")
	}
	if _, err := execute(t, "", "leaderboard", "--limit", "0"); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestLeaderboardMarksSelf(t *testing.T) {
	srv := fakeBackend(t)
	setup(t, srv.URL)

	if _, err := execute(t, "ada@example.com\npw\n", "login"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := execute(t, "", "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "you") || strings.Contains(out, "player 7") {
		t.Errorf("own score should read 'you':\n%s", out)
	}
}

func TestGreetings(t *testing.T) {
	var buf bytes.Buffer
	printGreeting(&buf)
	if !strings.Contains(buf.String(), "MUSEUM") || !strings.Contains(buf.String(), "museum login") {
		t.Errorf("greeting = %q", buf.String())
	}
	buf.Reset()
	printFarewell(&buf)
	if strings.Contains(buf.String(), "museum login") {
		t.Errorf("farewell should not carry a hint: %q", buf.String())
	}
}
