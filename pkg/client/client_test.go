package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naveenspark/museum/pkg/domain"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/user/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte(`{"id":4,"email":"curator@museum.test","is_active":true,"is_admin":true,"created_at":"2024-05-01T08:00:00"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.Email != "curator@museum.test" {
		t.Errorf("Email = %q, want %q", me.Email, "curator@museum.test")
	}
	if !me.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if got := Message(err); got != "Could not validate credentials" {
		t.Errorf("Message() = %q, want detail text", got)
	}
}

type fakeSource struct {
	token       string
	invalidated atomic.Int32
	rejected    atomic.Value
}

func (f *fakeSource) Token() string { return f.token }

func (f *fakeSource) Invalidate(token string) {
	f.invalidated.Add(1)
	f.rejected.Store(token)
}

func TestBoundSource_InvalidatedOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	src := &fakeSource{token: "stale"}
	c := New(srv.URL, "")
	c.Bind(src)

	if _, err := c.ListTemples(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("ListTemples() error = %v, want 401", err)
	}
	if got := src.invalidated.Load(); got != 1 {
		t.Errorf("Invalidate called %d times, want 1", got)
	}
	if got, _ := src.rejected.Load().(string); got != "stale" {
		t.Errorf("rejected token = %q, want %q", got, "stale")
	}
}

func TestBoundSource_NotInvalidatedOnOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "admins only"}) //nolint:errcheck
	}))
	defer srv.Close()

	src := &fakeSource{token: "tok"}
	c := New(srv.URL, "")
	c.Bind(src)

	if _, err := c.VisitStats(context.Background()); !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("VisitStats() error = %v, want 403", err)
	}
	if got := src.invalidated.Load(); got != 0 {
		t.Errorf("Invalidate called %d times, want 0", got)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password. Please try again."}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "jwt-abc", TokenType: "bearer"}) //nolint:errcheck
	}))
	defer srv.Close()

	src := &fakeSource{}
	c := New(srv.URL, "")
	c.Bind(src)

	tok, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok != "jwt-abc" {
		t.Errorf("token = %q, want %q", tok, "jwt-abc")
	}

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("Login() error = %v, want 401", err)
	}
	if src.invalidated.Load() != 0 {
		t.Error("failed login must not invalidate the bound source")
	}
}

func TestRegister_DuplicateDetail(t *testing.T) {
	const detail = "Looks like 'a@b.c' is already registered. Try logging in or use a different email."
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": detail}) //nolint:errcheck
	}))
	defer srv.Close()

	err := New(srv.URL, "").Register(context.Background(), "a@b.c", "pw")
	if err == nil {
		t.Fatal("expected error for duplicate registration")
	}
	if got := Message(err); got != detail {
		t.Errorf("Message() = %q, want %q", got, detail)
	}
}

func TestValidationDetailList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","rating"],"msg":"field required"},{"msg":"bad message"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok").SubmitFeedback(context.Background(), domain.FeedbackInput{Rating: 5, Message: "lovely temples"})
	if got := Message(err); got != "field required; bad message" {
		t.Errorf("Message() = %q, want joined validation messages", got)
	}
}

func TestListExhibits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/content/weapons" {
			http.NotFound(w, r)
			return
		}
		weapons := []domain.Weapon{
			{ID: 1, Name: "Urumi", Type: "Sword"},
			{ID: 2, Name: "Chakram", Type: "Throwing"},
		}
		json.NewEncoder(w).Encode(weapons) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	exhibits, err := c.ListExhibits(context.Background(), domain.KindWeapon)
	if err != nil {
		t.Fatalf("ListExhibits() error: %v", err)
	}
	if len(exhibits) != 2 {
		t.Fatalf("got %d exhibits, want 2", len(exhibits))
	}
	if exhibits[1].Kind != domain.KindWeapon || exhibits[1].Subtitle != "Throwing" {
		t.Errorf("exhibits[1] = %+v, want weapon subtitled Throwing", exhibits[1])
	}

	if _, err := c.ListExhibits(context.Background(), domain.Kind("coins")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestListTemples_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]domain.Temple{}) //nolint:errcheck
	}))
	defer srv.Close()

	temples, err := New(srv.URL, "tok").ListTemples(context.Background())
	if err != nil {
		t.Fatalf("ListTemples() error: %v", err)
	}
	if len(temples) != 0 {
		t.Errorf("got %d temples, want 0", len(temples))
	}
}

func TestLeaderboardQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("game_mode"); got != "fossils-hard" {
			t.Errorf("game_mode = %q, want %q", got, "fossils-hard")
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want %q", got, "5")
		}
		json.NewEncoder(w).Encode([]domain.HighScore{{ID: 1, Score: 90, GameMode: "fossils-hard"}}) //nolint:errcheck
	}))
	defer srv.Close()

	scores, err := New(srv.URL, "tok").Leaderboard(context.Background(), "fossils-hard", 5)
	if err != nil {
		t.Fatalf("Leaderboard() error: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 90 {
		t.Errorf("scores = %+v, want one score of 90", scores)
	}
}

func TestAdminEnvelopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/admin/leaderboard":
			w.Write([]byte(`{"leaderboard":[{"id":1,"user_id":2,"score":70,"game_mode":"temples-easy","achieved_at":"2024-01-01T00:00:00"}]}`)) //nolint:errcheck
		case "/api/v1/admin/feedback":
			w.Write([]byte(`{"feedback":[{"id":1,"user_id":2,"rating":4,"message":"nice","submitted_at":"2024-01-01T00:00:00"}]}`)) //nolint:errcheck
		case "/api/v1/admin/visits/stats":
			w.Write([]byte(`{"room_statistics":{"temples":3,"game":1},"total_visits":4,"unique_users":2,"average_visit_duration":5}`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx := context.Background()

	lb, err := c.AdminLeaderboard(ctx, "", 10)
	if err != nil || len(lb) != 1 {
		t.Fatalf("AdminLeaderboard() = %v, %v", lb, err)
	}
	fb, err := c.AllFeedback(ctx, 50)
	if err != nil || len(fb) != 1 || fb[0].Rating != 4 {
		t.Fatalf("AllFeedback() = %v, %v", fb, err)
	}
	stats, err := c.VisitStats(ctx)
	if err != nil {
		t.Fatalf("VisitStats() error: %v", err)
	}
	if stats.RoomStatistics["temples"] != 3 || stats.TotalVisits != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeleteExhibit(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(domain.Message{Message: "Fossil deleted successfully"}) //nolint:errcheck
	}))
	defer srv.Close()

	if err := New(srv.URL, "tok").DeleteExhibit(context.Background(), domain.KindFossil, 9); err != nil {
		t.Fatalf("DeleteExhibit() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/admin/fossils/9" {
		t.Errorf("request = %s %s, want DELETE /api/v1/admin/fossils/9", gotMethod, gotPath)
	}
}

func TestTrackVisit_RejectsUnknownRoom(t *testing.T) {
	c := New("http://127.0.0.1:0", "tok")
	if err := c.TrackVisit(context.Background(), "lobby"); err == nil {
		t.Error("expected error for unknown room")
	}
}

func TestMediaURL(t *testing.T) {
	c := New("https://museum.test/", "")
	tests := []struct {
		name     string
		kind     domain.Kind
		media    string
		filename string
		token    string
		want     string
	}{
		{"strips prefix", domain.KindTemple, MediaImages, "temples/brihad.jpg", "", "https://museum.test/api/v1/content/media/temples/images/brihad.jpg"},
		{"bare name", domain.KindFossil, MediaAudio, "trex.mp3", "", "https://museum.test/api/v1/content/media/fossils/audio/trex.mp3"},
		{"with token", domain.KindWeapon, MediaImages, "weapons/urumi.png", "t k", "https://museum.test/api/v1/content/media/weapons/images/urumi.png?token=t+k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.MediaURL(tt.kind, tt.media, tt.filename, tt.token); got != tt.want {
				t.Errorf("MediaURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want it to contain 'boom'", got)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)              // slow server
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetMe(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestWrites_ValidatedBeforeSending(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	c := New(srv.URL, "tok")
	ctx := context.Background()

	if _, err := c.SubmitFeedback(ctx, domain.FeedbackInput{Rating: 6, Message: "too many stars"}); err == nil {
		t.Error("expected rating 6 to be rejected")
	}
	if _, err := c.SubmitScore(ctx, domain.ScoreInput{Score: 30}); err == nil {
		t.Error("expected missing game mode to be rejected")
	}
	if _, err := c.CreateFossil(ctx, domain.FossilInput{Name: "Ammonite"}); err == nil {
		t.Error("expected incomplete fossil to be rejected")
	}
	if err := c.Register(ctx, "not-an-email", "pw"); err == nil {
		t.Error("expected malformed email to be rejected")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestCircuitBreaker_OpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", WithCircuitBreaker(2, time.Minute))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.GetMe(ctx); !IsStatus(err, http.StatusBadGateway) {
			t.Fatalf("call %d: error = %v, want HTTP 502", i, err)
		}
	}
	_, err := c.GetMe(ctx)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", WithCircuitBreaker(1, time.Minute))
	for i := 0; i < 3; i++ {
		if _, err := c.GetMe(context.Background()); errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: breaker opened on a 404", i)
		}
	}
	if n := hits.Load(); n != 3 {
		t.Errorf("server saw %d requests, want 3", n)
	}
}

func TestRegister_InvalidEmailDetail(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	err := c.Register(context.Background(), "not-an-email", "pw")
	if err == nil {
		t.Fatal("expected malformed email to be rejected")
	}
	if got := Message(err); got != "invalid email address" {
		t.Errorf("Message() = %q, want %q", got, "invalid email address")
	}
}

func TestAdminWrites(t *testing.T) {
	temple := domain.TempleInput{
		Name: "Brihadeeswarar", Dynasty: "Chola", Builder: "Rajaraja I", TimePeriod: "1010 CE",
		HistoricalSignificance: "granite vimana", StaticImageURL: "temples/b.jpg", AudioStoryURL: "temples/b.mp3",
	}
	weapon := domain.WeaponInput{
		Name: "Urumi", Type: "sword", Description: "flexible blade",
		ImageURL: "weapons/u.jpg", AudioStoryURL: "weapons/u.mp3", DynastyContext: []string{"Chera"},
	}
	fossil := domain.FossilInput{
		Name: "Ammonite", FossilType: "mollusc", Era: "Jurassic", Description: "coiled shell",
		ImageURL: "fossils/a.jpg", AudioStoryURL: "fossils/a.mp3",
	}

	tests := []struct {
		name       string
		call       func(c *Client) (int, error)
		wantMethod string
		wantPath   string
		wantName   string
	}{
		{"create temple", func(c *Client) (int, error) {
			tm, err := c.CreateTemple(context.Background(), temple)
			if err != nil {
				return 0, err
			}
			return tm.ID, nil
		}, http.MethodPost, "/api/v1/admin/temples", "Brihadeeswarar"},
		{"update temple", func(c *Client) (int, error) {
			tm, err := c.UpdateTemple(context.Background(), 4, temple)
			if err != nil {
				return 0, err
			}
			return tm.ID, nil
		}, http.MethodPut, "/api/v1/admin/temples/4", "Brihadeeswarar"},
		{"create weapon", func(c *Client) (int, error) {
			w, err := c.CreateWeapon(context.Background(), weapon)
			if err != nil {
				return 0, err
			}
			return w.ID, nil
		}, http.MethodPost, "/api/v1/admin/weapons", "Urumi"},
		{"update weapon", func(c *Client) (int, error) {
			w, err := c.UpdateWeapon(context.Background(), 5, weapon)
			if err != nil {
				return 0, err
			}
			return w.ID, nil
		}, http.MethodPut, "/api/v1/admin/weapons/5", "Urumi"},
		{"create fossil", func(c *Client) (int, error) {
			f, err := c.CreateFossil(context.Background(), fossil)
			if err != nil {
				return 0, err
			}
			return f.ID, nil
		}, http.MethodPost, "/api/v1/admin/fossils", "Ammonite"},
		{"update fossil", func(c *Client) (int, error) {
			f, err := c.UpdateFossil(context.Background(), 6, fossil)
			if err != nil {
				return 0, err
			}
			return f.ID, nil
		}, http.MethodPut, "/api/v1/admin/fossils/6", "Ammonite"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotMethod, gotPath string
			var body map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
				body["id"] = 42
				json.NewEncoder(w).Encode(body) //nolint:errcheck
			}))
			defer srv.Close()

			id, err := tc.call(New(srv.URL, "tok"))
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if gotMethod != tc.wantMethod || gotPath != tc.wantPath {
				t.Errorf("request = %s %s, want %s %s", gotMethod, gotPath, tc.wantMethod, tc.wantPath)
			}
			if body["name"] != tc.wantName {
				t.Errorf("body name = %v, want %q", body["name"], tc.wantName)
			}
			if id != 42 {
				t.Errorf("decoded id = %d, want 42", id)
			}
		})
	}
}

func TestMyScores(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id":1,"user_id":7,"score":80,"game_mode":"fossils-hard","achieved_at":"2024-01-01T00:00:00"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	scores, err := New(srv.URL, "tok").MyScores(context.Background())
	if err != nil {
		t.Fatalf("MyScores() error: %v", err)
	}
	if gotPath != "/api/v1/gamification/my-scores" {
		t.Errorf("path = %q", gotPath)
	}
	if len(scores) != 1 || scores[0].GameMode != "fossils-hard" {
		t.Errorf("scores = %+v", scores)
	}
}
