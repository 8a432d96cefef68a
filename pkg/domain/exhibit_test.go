package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"temples", KindTemple, true},
		{"Temple", KindTemple, true},
		{" weapons ", KindWeapon, true},
		{"FOSSIL", KindFossil, true},
		{"game", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTempleExhibit(t *testing.T) {
	e := TempleExhibit(Temple{
		ID:                     7,
		Name:                   "Brihadeeswarar",
		Dynasty:                "Chola",
		Builder:                "Rajaraja I",
		HistoricalSignificance: "Granite vimana",
		StaticImageURL:         "temples/brihad.jpg",
		AudioStoryURL:          "temples/brihad.mp3",
	})
	if e.Kind != KindTemple {
		t.Errorf("Kind = %q, want %q", e.Kind, KindTemple)
	}
	if e.Subtitle != "Chola" {
		t.Errorf("Subtitle = %q, want %q", e.Subtitle, "Chola")
	}
	if e.HasModel() {
		t.Error("HasModel() = true, want false for empty model ref")
	}
	// Empty period and weapon are dropped.
	if len(e.Facts) != 2 {
		t.Errorf("len(Facts) = %d, want 2", len(e.Facts))
	}
}

func TestWeaponExhibit(t *testing.T) {
	e := WeaponExhibit(Weapon{
		ID:             3,
		Name:           "Urumi",
		Type:           "Flexible sword",
		DynastyContext: []string{"Chera", "Pandya"},
		Model3DEmbed:   "abc123",
	})
	if e.Subtitle != "Flexible sword" {
		t.Errorf("Subtitle = %q, want %q", e.Subtitle, "Flexible sword")
	}
	if !e.HasModel() {
		t.Error("HasModel() = false, want true")
	}
	if e.Facts[1].Value != "Chera, Pandya" {
		t.Errorf("Dynasties = %q, want %q", e.Facts[1].Value, "Chera, Pandya")
	}
}

func TestFossilExhibit(t *testing.T) {
	e := FossilExhibit(Fossil{ID: 1, Name: "Ammonite", Era: "Jurassic", AgeInYears: "150 million"})
	if e.Kind != KindFossil || e.Subtitle != "Jurassic" {
		t.Errorf("got (%q, %q), want (%q, %q)", e.Kind, e.Subtitle, KindFossil, "Jurassic")
	}
}

func TestTimestamp_NaiveLayout(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"email":"a@b.c","created_at":"2024-03-01T10:20:30.123456"}`), &u); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)
	if !u.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, want)
	}
}

func TestTimestamp_RFC3339AndNull(t *testing.T) {
	var s struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2024-03-01T10:20:30Z","b":null}`), &s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if s.A.Year() != 2024 {
		t.Errorf("A.Year() = %d, want 2024", s.A.Year())
	}
	if !s.B.IsZero() {
		t.Errorf("B = %v, want zero", s.B)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unrecognized layout")
	}
}

func TestExhibit_ModelURL(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"abc123":                  "https://sketchfab.com/models/abc123",
		"https://example.com/m/1": "https://example.com/m/1",
	}
	for ref, want := range tests {
		if got := (Exhibit{ModelRef: ref}).ModelURL(); got != want {
			t.Errorf("ModelURL(%q) = %q, want %q", ref, got, want)
		}
	}
}
