package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

func exhibits(kind domain.Kind, n int) []domain.Exhibit {
	out := make([]domain.Exhibit, n)
	for i := range out {
		out[i] = domain.Exhibit{Kind: kind, ID: i + 1, Name: fmt.Sprintf("exhibit %d", i+1)}
	}
	return out
}

func loadedGallery(t *testing.T, c *client.Client, kind domain.Kind, n int) galleryModel {
	t.Helper()
	m := newGalleryModel(c, func() string { return "tok" }, nil, nil)
	m.width = 100
	m.height = 30
	m, _ = m.enter(kind)
	m, _ = m.Update(exhibitsLoadedMsg{kind: kind, items: exhibits(kind, n)})
	return m
}

func TestGalleryArrangesTemplesInRings(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindTemple, 23)
	if len(m.placements) != 23 {
		t.Fatalf("placements = %d, want 23", len(m.placements))
	}
	if m.placements[20].Ring != 1 {
		t.Errorf("21st temple should be on the second ring, got %d", m.placements[20].Ring)
	}
	if m.bound != 24 {
		t.Errorf("bound = %v, want 24", m.bound)
	}
}

func TestGalleryShrineToggle(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindTemple, 23)
	m, _ = m.Update(runeKey("s"))
	if !m.shrine {
		t.Fatal("s should switch temples to the shrine layout")
	}
	if m.bound != 16 {
		t.Errorf("shrine bound = %v, want 16", m.bound)
	}
	if !strings.Contains(m.View(), "shrine layout") {
		t.Errorf("view should name the layout:\n%s", m.View())
	}

	w := loadedGallery(t, nil, domain.KindWeapon, 3)
	w, _ = w.Update(runeKey("s"))
	if w.shrine {
		t.Error("shrine layout only applies to temples")
	}
}

func TestGalleryWeaponsSingleRing(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindWeapon, 12)
	for _, p := range m.placements {
		if p.Ring != 0 || p.Position.Y != 7 {
			t.Errorf("unexpected placement %+v", p)
		}
	}
	if m.bound != 25 {
		t.Errorf("bound = %v, want 25", m.bound)
	}
}

func TestGalleryIgnoresOtherRoomResults(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindFossil, 2)
	m, _ = m.Update(exhibitsLoadedMsg{kind: domain.KindTemple, items: exhibits(domain.KindTemple, 9)})
	if len(m.exhibits) != 2 {
		t.Errorf("exhibits = %d, want 2", len(m.exhibits))
	}
}

func TestGalleryEscClosesDetailThenRoom(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindFossil, 2)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detail {
		t.Fatal("enter should open detail")
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail || cmd != nil {
		t.Fatal("first esc should only close detail")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("second esc should leave the room")
	}
	if _, ok := cmd().(closeRoomMsg); !ok {
		t.Error("expected closeRoomMsg")
	}
}

func TestGalleryDeleteNeedsAdminAndConfirmation(t *testing.T) {
	c := client.New("http://127.0.0.1:1", "")

	m := loadedGallery(t, c, domain.KindWeapon, 2)
	m, cmd := m.Update(runeKey("x"))
	if cmd != nil || m.confirmDel {
		t.Fatal("visitors cannot delete")
	}

	m.admin = true
	m, cmd = m.Update(runeKey("x"))
	if cmd != nil || !m.confirmDel {
		t.Fatal("first x should ask for confirmation")
	}
	if !strings.Contains(m.status, "press x again") {
		t.Errorf("status = %q", m.status)
	}
	m, cmd = m.Update(runeKey("x"))
	if cmd == nil {
		t.Fatal("second x should delete")
	}

	m.confirmDel = true
	m, _ = m.Update(runeKey("j"))
	if m.confirmDel {
		t.Error("any other key should cancel the confirmation")
	}
}

func TestGalleryDeletedReloads(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindWeapon, 2)
	m, _ = m.Update(exhibitDeletedMsg{name: "exhibit 1"})
	if !m.loading || m.status != "exhibit 1 deleted" {
		t.Errorf("loading = %v status = %q", m.loading, m.status)
	}
}

func TestGalleryCopyWithoutMedia(t *testing.T) {
	c := client.New("http://127.0.0.1:1", "")
	m := loadedGallery(t, c, domain.KindWeapon, 1)
	_, cmd := m.Update(runeKey("c"))
	if cmd == nil {
		t.Fatal("expected a result command")
	}
	msg := cmd().(copyResultMsg)
	if msg.err == nil || !strings.Contains(msg.err.Error(), "no image") {
		t.Errorf("err = %v", msg.err)
	}
}

func TestGalleryOpenWithoutModel(t *testing.T) {
	m := loadedGallery(t, nil, domain.KindFossil, 1)
	m, cmd := m.Update(runeKey("o"))
	if cmd != nil {
		t.Error("nothing to open")
	}
	if m.status != "no 3D model for this exhibit" {
		t.Errorf("status = %q", m.status)
	}
}

func TestGalleryViewStates(t *testing.T) {
	m := newGalleryModel(nil, nil, nil, nil)
	m.width, m.height = 100, 30
	m, _ = m.enter(domain.KindFossil)
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("expected loading:\n%s", m.View())
	}
	m, _ = m.Update(exhibitsLoadedMsg{kind: domain.KindFossil})
	if !strings.Contains(m.View(), "empty") {
		t.Errorf("expected empty room:\n%s", m.View())
	}
	m, _ = m.Update(exhibitsLoadedMsg{kind: domain.KindFossil, items: exhibits(domain.KindFossil, 3)})
	view := m.View()
	if !strings.Contains(view, "exhibit 1") || !strings.Contains(view, string(glyphSelected)) {
		t.Errorf("expected list and ring map:\n%s", view)
	}
}
