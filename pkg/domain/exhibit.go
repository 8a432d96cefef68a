package domain

import "strings"

// Kind identifies the collection an exhibit belongs to. The value doubles as
// the category segment of content and media URLs.
type Kind string

const (
	KindTemple Kind = "temples"
	KindWeapon Kind = "weapons"
	KindFossil Kind = "fossils"
)

// Kinds lists every exhibit kind in room order.
var Kinds = []Kind{KindTemple, KindWeapon, KindFossil}

// ParseKind maps a category name (singular or plural, any case) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "temples", "temple":
		return KindTemple, true
	case "weapons", "weapon":
		return KindWeapon, true
	case "fossils", "fossil":
		return KindFossil, true
	}
	return "", false
}

// Fact is one labelled line of exhibit detail.
type Fact struct {
	Label string
	Value string
}

// Exhibit is the kind-independent projection of a temple, weapon or fossil.
// Built once at ingestion so nothing downstream inspects optional fields.
type Exhibit struct {
	Kind     Kind
	ID       int
	Name     string
	Subtitle string
	Summary  string
	ImageRef string
	AudioRef string
	ModelRef string // empty when no 3D model is published
	Facts    []Fact
}

// HasModel reports whether the exhibit has a 3D model to open.
func (e Exhibit) HasModel() bool {
	return e.ModelRef != ""
}

// ModelURL returns the Sketchfab page for the exhibit's model. ModelRef is
// normally a bare model ID; a full URL is returned unchanged.
func (e Exhibit) ModelURL() string {
	switch {
	case e.ModelRef == "":
		return ""
	case strings.HasPrefix(e.ModelRef, "http://"), strings.HasPrefix(e.ModelRef, "https://"):
		return e.ModelRef
	}
	return "https://sketchfab.com/models/" + e.ModelRef
}

// TempleExhibit projects a temple.
func TempleExhibit(t Temple) Exhibit {
	return Exhibit{
		Kind:     KindTemple,
		ID:       t.ID,
		Name:     t.Name,
		Subtitle: t.Dynasty,
		Summary:  t.HistoricalSignificance,
		ImageRef: t.StaticImageURL,
		AudioRef: t.AudioStoryURL,
		ModelRef: t.Model3DEmbed,
		Facts: compactFacts(
			Fact{"Dynasty", t.Dynasty},
			Fact{"Builder", t.Builder},
			Fact{"Period", t.TimePeriod},
			Fact{"Weapon", t.WeaponUsed},
		),
	}
}

// WeaponExhibit projects a weapon.
func WeaponExhibit(w Weapon) Exhibit {
	return Exhibit{
		Kind:     KindWeapon,
		ID:       w.ID,
		Name:     w.Name,
		Subtitle: w.Type,
		Summary:  w.Description,
		ImageRef: w.ImageURL,
		AudioRef: w.AudioStoryURL,
		ModelRef: w.Model3DEmbed,
		Facts: compactFacts(
			Fact{"Type", w.Type},
			Fact{"Dynasties", strings.Join(w.DynastyContext, ", ")},
		),
	}
}

// FossilExhibit projects a fossil.
func FossilExhibit(f Fossil) Exhibit {
	return Exhibit{
		Kind:     KindFossil,
		ID:       f.ID,
		Name:     f.Name,
		Subtitle: f.Era,
		Summary:  f.Description,
		ImageRef: f.ImageURL,
		AudioRef: f.AudioStoryURL,
		ModelRef: f.Model3DEmbed,
		Facts: compactFacts(
			Fact{"Type", f.FossilType},
			Fact{"Era", f.Era},
			Fact{"Age", f.AgeInYears},
			Fact{"Origin", f.OriginLocation},
		),
	}
}

func compactFacts(facts ...Fact) []Fact {
	out := facts[:0]
	for _, f := range facts {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
