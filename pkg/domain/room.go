package domain

// Room is one of the visitable areas of the museum.
type Room struct {
	ID       string
	Name     string
	Kind     Kind // empty for rooms without exhibits
	HexColor string
}

// RoomGame is the quiz room; it has no exhibits.
const RoomGame = "game"

// The four rooms accepted by visit tracking.
var Rooms = map[string]Room{
	"temples": {ID: "temples", Name: "Temples", Kind: KindTemple, HexColor: "#E67E22"},
	"weapons": {ID: "weapons", Name: "Weapons", Kind: KindWeapon, HexColor: "#C0392B"},
	"fossils": {ID: "fossils", Name: "Fossils", Kind: KindFossil, HexColor: "#1ABC9C"},
	RoomGame:  {ID: RoomGame, Name: "Game Room", HexColor: "#9B59B6"},
}

// RoomOrder is the display order of Rooms.
var RoomOrder = []string{"temples", "weapons", "fossils", RoomGame}

// ValidRoom returns true if the given ID is a known room.
func ValidRoom(id string) bool {
	_, ok := Rooms[id]
	return ok
}
