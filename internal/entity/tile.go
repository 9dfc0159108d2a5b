package entity

type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
)

// Tile is one face of a card laid out as its own clickable unit on the board.
type Tile struct {
	ID     string `json:"id"`
	PairID string `json:"pairId"`
	Face   Face   `json:"face"`
	Text   string `json:"text"`
}

// BuildTiles lays out a front and a back tile for every card, in card order.
func BuildTiles(cards []Card) []Tile {
	tiles := make([]Tile, 0, len(cards)*2)

	for _, card := range cards {
		tiles = append(tiles,
			Tile{ID: "front-" + card.ID, PairID: card.ID, Face: FaceFront, Text: card.Front},
			Tile{ID: "back-" + card.ID, PairID: card.ID, Face: FaceBack, Text: card.Back},
		)
	}

	return tiles
}

// IsMatch reports whether two tiles are the two faces of the same card.
// Two tiles of one pair with the same face never match.
func IsMatch(first, second Tile) bool {
	return first.PairID == second.PairID && first.Face != second.Face
}
