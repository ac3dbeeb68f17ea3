package domain

import (
	"context"

	"github.com/pkg/errors"
)

var ErrGameNotFound = errors.New("game not found")

type GameStatus string

const (
	StatusWaiting  = GameStatus("waiting")
	StatusActive   = GameStatus("active")
	StatusFinished = GameStatus("finished")
)

type Player struct {
	ID      string `json:"playerId"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Meeples int    `json:"meeples"`
}

type Game struct {
	ID              string         `json:"gameId"`
	Players         []Player       `json:"players"`
	Board           Board          `json:"board"`
	Status          GameStatus     `json:"status"`
	CurrentTurn     string         `json:"currentTurn,omitempty"`
	PendingTile     ArchetypeID    `json:"pendingTile,omitempty"`
	PendingRotation Rotation       `json:"pendingRotation"`
	TilePlaced      bool           `json:"tilePlaced"`
	RemainingTiles  int            `json:"remainingTiles"`
	Scores          map[string]int `json:"scores,omitempty"`
}

func (g *Game) Player(id string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

func (g *Game) PlayerIndex(id string) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// NextPlayer returns the id of the player following the given one in
// join order, wrapping around.
func (g *Game) NextPlayer(id string) string {
	idx := g.PlayerIndex(id)
	if idx < 0 || len(g.Players) == 0 {
		return ""
	}
	return g.Players[(idx+1)%len(g.Players)].ID
}

// ClearResolved drops the per-turn marker-eligibility flag from every tile.
func (g *Game) ClearResolved() {
	for c, cell := range g.Board {
		if cell.State == CellOccupied && cell.Tile.Resolved {
			tile := *cell.Tile
			tile.Resolved = false
			g.Board[c] = Cell{State: CellOccupied, Tile: &tile}
		}
	}
}

// GameRepository stores game snapshots keyed by game id. Update owns
// the per-game mutual exclusion: the callback runs with that game's
// lock held, and the mutated snapshot is persisted only when the
// callback returns nil, so a rejected operation leaves the stored
// snapshot byte-for-byte unchanged.
type GameRepository interface {
	Create(ctx context.Context, game *Game) error
	Load(ctx context.Context, id string) (*Game, error)
	Save(ctx context.Context, id string, game *Game) error
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(*Game) error) (*Game, error)
}
