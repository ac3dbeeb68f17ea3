package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

type Coordinate struct {
	X int
	Y int
}

func Coord(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// MarshalText lets coordinates key JSON maps the way the original
// board keys did ("x,y").
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinate) UnmarshalText(data []byte) error {
	var x, y int
	if _, err := fmt.Sscanf(string(data), "%d,%d", &x, &y); err != nil {
		return errors.WithMessagef(err, "parse coordinate '%s'", data)
	}
	c.X, c.Y = x, y
	return nil
}

// direction deltas in canonical edge order; Opposite is the index of
// the neighbor's facing edge. Y grows southward.
type direction struct {
	DX       int
	DY       int
	Opposite int
}

var Directions = [4]direction{
	North: {DX: 0, DY: -1, Opposite: South},
	East:  {DX: 1, DY: 0, Opposite: West},
	South: {DX: 0, DY: 1, Opposite: North},
	West:  {DX: -1, DY: 0, Opposite: East},
}

func (c Coordinate) Neighbor(side int) Coordinate {
	d := Directions[side]
	return Coordinate{X: c.X + d.DX, Y: c.Y + d.DY}
}

func (c Coordinate) Neighbors() [4]Coordinate {
	var out [4]Coordinate
	for side := range Directions {
		out[side] = c.Neighbor(side)
	}
	return out
}

type CellState byte

const (
	CellEmpty = CellState(iota)
	CellPlaceholder
	CellOccupied
)

// Cell is the explicit variant behind every board coordinate: absent
// from the map means never considered, a placeholder is a frontier
// cell open for placement, occupied holds a tile.
type Cell struct {
	State CellState   `json:"state"`
	Tile  *PlacedTile `json:"tile,omitempty"`
}

type Board map[Coordinate]Cell

func NewBoard() Board {
	return make(Board)
}

func (b Board) At(c Coordinate) Cell {
	return b[c]
}

func (b Board) IsPlaceable(c Coordinate) bool {
	return b[c].State == CellPlaceholder
}

func (b Board) TileAt(c Coordinate) (*PlacedTile, bool) {
	cell := b[c]
	if cell.State != CellOccupied {
		return nil, false
	}
	return cell.Tile, true
}

// HasPlacedNeighbor reports whether any orthogonal neighbor holds a tile.
func (b Board) HasPlacedNeighbor(c Coordinate) bool {
	for _, n := range c.Neighbors() {
		if _, ok := b.TileAt(n); ok {
			return true
		}
	}
	return false
}

var ErrCellTaken = errors.New("cell already holds a tile")

// RegisterPlacement stores the tile and opens the surrounding frontier:
// every neighbor not yet known to the board becomes a placeholder.
// It never overwrites an occupied cell.
func (b Board) RegisterPlacement(c Coordinate, tile PlacedTile) error {
	if b[c].State == CellOccupied {
		return errors.WithMessagef(ErrCellTaken, "coordinate %s", c)
	}
	b[c] = Cell{State: CellOccupied, Tile: &tile}
	for _, n := range c.Neighbors() {
		if b[n].State == CellEmpty {
			b[n] = Cell{State: CellPlaceholder}
		}
	}
	return nil
}
