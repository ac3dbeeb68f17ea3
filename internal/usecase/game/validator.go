package game

import (
	"github.com/pkg/errors"

	"carcassonne/internal/domain"
)

// validatePlacement decides whether the candidate tile may occupy the
// given frontier cell. The rule is strict edge-type equality against
// every placed neighbor (the seed tile constrains like any other), and
// the cell must touch at least one placed tile.
func validatePlacement(board domain.Board, catalog domain.Catalog, candidate domain.PlacedTile, coord domain.Coordinate) error {
	switch board.At(coord).State {
	case domain.CellOccupied:
		return errors.WithMessagef(ErrCellNotPlaceable, "coordinate %s is already occupied", coord)
	case domain.CellEmpty:
		return errors.WithMessagef(ErrCellNotPlaceable, "coordinate %s was never adjacent to the board", coord)
	}
	archetype, ok := catalog[candidate.Archetype]
	if !ok {
		return errors.WithMessagef(ErrUnknownArchetype, "archetype '%s'", candidate.Archetype)
	}
	edges := archetype.EffectiveEdges(candidate.Rotation)
	hasNeighbor := false
	for side, neighborCoord := range coord.Neighbors() {
		neighbor, ok := board.TileAt(neighborCoord)
		if !ok {
			continue // open boundary, unconstrained
		}
		hasNeighbor = true
		neighborArchetype, ok := catalog[neighbor.Archetype]
		if !ok {
			return errors.WithMessagef(ErrUnknownArchetype, "archetype '%s' at %s", neighbor.Archetype, neighborCoord)
		}
		neighborEdges := neighborArchetype.EffectiveEdges(neighbor.Rotation)
		if edges[side] != neighborEdges[domain.Directions[side].Opposite] {
			return errors.WithMessagef(ErrEdgeMismatch, "tile at %s", neighborCoord)
		}
	}
	if !hasNeighbor {
		return errors.WithMessagef(ErrNoAdjacentTile, "coordinate %s", coord)
	}
	return nil
}
