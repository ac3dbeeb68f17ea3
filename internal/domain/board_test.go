package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carcassonne/pkg/utils"
)

func TestRegisterPlacementOpensFrontier(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.RegisterPlacement(Coord(0, 0), PlacedTile{Archetype: "A", Owner: SystemOwner}))

	tile, ok := board.TileAt(Coord(0, 0))
	require.True(t, ok)
	assert.Equal(t, SystemOwner, tile.Owner)

	for _, neighbor := range Coord(0, 0).Neighbors() {
		assert.True(t, board.IsPlaceable(neighbor), "neighbor %s must be a placeholder", neighbor)
	}
	assert.False(t, board.IsPlaceable(Coord(0, 0)), "occupied cell is not placeable")
	assert.False(t, board.IsPlaceable(Coord(5, 5)), "never-adjacent cell is not placeable")
}

func TestRegisterPlacementKeepsExistingCells(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.RegisterPlacement(Coord(0, 0), PlacedTile{Archetype: "A", Owner: "p1"}))
	require.NoError(t, board.RegisterPlacement(Coord(1, 0), PlacedTile{Archetype: "B", Owner: "p2"}))

	// the first tile must be untouched by the second placement
	first, ok := board.TileAt(Coord(0, 0))
	require.True(t, ok)
	assert.Equal(t, ArchetypeID("A"), first.Archetype)
	assert.Equal(t, "p1", first.Owner)

	err := board.RegisterPlacement(Coord(1, 0), PlacedTile{Archetype: "A", Owner: "p3"})
	require.ErrorIs(t, err, ErrCellTaken)
	second, ok := board.TileAt(Coord(1, 0))
	require.True(t, ok)
	assert.Equal(t, "p2", second.Owner)
}

func TestFrontierInvariant(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.RegisterPlacement(Coord(0, 0), PlacedTile{Archetype: "A"}))
	require.NoError(t, board.RegisterPlacement(Coord(1, 0), PlacedTile{Archetype: "B"}))
	require.NoError(t, board.RegisterPlacement(Coord(1, 1), PlacedTile{Archetype: "A"}))

	for coord, cell := range board {
		if cell.State != CellOccupied {
			continue
		}
		for _, neighbor := range coord.Neighbors() {
			assert.NotEqual(t, CellEmpty, board.At(neighbor).State,
				"cell %s adjacent to tile %s must be present", neighbor, coord)
		}
	}
}

func TestHasPlacedNeighbor(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.RegisterPlacement(Coord(0, 0), PlacedTile{Archetype: "A"}))

	assert.True(t, board.HasPlacedNeighbor(Coord(1, 0)))
	assert.False(t, board.HasPlacedNeighbor(Coord(2, 0)))
}

func TestCoordinateTextRoundTrip(t *testing.T) {
	for _, coord := range []Coordinate{Coord(0, 0), Coord(-3, 7), Coord(12, -5)} {
		text, err := coord.MarshalText()
		require.NoError(t, err)
		var parsed Coordinate
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, coord, parsed)
	}
}

func TestBoardSurvivesSnapshotRoundTrip(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.RegisterPlacement(Coord(0, 0), PlacedTile{Archetype: "A", Owner: SystemOwner}))
	require.NoError(t, board.RegisterPlacement(Coord(0, -1), PlacedTile{
		Archetype: "B",
		Rotation:  90,
		Owner:     "p1",
		Marker:    &Marker{Owner: "p1", Segment: "roadArea", Type: Road},
	}))

	copied, err := utils.Clone(board)
	require.NoError(t, err)
	assert.Equal(t, board, copied)
}
