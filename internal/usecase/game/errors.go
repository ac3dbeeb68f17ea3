package game

import (
	"github.com/pkg/errors"

	"carcassonne/internal/domain"
)

// Rejection sentinels. Every guard violation wraps one of these and
// leaves the stored game snapshot untouched.
var (
	ErrGameNotFound         = domain.ErrGameNotFound
	ErrGameAlreadyStarted   = errors.New("game already started")
	ErrGameAlreadyFinished  = errors.New("game already finished")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrAlreadyPlaced        = errors.New("tile already placed this turn")
	ErrCellNotPlaceable     = errors.New("cell is not placeable")
	ErrEdgeMismatch         = errors.New("edge types do not match")
	ErrNoAdjacentTile       = errors.New("no adjacent tile")
	ErrMarkerAlreadyPresent = errors.New("marker already present on tile")
	ErrMarkerPoolExhausted  = errors.New("no markers left in pool")
	ErrSegmentNotFound      = errors.New("segment not found on tile")
	ErrTileNotYetPlaced     = errors.New("tile not yet placed this turn")
	ErrPlayerCount          = errors.New("player count out of range")
	ErrTooManyForColorPool  = errors.New("too many players for color pool")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrUnknownArchetype     = errors.New("unknown tile archetype")
)

// Reason maps a rejection to the machine-readable string handed to the
// calling layer. Unknown errors map to "Internal".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "Internal"
}

var reasons = []struct {
	err    error
	reason string
}{
	{ErrGameNotFound, "GameNotFound"},
	{ErrGameAlreadyStarted, "GameAlreadyStarted"},
	{ErrGameAlreadyFinished, "GameAlreadyFinished"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrAlreadyPlaced, "AlreadyPlacedThisTurn"},
	{ErrCellNotPlaceable, "CellNotPlaceable"},
	{ErrEdgeMismatch, "EdgeMismatch"},
	{ErrNoAdjacentTile, "NoAdjacentTile"},
	{ErrMarkerAlreadyPresent, "MarkerAlreadyPresent"},
	{ErrMarkerPoolExhausted, "MarkerPoolExhausted"},
	{ErrSegmentNotFound, "SegmentNotFound"},
	{ErrTileNotYetPlaced, "TileNotYetPlacedThisTurn"},
	{ErrPlayerCount, "PlayerCountOutOfRange"},
	{ErrTooManyForColorPool, "TooManyPlayersForColorPool"},
	{ErrPlayerNotFound, "PlayerNotFound"},
	{ErrUnknownArchetype, "UnknownArchetype"},
}
