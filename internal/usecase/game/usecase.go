package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"carcassonne/internal/domain"
	"carcassonne/internal/usecase/scoring"
)

type Limits struct {
	MinPlayers     int
	MaxPlayers     int
	DeckSize       int
	MeeplesPerUser int
}

type useCase struct {
	repo    domain.GameRepository
	catalog domain.Catalog
	colors  []string
	limits  Limits
	rng     *lockedRand
	logger  *zap.Logger
}

func New(repo domain.GameRepository, catalog domain.Catalog, colors []string, limits Limits, seed uint64,
	logger *zap.Logger) *useCase {
	return &useCase{
		repo:    repo,
		catalog: catalog,
		colors:  colors,
		limits:  limits,
		rng:     newLockedRand(seed),
		logger:  logger,
	}
}

// Create registers an empty game waiting for players.
func (u *useCase) Create(ctx context.Context) (*domain.Game, error) {
	game := &domain.Game{
		ID:      uuid.NewString(),
		Players: []domain.Player{},
		Board:   domain.NewBoard(),
		Status:  domain.StatusWaiting,
	}
	if err := u.repo.Create(ctx, game); err != nil {
		return nil, errors.WithMessage(err, "create game")
	}
	u.logger.Info("game created", zap.String("game id", game.ID))
	return game, nil
}

func (u *useCase) State(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := u.repo.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// Join appends a new player with a full marker pool. Legal only while
// the game is waiting for players.
func (u *useCase) Join(ctx context.Context, gameID string, playerName string) (*domain.Game, string, error) {
	playerID := uuid.NewString()
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		switch g.Status {
		case domain.StatusActive:
			return ErrGameAlreadyStarted
		case domain.StatusFinished:
			return ErrGameAlreadyFinished
		}
		g.Players = append(g.Players, domain.Player{
			ID:      playerID,
			Name:    playerName,
			Meeples: u.limits.MeeplesPerUser,
		})
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	u.logger.Info("player joined",
		zap.String("game id", gameID),
		zap.String("player", playerName),
		zap.Int("player count", len(game.Players)))
	return game, playerID, nil
}

// Start assigns shuffled colors, places the system-owned seed tile at
// the origin, draws the first pending tile and hands the turn to the
// first joined player.
func (u *useCase) Start(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		switch g.Status {
		case domain.StatusActive:
			return ErrGameAlreadyStarted
		case domain.StatusFinished:
			return ErrGameAlreadyFinished
		}
		if len(g.Players) < u.limits.MinPlayers || len(g.Players) > u.limits.MaxPlayers {
			return errors.WithMessagef(ErrPlayerCount, "got %d, want %d..%d",
				len(g.Players), u.limits.MinPlayers, u.limits.MaxPlayers)
		}
		if len(g.Players) > len(u.colors) {
			return errors.WithMessagef(ErrTooManyForColorPool, "%d players, %d colors",
				len(g.Players), len(u.colors))
		}
		shuffled := u.rng.shuffledColors(u.colors)
		for i := range g.Players {
			g.Players[i].Color = shuffled[i]
		}
		seed := domain.PlacedTile{
			Archetype: u.rng.drawArchetype(u.catalog),
			Rotation:  0,
			Owner:     domain.SystemOwner,
		}
		if err := g.Board.RegisterPlacement(domain.Coord(0, 0), seed); err != nil {
			return errors.WithMessage(err, "place seed tile")
		}
		g.PendingTile = u.rng.drawArchetype(u.catalog)
		g.PendingRotation = 0
		g.TilePlaced = false
		g.CurrentTurn = g.Players[0].ID
		g.RemainingTiles = u.limits.DeckSize
		g.Status = domain.StatusActive
		g.Scores = make(map[string]int, len(g.Players))
		for _, p := range g.Players {
			g.Scores[p.ID] = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("game started",
		zap.String("game id", gameID),
		zap.Int("players", len(game.Players)),
		zap.Int("deck size", game.RemainingTiles))
	return game, nil
}

// PlaceTile validates the pending tile at its current rotation against
// the target cell and commits it. The new tile becomes the only one
// eligible for marker placement this turn.
func (u *useCase) PlaceTile(ctx context.Context, gameID, playerID string, coord domain.Coordinate) (*domain.Game, error) {
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		if err := u.guardTurn(g, playerID); err != nil {
			return err
		}
		if g.TilePlaced {
			return ErrAlreadyPlaced
		}
		tile := domain.PlacedTile{
			Archetype: g.PendingTile,
			Rotation:  g.PendingRotation,
			Owner:     playerID,
			Resolved:  true,
		}
		if err := validatePlacement(g.Board, u.catalog, tile, coord); err != nil {
			return err
		}
		if err := g.Board.RegisterPlacement(coord, tile); err != nil {
			return errors.WithMessage(err, "register placement")
		}
		g.TilePlaced = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("tile placed",
		zap.String("game id", gameID),
		zap.String("player", playerID),
		zap.String("coordinate", coord.String()))
	return game, nil
}

// RotatePending advances the pending tile's rotation by a quarter turn.
func (u *useCase) RotatePending(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	return u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		if err := u.guardTurn(g, playerID); err != nil {
			return err
		}
		if g.TilePlaced {
			return ErrAlreadyPlaced
		}
		g.PendingRotation = g.PendingRotation.Next()
		return nil
	})
}

// PlaceMarker claims a terrain segment of the tile placed this turn.
func (u *useCase) PlaceMarker(ctx context.Context, gameID, playerID string, coord domain.Coordinate,
	segmentName string) (*domain.Game, error) {
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		if err := u.guardTurn(g, playerID); err != nil {
			return err
		}
		tile, ok := g.Board.TileAt(coord)
		if !ok {
			return errors.WithMessagef(ErrTileNotYetPlaced, "no tile at %s", coord)
		}
		if !tile.Resolved || tile.Owner != playerID {
			return errors.WithMessagef(ErrTileNotYetPlaced, "tile at %s is not this turn's placement", coord)
		}
		if tile.Marker != nil {
			return ErrMarkerAlreadyPresent
		}
		player, ok := g.Player(playerID)
		if !ok {
			return ErrPlayerNotFound
		}
		if player.Meeples < 1 {
			return ErrMarkerPoolExhausted
		}
		archetype, ok := u.catalog[tile.Archetype]
		if !ok {
			return errors.WithMessagef(ErrUnknownArchetype, "archetype '%s'", tile.Archetype)
		}
		segment, ok := archetype.Segment(segmentName)
		if !ok {
			return errors.WithMessagef(ErrSegmentNotFound, "segment '%s' on archetype '%s'",
				segmentName, tile.Archetype)
		}
		marked := *tile
		marked.Marker = &domain.Marker{
			Owner:   playerID,
			Segment: segment.Name,
			Type:    segment.Type,
		}
		g.Board[coord] = domain.Cell{State: domain.CellOccupied, Tile: &marked}
		player.Meeples--
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("marker placed",
		zap.String("game id", gameID),
		zap.String("player", playerID),
		zap.String("coordinate", coord.String()),
		zap.String("segment", segmentName))
	return game, nil
}

// EndTurn scores the board, advances the turn and draws the next
// pending tile; an exhausted deck finishes the game.
func (u *useCase) EndTurn(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		if err := u.guardTurn(g, playerID); err != nil {
			return err
		}
		if !g.TilePlaced {
			return ErrTileNotYetPlaced
		}
		g.RemainingTiles--
		g.Scores = scoring.CalculateScores(g, u.catalog)
		if g.RemainingTiles <= 0 {
			g.Status = domain.StatusFinished
			return nil
		}
		g.TilePlaced = false
		g.ClearResolved()
		g.PendingTile = u.rng.drawArchetype(u.catalog)
		g.PendingRotation = 0
		g.CurrentTurn = g.NextPlayer(playerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("turn ended",
		zap.String("game id", gameID),
		zap.String("player", playerID),
		zap.Int("remaining tiles", game.RemainingTiles),
		zap.Any("scores", game.Scores))
	return game, nil
}

// Leave removes a player in any state. The turn moves off the
// departing player; a single remaining player finishes an active game
// and an empty game is discarded.
func (u *useCase) Leave(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	game, err := u.repo.Update(ctx, gameID, func(g *domain.Game) error {
		idx := g.PlayerIndex(playerID)
		if idx < 0 {
			return ErrPlayerNotFound
		}
		if g.CurrentTurn == playerID {
			g.CurrentTurn = g.NextPlayer(playerID)
		}
		g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
		if g.Status == domain.StatusActive && len(g.Players) == 1 {
			g.Status = domain.StatusFinished
			g.Scores = scoring.CalculateScores(g, u.catalog)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("player left",
		zap.String("game id", gameID),
		zap.String("player", playerID),
		zap.Int("players remaining", len(game.Players)))
	if len(game.Players) == 0 {
		if err := u.repo.Delete(ctx, gameID); err != nil {
			return nil, errors.WithMessage(err, "discard empty game")
		}
	}
	return game, nil
}

func (u *useCase) guardTurn(g *domain.Game, playerID string) error {
	switch g.Status {
	case domain.StatusWaiting:
		return errors.WithMessage(ErrNotYourTurn, "game has not started")
	case domain.StatusFinished:
		return ErrGameAlreadyFinished
	}
	if g.CurrentTurn != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// lockedRand serializes draws: operations on distinct games may run in
// parallel but share one source.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) drawArchetype(catalog domain.Catalog) domain.ArchetypeID {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := catalog.IDs()
	return ids[l.rng.Intn(len(ids))]
}

func (l *lockedRand) shuffledColors(colors []string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	shuffled := make([]string, len(colors))
	copy(shuffled, colors)
	l.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
