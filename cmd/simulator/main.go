package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"carcassonne/internal/adapters/memstore"
	"carcassonne/internal/config"
	"carcassonne/internal/domain"
	"carcassonne/internal/usecase/game"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	var (
		cfgPath     = flag.String("config", "./config.yml", "path to config")
		gameCount   = flag.Int("games", 10, "number of games to simulate")
		playerCount = flag.Int("players", 2, "players per game")
		seed        = flag.Uint64("seed", 1, "rng seed")
	)
	flag.Parse()
	cfg, err := config.New(*cfgPath)
	if err != nil {
		logger.Fatal(err.Error())
	}
	var (
		catalog = cfg.Catalog()
		repo    = memstore.New(logger)
		engine  = game.New(repo, catalog, cfg.Colors, game.Limits{
			MinPlayers:     cfg.MinPlayers,
			MaxPlayers:     cfg.MaxPlayers,
			DeckSize:       cfg.DeckSize,
			MeeplesPerUser: cfg.MeeplesPerPlayer,
		}, *seed, logger)
		finished  = atomic.NewInt64(0)
		abandoned = atomic.NewInt64(0)
		turns     = atomic.NewInt64(0)
	)
	errGroup := new(errgroup.Group)
	for i := 0; i < *gameCount; i++ {
		rng := rand.New(rand.NewSource(*seed + uint64(i)))
		errGroup.Go(func() error {
			sim := simulation{
				engine:  engine,
				catalog: catalog,
				rng:     rng,
				players: *playerCount,
			}
			playedTurns, err := sim.run(context.Background())
			turns.Add(int64(playedTurns))
			if err != nil {
				if errors.Is(err, errNoLegalPlacement) {
					abandoned.Inc()
					return nil
				}
				return err
			}
			finished.Inc()
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		logger.Fatal(err.Error())
	}
	logger.Info("simulation done",
		zap.Int64("finished games", finished.Load()),
		zap.Int64("abandoned games", abandoned.Load()),
		zap.Int64("turns played", turns.Load()),
		zap.Int64("snapshots saved", repo.Saves()))
}

var errNoLegalPlacement = errors.New("no legal placement for pending tile")

type engineAPI interface {
	Create(ctx context.Context) (*domain.Game, error)
	Join(ctx context.Context, gameID, playerName string) (*domain.Game, string, error)
	Start(ctx context.Context, gameID string) (*domain.Game, error)
	PlaceTile(ctx context.Context, gameID, playerID string, coord domain.Coordinate) (*domain.Game, error)
	RotatePending(ctx context.Context, gameID, playerID string) (*domain.Game, error)
	PlaceMarker(ctx context.Context, gameID, playerID string, coord domain.Coordinate, segmentName string) (*domain.Game, error)
	EndTurn(ctx context.Context, gameID, playerID string) (*domain.Game, error)
}

type simulation struct {
	engine  engineAPI
	catalog domain.Catalog
	rng     *rand.Rand
	players int
}

// run plays a single game to completion with random legal moves.
func (s simulation) run(ctx context.Context) (int, error) {
	created, err := s.engine.Create(ctx)
	if err != nil {
		return 0, err
	}
	gameID := created.ID
	for i := 0; i < s.players; i++ {
		if _, _, err := s.engine.Join(ctx, gameID, fmt.Sprintf("bot-%d", i+1)); err != nil {
			return 0, errors.WithMessage(err, "join")
		}
	}
	snapshot, err := s.engine.Start(ctx, gameID)
	if err != nil {
		return 0, errors.WithMessage(err, "start")
	}
	playedTurns := 0
	for snapshot.Status == domain.StatusActive {
		current := snapshot.CurrentTurn
		pending := snapshot.PendingTile
		coord, err := s.placeSomewhere(ctx, gameID, current, snapshot)
		if err != nil {
			return playedTurns, err
		}
		if s.rng.Intn(3) == 0 {
			s.claimSegment(ctx, gameID, current, coord, pending)
		}
		snapshot, err = s.engine.EndTurn(ctx, gameID, current)
		if err != nil {
			return playedTurns, errors.WithMessage(err, "end turn")
		}
		playedTurns++
	}
	return playedTurns, nil
}

// placeSomewhere tries every frontier cell at every rotation until the
// validator accepts one.
func (s simulation) placeSomewhere(ctx context.Context, gameID, playerID string,
	snapshot *domain.Game) (domain.Coordinate, error) {
	frontier := make([]domain.Coordinate, 0, len(snapshot.Board))
	for coord, cell := range snapshot.Board {
		if cell.State == domain.CellPlaceholder {
			frontier = append(frontier, coord)
		}
	}
	sort.Slice(frontier, func(i, j int) bool {
		if frontier[i].Y != frontier[j].Y {
			return frontier[i].Y < frontier[j].Y
		}
		return frontier[i].X < frontier[j].X
	})
	s.rng.Shuffle(len(frontier), func(i, j int) {
		frontier[i], frontier[j] = frontier[j], frontier[i]
	})
	for _, coord := range frontier {
		for rotations := 0; rotations < 4; rotations++ {
			if _, err := s.engine.PlaceTile(ctx, gameID, playerID, coord); err == nil {
				return coord, nil
			}
			if _, err := s.engine.RotatePending(ctx, gameID, playerID); err != nil {
				return domain.Coordinate{}, errors.WithMessage(err, "rotate pending")
			}
		}
	}
	return domain.Coordinate{}, errNoLegalPlacement
}

// claimSegment puts a marker on a random segment of the placed tile;
// rejections (exhausted pool and the like) are fine to ignore here.
func (s simulation) claimSegment(ctx context.Context, gameID, playerID string,
	coord domain.Coordinate, archetypeID domain.ArchetypeID) {
	archetype, ok := s.catalog[archetypeID]
	if !ok || len(archetype.Segments) == 0 {
		return
	}
	segment := archetype.Segments[s.rng.Intn(len(archetype.Segments))]
	_, _ = s.engine.PlaceMarker(ctx, gameID, playerID, coord, segment.Name)
}
