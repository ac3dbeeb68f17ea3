package memstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"carcassonne/internal/domain"
	"carcassonne/pkg/utils"
)

var ErrGameExists = errors.New("game already exists")

// repository keeps every game as a marshaled snapshot keyed by game
// id. Loads hand out fresh copies, so callers can never mutate stored
// state without going through Save, and a rejected Update leaves the
// stored bytes untouched. Each game has its own mutex; operations on
// distinct games run fully in parallel.
type repository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	locks     map[string]*sync.Mutex
	saves     *atomic.Int64
	logger    *zap.Logger
}

func New(logger *zap.Logger) *repository {
	return &repository{
		snapshots: make(map[string][]byte),
		locks:     make(map[string]*sync.Mutex),
		saves:     atomic.NewInt64(0),
		logger:    logger,
	}
}

func (r *repository) Create(_ context.Context, game *domain.Game) error {
	data, err := utils.MarshalJson(game)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[game.ID]; ok {
		return errors.WithMessagef(ErrGameExists, "game id '%s'", game.ID)
	}
	r.snapshots[game.ID] = data
	r.locks[game.ID] = &sync.Mutex{}
	return nil
}

func (r *repository) Load(_ context.Context, id string) (*domain.Game, error) {
	r.mu.RLock()
	data, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.WithMessagef(domain.ErrGameNotFound, "game id '%s'", id)
	}
	game, err := utils.UnmarshalJson[domain.Game](data)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repository) Save(_ context.Context, id string, game *domain.Game) error {
	data, err := utils.MarshalJson(game)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[id]; !ok {
		return errors.WithMessagef(domain.ErrGameNotFound, "game id '%s'", id)
	}
	r.snapshots[id] = data
	r.saves.Inc()
	return nil
}

func (r *repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, id)
	delete(r.locks, id)
	r.logger.Info("game discarded", zap.String("game id", id))
	return nil
}

// Update applies one state-machine operation under the game's lock:
// load the snapshot, run the mutation, persist only on success.
func (r *repository) Update(ctx context.Context, id string, fn func(*domain.Game) error) (*domain.Game, error) {
	lock, err := r.gameLock(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()
	game, err := r.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(game); err != nil {
		return nil, err
	}
	if err := r.Save(ctx, id, game); err != nil {
		return nil, errors.WithMessage(err, "save snapshot")
	}
	return game, nil
}

// Saves reports how many snapshots have been committed.
func (r *repository) Saves() int64 {
	return r.saves.Load()
}

func (r *repository) gameLock(id string) (*sync.Mutex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lock, ok := r.locks[id]
	if !ok {
		return nil, errors.WithMessagef(domain.ErrGameNotFound, "game id '%s'", id)
	}
	return lock, nil
}
