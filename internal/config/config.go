package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"carcassonne/internal/domain"
)

var (
	ErrEmptyCatalog   = errors.New("tile catalog is empty")
	ErrInvalidTile    = errors.New("invalid tile definition")
	ErrInvalidSetting = errors.New("invalid game setting")
)

type TileConfig struct {
	ID       domain.ArchetypeID `yaml:"id"`
	Edges    []domain.EdgeType  `yaml:"edges"`
	Segments []domain.Segment   `yaml:"segments"`
}

type Config struct {
	Tiles            []TileConfig `yaml:"tiles"`
	Colors           []string     `yaml:"colors"`
	DeckSize         int          `yaml:"deck_size"`
	MeeplesPerPlayer int          `yaml:"meeples_per_player"`
	MinPlayers       int          `yaml:"min_players"`
	MaxPlayers       int          `yaml:"max_players"`
}

func New(cfgPath string) (Config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return Config{}, err
	}
	defer func() {
		_ = file.Close()
	}()
	cfg := Config{}
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Tiles) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[domain.ArchetypeID]struct{}, len(c.Tiles))
	for _, tile := range c.Tiles {
		if tile.ID == "" {
			return errors.WithMessage(ErrInvalidTile, "missing archetype id")
		}
		if _, ok := seen[tile.ID]; ok {
			return errors.WithMessagef(ErrInvalidTile, "duplicate archetype '%s'", tile.ID)
		}
		seen[tile.ID] = struct{}{}
		if len(tile.Edges) != 4 {
			return errors.WithMessagef(ErrInvalidTile, "archetype '%s' has %d edges, want 4", tile.ID, len(tile.Edges))
		}
		for _, edge := range tile.Edges {
			if !edge.IsValid() {
				return errors.WithMessagef(ErrInvalidTile, "archetype '%s' has unknown edge type '%s'", tile.ID, edge)
			}
		}
		for _, segment := range tile.Segments {
			if segment.Name == "" || !segment.Type.IsValid() {
				return errors.WithMessagef(ErrInvalidTile, "archetype '%s' has invalid segment '%s'", tile.ID, segment.Name)
			}
		}
	}
	if len(c.Colors) < 2 {
		return errors.WithMessage(ErrInvalidSetting, "need at least 2 colors")
	}
	if c.DeckSize < 1 {
		return errors.WithMessage(ErrInvalidSetting, "deck size must be positive")
	}
	if c.MeeplesPerPlayer < 1 {
		return errors.WithMessage(ErrInvalidSetting, "meeples per player must be positive")
	}
	if c.MinPlayers < 2 || c.MaxPlayers < c.MinPlayers {
		return errors.WithMessage(ErrInvalidSetting, "player limits must satisfy 2 <= min <= max")
	}
	return nil
}

// Catalog converts the tile list into the archetype lookup used by the
// engine.
func (c Config) Catalog() domain.Catalog {
	catalog := make(domain.Catalog, len(c.Tiles))
	for _, tile := range c.Tiles {
		var edges [4]domain.EdgeType
		copy(edges[:], tile.Edges)
		catalog[tile.ID] = domain.TileArchetype{
			ID:       tile.ID,
			Edges:    edges,
			Segments: tile.Segments,
		}
	}
	return catalog
}
