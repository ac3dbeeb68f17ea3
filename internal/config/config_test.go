package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carcassonne/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validConfig = `
tiles:
  - id: A
    edges: [city, field, road, road]
    segments:
      - name: cityArea
        type: city
      - name: roadArea
        type: road
  - id: B
    edges: [field, field, road, road]
    segments:
      - name: roadArea
        type: road
colors: [yellow, red, green, blue, black]
deck_size: 20
meeples_per_player: 7
min_players: 2
max_players: 5
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := New(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Len(t, cfg.Tiles, 2)
	assert.Equal(t, 20, cfg.DeckSize)
	assert.Equal(t, 7, cfg.MeeplesPerPlayer)

	catalog := cfg.Catalog()
	require.Contains(t, catalog, domain.ArchetypeID("A"))
	assert.Equal(t, [4]domain.EdgeType{domain.City, domain.Field, domain.Road, domain.Road},
		catalog["A"].Edges)
	segment, ok := catalog["A"].Segment("roadArea")
	require.True(t, ok)
	assert.Equal(t, domain.Road, segment.Type)
}

func TestRejectInvalidConfigs(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "no tiles",
			content: "colors: [red, blue]\ndeck_size: 20\nmeeples_per_player: 7\nmin_players: 2\nmax_players: 5\n",
			wantErr: ErrEmptyCatalog,
		},
		{
			name: "wrong edge count",
			content: `
tiles:
  - id: A
    edges: [city, field, road]
colors: [red, blue]
deck_size: 20
meeples_per_player: 7
min_players: 2
max_players: 5
`,
			wantErr: ErrInvalidTile,
		},
		{
			name: "unknown edge type",
			content: `
tiles:
  - id: A
    edges: [city, swamp, road, road]
colors: [red, blue]
deck_size: 20
meeples_per_player: 7
min_players: 2
max_players: 5
`,
			wantErr: ErrInvalidTile,
		},
		{
			name: "duplicate archetype",
			content: `
tiles:
  - id: A
    edges: [city, field, road, road]
  - id: A
    edges: [field, field, road, road]
colors: [red, blue]
deck_size: 20
meeples_per_player: 7
min_players: 2
max_players: 5
`,
			wantErr: ErrInvalidTile,
		},
		{
			name: "zero deck",
			content: `
tiles:
  - id: A
    edges: [city, field, road, road]
colors: [red, blue]
deck_size: 0
meeples_per_player: 7
min_players: 2
max_players: 5
`,
			wantErr: ErrInvalidSetting,
		},
		{
			name: "bad player limits",
			content: `
tiles:
  - id: A
    edges: [city, field, road, road]
colors: [red, blue]
deck_size: 20
meeples_per_player: 7
min_players: 4
max_players: 2
`,
			wantErr: ErrInvalidSetting,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(writeConfig(t, tc.content))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
