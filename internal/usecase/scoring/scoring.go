package scoring

import (
	"carcassonne/internal/domain"
)

// Feature is a maximal connected region of same-type terrain edges
// across placed tiles, the unit of scoring.
type Feature struct {
	Type      domain.EdgeType
	Tiles     map[domain.Coordinate]struct{}
	Meeples   map[string]int
	OpenEdges int
}

func (f Feature) Complete() bool {
	return f.OpenEdges == 0
}

// GatherFeature flood-fills the feature of the given terrain type
// starting from startCoord. Every matching edge that faces an absent
// neighbor counts as open; a neighbor whose facing edge is of a
// different type also counts as open (that can only happen when
// placement validation was bypassed). Markers of the feature type
// contribute to the per-owner meeple counts.
func GatherFeature(board domain.Board, catalog domain.Catalog, startCoord domain.Coordinate, featureType domain.EdgeType) Feature {
	feature := Feature{
		Type:    featureType,
		Tiles:   make(map[domain.Coordinate]struct{}),
		Meeples: make(map[string]int),
	}
	visited := make(map[domain.Coordinate]struct{})

	var visit func(c domain.Coordinate)
	visit = func(c domain.Coordinate) {
		if _, ok := visited[c]; ok {
			return
		}
		visited[c] = struct{}{}
		tile, ok := board.TileAt(c)
		if !ok {
			return
		}
		feature.Tiles[c] = struct{}{}
		if tile.Marker != nil && tile.Marker.Type == featureType {
			feature.Meeples[tile.Marker.Owner]++
		}
		archetype, ok := catalog[tile.Archetype]
		if !ok {
			return
		}
		edges := archetype.EffectiveEdges(tile.Rotation)
		for side, neighborCoord := range c.Neighbors() {
			if edges[side] != featureType {
				continue
			}
			neighbor, ok := board.TileAt(neighborCoord)
			if !ok {
				feature.OpenEdges++
				continue
			}
			neighborArchetype, ok := catalog[neighbor.Archetype]
			if !ok {
				feature.OpenEdges++
				continue
			}
			neighborEdges := neighborArchetype.EffectiveEdges(neighbor.Rotation)
			if neighborEdges[domain.Directions[side].Opposite] == featureType {
				visit(neighborCoord)
			} else {
				feature.OpenEdges++
			}
		}
	}
	visit(startCoord)
	return feature
}

// ScoreFeature awards basePoints(type) per tile for a completed
// feature; an open feature scores zero with no winners (deferred, not
// lost). Winners are all owners tied for the most meeples, each
// credited the full amount.
func ScoreFeature(feature Feature) (int, []string) {
	if !feature.Complete() {
		return 0, nil
	}
	points := feature.Type.BasePoints() * len(feature.Tiles)
	maxCount := 0
	for _, count := range feature.Meeples {
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		return points, nil
	}
	var winners []string
	for owner, count := range feature.Meeples {
		if count == maxCount {
			winners = append(winners, owner)
		}
	}
	return points, winners
}

// CalculateScores recomputes every player's total from scratch: it
// walks all marker-bearing tiles, gathers each feature once (a
// processed set keyed by coordinate stops double counting when several
// markers share a feature) and credits completed features to their
// majority owners.
func CalculateScores(game *domain.Game, catalog domain.Catalog) map[string]int {
	scores := make(map[string]int, len(game.Players))
	for _, p := range game.Players {
		scores[p.ID] = 0
	}
	processed := make(map[domain.Coordinate]struct{})
	for coord, cell := range game.Board {
		if cell.State != domain.CellOccupied || cell.Tile.Marker == nil {
			continue
		}
		if _, ok := processed[coord]; ok {
			continue
		}
		feature := GatherFeature(game.Board, catalog, coord, cell.Tile.Marker.Type)
		points, winners := ScoreFeature(feature)
		for _, winner := range winners {
			scores[winner] += points
		}
		for c := range feature.Tiles {
			processed[c] = struct{}{}
		}
	}
	return scores
}
