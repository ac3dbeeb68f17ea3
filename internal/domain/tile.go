package domain

import (
	"sort"
)

type EdgeType string

const (
	City  = EdgeType("city")
	Road  = EdgeType("road")
	Field = EdgeType("field")
)

func (e EdgeType) IsValid() bool {
	switch e {
	case City, Road, Field:
		return true
	}
	return false
}

// BasePoints is the per-tile score of a completed feature of this type.
func (e EdgeType) BasePoints() int {
	switch e {
	case City:
		return 2
	default:
		return 1
	}
}

type Rotation int

const FullTurn = 360

func (r Rotation) IsValid() bool {
	return r == 0 || r == 90 || r == 180 || r == 270
}

func (r Rotation) Next() Rotation {
	return (r + 90) % FullTurn
}

// steps returns the number of clockwise quarter turns, normalized
// so that negative and overshooting rotations still resolve.
func (r Rotation) steps() int {
	return int(((r%FullTurn)+FullTurn)%FullTurn) / 90
}

type ArchetypeID string

type Segment struct {
	Name string   `json:"name" yaml:"name"`
	Type EdgeType `json:"type" yaml:"type"`
}

// edge order is canonical [north, east, south, west]
type TileArchetype struct {
	ID       ArchetypeID `json:"id" yaml:"id"`
	Edges    [4]EdgeType `json:"edges" yaml:"edges"`
	Segments []Segment   `json:"segments" yaml:"segments"`
}

const (
	North = iota
	East
	South
	West
)

// EffectiveEdges rotates the canonical edge tuple clockwise: each
// quarter turn moves the edge that was on the west side to the north.
func (a TileArchetype) EffectiveEdges(r Rotation) [4]EdgeType {
	steps := r.steps()
	var edges [4]EdgeType
	for i := range edges {
		edges[i] = a.Edges[(i-steps+4)%4]
	}
	return edges
}

func (a TileArchetype) Segment(name string) (Segment, bool) {
	for _, s := range a.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}

type Catalog map[ArchetypeID]TileArchetype

// IDs returns the archetype ids in a stable order so that seeded
// draws are reproducible.
func (c Catalog) IDs() []ArchetypeID {
	ids := make([]ArchetypeID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Marker struct {
	Owner   string   `json:"owner"`
	Segment string   `json:"segment"`
	Type    EdgeType `json:"type"`
}

// SystemOwner marks the seed tile placed by the engine itself at game start.
const SystemOwner = "system"

type PlacedTile struct {
	Archetype ArchetypeID `json:"archetype"`
	Rotation  Rotation    `json:"rotation"`
	Owner     string      `json:"owner"`
	Marker    *Marker     `json:"marker,omitempty"`
	// Resolved is set on the tile placed in the current turn and cleared
	// on turn end; only a resolved tile may receive a marker.
	Resolved bool `json:"resolved,omitempty"`
}
