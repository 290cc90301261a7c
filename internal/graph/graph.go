// Package graph models a family pedigree and infers heirs from it.
//
// Persons live in an arena slice addressed by index; edges are stored once
// and referenced from per-person outgoing and incoming adjacency lists.
// A Graph has a single writer: build it completely, then query it. Queries
// do not mutate and may run concurrently once building is done.
package graph

import (
	"strings"
)

// DefaultMaxGenerations bounds descendant and ancestor traversals
const DefaultMaxGenerations = 10

// RelationType is the type of a pedigree edge
type RelationType string

const (
	// Parent edges point from parent to child
	Parent  RelationType = "parent"
	Spouse  RelationType = "spouse"
	Sibling RelationType = "sibling"
)

// ParseRelationType normalizes a relationship type. "child" is accepted and
// reported as reversed: "A child B" is stored as "B parent A".
func ParseRelationType(s string) (RelationType, bool, error) {
	switch RelationType(strings.ToLower(strings.TrimSpace(s))) {
	case Parent:
		return Parent, false, nil
	case "child":
		return Parent, true, nil
	case Spouse:
		return Spouse, false, nil
	case Sibling:
		return Sibling, false, nil
	default:
		return "", false, ErrInvalidRelation
	}
}

// Person is a node of the graph
type Person struct {
	ID    string
	Attrs map[string]string
}

// Name returns the display name of the person, falling back to the id
func (p Person) Name() string {
	if name := p.Attrs["name"]; name != "" {
		return name
	}
	return p.ID
}

// Deceased reports whether the person is known to be dead
func (p Person) Deceased() bool {
	if p.Attrs["death_date"] != "" {
		return true
	}
	switch strings.ToLower(p.Attrs["deceased"]) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Edge is a typed, weighted relationship between two persons
type Edge struct {
	From       string
	To         string
	Type       RelationType
	Confidence float64
}

// Graph is an arena-backed pedigree graph
type Graph struct {
	// MaxGenerations bounds traversals used by heir identification
	MaxGenerations int

	index   map[string]int
	persons []Person
	edges   []edge
	out     [][]int // edge indexes by source person
	in      [][]int // edge indexes by target person
}

type edge struct {
	from, to   int
	typ        RelationType
	confidence float64
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		MaxGenerations: DefaultMaxGenerations,
		index:          make(map[string]int),
	}
}

// AddPerson adds a person or merges attributes into an existing one
func (g *Graph) AddPerson(id string, attrs map[string]string) {
	idx := g.ensure(id)
	for k, v := range attrs {
		if g.persons[idx].Attrs == nil {
			g.persons[idx].Attrs = make(map[string]string, len(attrs))
		}
		g.persons[idx].Attrs[k] = v
	}
}

func (g *Graph) ensure(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.persons)
	g.index[id] = idx
	g.persons = append(g.persons, Person{ID: id})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// AddRelationship adds a typed edge. Unknown endpoints are created. Adding
// an edge that already exists for the same ordered pair and type updates
// its confidence.
func (g *Graph) AddRelationship(from, to string, typ RelationType, confidence float64) error {
	if from == "" {
		return &PersonError{ID: from, Err: ErrPersonNotFound}
	}
	if to == "" {
		return &PersonError{ID: to, Err: ErrPersonNotFound}
	}
	if from == to {
		return &EdgeError{From: from, To: to, Err: ErrSelfLoop}
	}
	switch typ {
	case Parent, Spouse, Sibling:
	default:
		return &EdgeError{From: from, To: to, Err: ErrInvalidRelation}
	}
	if confidence < 0 || confidence > 1 {
		return &EdgeError{From: from, To: to, Err: ErrInvalidConfidence}
	}

	f := g.ensure(from)
	t := g.ensure(to)
	for _, ei := range g.out[f] {
		if e := &g.edges[ei]; e.to == t && e.typ == typ {
			e.confidence = confidence
			return nil
		}
	}

	ei := len(g.edges)
	g.edges = append(g.edges, edge{from: f, to: t, typ: typ, confidence: confidence})
	g.out[f] = append(g.out[f], ei)
	g.in[t] = append(g.in[t], ei)
	return nil
}

// HasPerson reports whether id is in the graph
func (g *Graph) HasPerson(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Person returns the person with the given id
func (g *Graph) Person(id string) (Person, bool) {
	idx, ok := g.index[id]
	if !ok {
		return Person{}, false
	}
	return g.persons[idx], true
}

// Persons returns all persons in insertion order
func (g *Graph) Persons() []Person {
	return append([]Person(nil), g.persons...)
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = g.publicEdge(e)
	}
	return out
}

// Len returns the number of persons
func (g *Graph) Len() int {
	return len(g.persons)
}

// Edge returns the edge from -> to of the given type
func (g *Graph) Edge(from, to string, typ RelationType) (Edge, bool) {
	f, ok := g.index[from]
	if !ok {
		return Edge{}, false
	}
	for _, ei := range g.out[f] {
		e := g.edges[ei]
		if g.persons[e.to].ID == to && e.typ == typ {
			return g.publicEdge(e), true
		}
	}
	return Edge{}, false
}

func (g *Graph) publicEdge(e edge) Edge {
	return Edge{
		From:       g.persons[e.from].ID,
		To:         g.persons[e.to].ID,
		Type:       e.typ,
		Confidence: e.confidence,
	}
}

func (g *Graph) lookup(id string) (int, error) {
	idx, ok := g.index[id]
	if !ok {
		return 0, &PersonError{ID: id, Err: ErrPersonNotFound}
	}
	return idx, nil
}

func (g *Graph) maxGenerations(n int) int {
	if n > 0 {
		return n
	}
	if g.MaxGenerations > 0 {
		return g.MaxGenerations
	}
	return DefaultMaxGenerations
}
