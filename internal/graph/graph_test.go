package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/heirtrace/internal/model"
)

// family builds:
//
//	grandpa -> dad, uncle
//	dad -> alice, bob
//	uncle -> carol
func family(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddPerson("grandpa", map[string]string{"name": "George Doe"})
	for _, e := range [][2]string{
		{"grandpa", "dad"}, {"grandpa", "uncle"},
		{"dad", "alice"}, {"dad", "bob"},
		{"uncle", "carol"},
	} {
		require.NoError(t, g.AddRelationship(e[0], e[1], Parent, 1.0))
	}
	return g
}

func TestGraph_AddRelationship_CreatesEndpoints(t *testing.T) {
	g := New()
	require.NoError(t, g.AddRelationship("a", "b", Spouse, 0.9))

	assert.True(t, g.HasPerson("a"))
	assert.True(t, g.HasPerson("b"))
	assert.Equal(t, 2, g.Len())
}

func TestGraph_AddRelationship_Rejects(t *testing.T) {
	g := New()

	err := g.AddRelationship("a", "a", Parent, 1)
	assert.ErrorIs(t, err, ErrSelfLoop)

	err = g.AddRelationship("a", "b", RelationType("cousin"), 1)
	assert.ErrorIs(t, err, ErrInvalidRelation)

	err = g.AddRelationship("a", "b", Parent, 1.5)
	assert.ErrorIs(t, err, ErrInvalidConfidence)

	err = g.AddRelationship("a", "b", Parent, -0.1)
	assert.ErrorIs(t, err, ErrInvalidConfidence)

	var edgeErr *EdgeError
	require.ErrorAs(t, err, &edgeErr)
	assert.Equal(t, "a", edgeErr.From)
	assert.Equal(t, 0, g.Len())
}

func TestGraph_AddRelationship_UpdatesConfidence(t *testing.T) {
	g := New()
	require.NoError(t, g.AddRelationship("a", "b", Parent, 0.5))
	require.NoError(t, g.AddRelationship("a", "b", Parent, 0.8))
	require.NoError(t, g.AddRelationship("a", "b", Spouse, 0.3))

	assert.Len(t, g.Edges(), 2)
	e, ok := g.Edge("a", "b", Parent)
	require.True(t, ok)
	assert.Equal(t, 0.8, e.Confidence)
}

func TestGraph_AddPerson_MergesAttrs(t *testing.T) {
	g := New()
	g.AddPerson("a", map[string]string{"name": "Ann"})
	g.AddPerson("a", map[string]string{"death_date": "2020-01-01"})

	p, ok := g.Person("a")
	require.True(t, ok)
	assert.Equal(t, "Ann", p.Name())
	assert.True(t, p.Deceased())
	assert.Equal(t, 1, g.Len())
}

func TestGraph_RelationshipDistance(t *testing.T) {
	g := family(t)

	d, err := g.RelationshipDistance("alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = g.RelationshipDistance("alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	g.AddPerson("stranger", nil)
	_, err = g.RelationshipDistance("alice", "stranger")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = g.RelationshipDistance("alice", "nobody")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGraph_Descendants(t *testing.T) {
	g := family(t)

	got, err := g.Descendants("grandpa", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"dad", "uncle", "alice", "bob", "carol"}, got)

	got, err = g.Descendants("grandpa", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"dad", "uncle"}, got)

	got, err = g.Descendants("alice", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGraph_Descendants_ReportedOnce(t *testing.T) {
	g := New()
	// both parents of kid descend from root
	require.NoError(t, g.AddRelationship("root", "mom", Parent, 1))
	require.NoError(t, g.AddRelationship("root", "dad", Parent, 1))
	require.NoError(t, g.AddRelationship("mom", "kid", Parent, 1))
	require.NoError(t, g.AddRelationship("dad", "kid", Parent, 1))

	got, err := g.Descendants("root", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"mom", "dad", "kid"}, got)
}

func TestGraph_Ancestors(t *testing.T) {
	g := family(t)

	got, err := g.Ancestors("carol", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"uncle", "grandpa"}, got)

	_, err = g.Ancestors("nobody", 0)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGraph_Siblings(t *testing.T) {
	g := family(t)
	require.NoError(t, g.AddRelationship("eve", "alice", Sibling, 0.7))

	got, err := g.Siblings("alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "eve"}, got)

	got, err = g.Siblings("eve")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got)
}

func TestGraph_IdentifyHeirs_Children(t *testing.T) {
	g := New()
	require.NoError(t, g.AddRelationship("D", "C1", Parent, 0.9))
	require.NoError(t, g.AddRelationship("D", "C2", Parent, 0.6))
	require.NoError(t, g.AddRelationship("D", "S1", Sibling, 1.0))

	heirs, err := g.IdentifyHeirs("D")
	require.NoError(t, err)
	assert.Equal(t, []HeirLink{
		{PersonID: "C1", Degree: 1, Probability: 0.9, Tier: TierChild},
		{PersonID: "C2", Degree: 1, Probability: 0.6, Tier: TierChild},
	}, heirs)
}

func TestGraph_IdentifyHeirs_GrandchildrenWhenChildrenPredeceased(t *testing.T) {
	g := family(t)
	g.AddPerson("dad", map[string]string{"deceased": "true"})
	g.AddPerson("uncle", map[string]string{"death_date": "2019-03-01"})

	heirs, err := g.IdentifyHeirs("grandpa")
	require.NoError(t, err)
	require.Len(t, heirs, 3)
	for _, h := range heirs {
		assert.Equal(t, 2, h.Degree)
		assert.Equal(t, GrandchildProbability, h.Probability)
		assert.Equal(t, TierGrandchild, h.Tier)
	}
}

func TestGraph_IdentifyHeirs_Siblings(t *testing.T) {
	g := family(t)

	heirs, err := g.IdentifyHeirs("alice")
	require.NoError(t, err)
	assert.Equal(t, []HeirLink{{PersonID: "bob", Degree: 2, Probability: SiblingProbability, Tier: TierSibling}}, heirs)
}

func TestGraph_IdentifyHeirs_NiecesNephews(t *testing.T) {
	g := family(t)
	g.AddPerson("uncle", map[string]string{"deceased": "yes"})

	// living children take precedence
	heirs, err := g.IdentifyHeirs("dad")
	require.NoError(t, err)
	require.Len(t, heirs, 2)

	g.AddPerson("alice", map[string]string{"deceased": "true"})
	g.AddPerson("bob", map[string]string{"deceased": "true"})
	heirs, err = g.IdentifyHeirs("dad")
	require.NoError(t, err)
	assert.Equal(t, []HeirLink{{PersonID: "carol", Degree: 3, Probability: NieceNephewProbability, Tier: TierNieceNephew}}, heirs)
}

func TestGraph_IdentifyHeirs_Empty(t *testing.T) {
	g := New()
	g.AddPerson("alone", nil)

	heirs, err := g.IdentifyHeirs("alone")
	require.NoError(t, err)
	assert.Empty(t, heirs)

	_, err = g.IdentifyHeirs("nobody")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGraph_Degree(t *testing.T) {
	g := family(t)
	require.NoError(t, g.AddRelationship("grandpa", "grandma", Spouse, 1))

	tests := []struct {
		person string
		want   int
		ok     bool
	}{
		{"dad", 1, true},
		{"carol", 2, true},
		{"grandma", 0, false},
		{"nobody", 0, false},
		{"grandpa", 0, false},
	}
	for _, tt := range tests {
		got, ok := g.Degree("grandpa", tt.person)
		assert.Equal(t, tt.ok, ok, tt.person)
		assert.Equal(t, tt.want, got, tt.person)
	}

	got, ok := g.Degree("dad", "uncle")
	assert.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = g.Degree("dad", "carol")
	assert.True(t, ok)
	assert.Equal(t, 3, got)

	// cousins share only an ancestor line
	_, ok = g.Degree("alice", "carol")
	assert.False(t, ok)
}

func TestGraph_Degree_AncestorsHaveNoDegree(t *testing.T) {
	g := family(t)
	require.NoError(t, g.AddRelationship("alice", "kid", Parent, 1))
	require.NoError(t, g.AddRelationship("bob", "nephew", Parent, 1))
	require.NoError(t, g.AddRelationship("nephew", "grandnephew", Parent, 1))

	for _, person := range []string{"dad", "grandpa", "uncle", "carol"} {
		got, ok := g.Degree("alice", person)
		assert.False(t, ok, person)
		assert.Zero(t, got, person)
	}

	tests := []struct {
		person string
		want   int
	}{
		{"kid", 1},
		{"bob", 2},
		{"nephew", 3},
		{"grandnephew", 4},
	}
	for _, tt := range tests {
		got, ok := g.Degree("alice", tt.person)
		assert.True(t, ok, tt.person)
		assert.Equal(t, tt.want, got, tt.person)
	}
}

func TestGraph_Degree_CoParentSpouse(t *testing.T) {
	g := family(t)
	require.NoError(t, g.AddRelationship("grandma", "dad", Parent, 1))
	require.NoError(t, g.AddRelationship("grandma", "grandpa", Spouse, 1))

	_, ok := g.Degree("grandpa", "grandma")
	assert.False(t, ok)
}

func TestParseRelationType(t *testing.T) {
	typ, reversed, err := ParseRelationType(" Child ")
	require.NoError(t, err)
	assert.Equal(t, Parent, typ)
	assert.True(t, reversed)

	_, _, err = ParseRelationType("friend")
	assert.ErrorIs(t, err, ErrInvalidRelation)
}

func TestFromCase(t *testing.T) {
	low := 0.4
	c := &model.Case{
		DeceasedID: "d",
		Persons: []model.PersonRecord{
			{ID: "d", Name: "Dorothy Doe", DeathDate: "2023-05-01"},
			{ID: "k", Name: "Kim Doe"},
		},
		Relationships: []model.RelationshipRecord{
			{From: "k", To: "d", Type: "child", Confidence: &low},
		},
	}

	g, err := FromCase(c)
	require.NoError(t, err)

	e, ok := g.Edge("d", "k", Parent)
	require.True(t, ok)
	assert.Equal(t, 0.4, e.Confidence)

	p, _ := g.Person("d")
	assert.True(t, p.Deceased())

	c.Relationships = append(c.Relationships, model.RelationshipRecord{From: "k", To: "k", Type: "sibling"})
	_, err = FromCase(c)
	assert.ErrorIs(t, err, ErrSelfLoop)
}

func TestGraph_SnapshotAndCytoscape(t *testing.T) {
	g := New()
	g.AddPerson("1", map[string]string{"name": "Ann"})
	require.NoError(t, g.AddRelationship("1", "2", Parent, 0.5))

	snap := g.Snapshot()
	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, "Ann", snap.Nodes[0].Attrs["name"])
	assert.Nil(t, snap.Nodes[1].Attrs)
	assert.Equal(t, []model.GraphEdge{{From: "1", To: "2", Relationship: "parent", Confidence: 0.5}}, snap.Edges)

	cy := g.Cytoscape()
	require.Len(t, cy.Elements, 3)
	assert.Equal(t, "Ann", cy.Elements[0].Data["label"])
	assert.Equal(t, "Person 2", cy.Elements[1].Data["label"])
	assert.Equal(t, "1", cy.Elements[2].Data["source"])
	assert.Equal(t, "parent", cy.Elements[2].Data["label"])
}
