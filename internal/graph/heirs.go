package graph

// HeirTier names the succession class an heir was found in
type HeirTier string

const (
	TierChild       HeirTier = "child"
	TierGrandchild  HeirTier = "grandchild"
	TierSibling     HeirTier = "sibling"
	TierNieceNephew HeirTier = "niece_nephew"
)

// Base probabilities of the fallback tiers. Children use their own edge confidence.
const (
	GrandchildProbability  = 0.85
	SiblingProbability     = 0.75
	NieceNephewProbability = 0.65
)

// HeirLink is a person inferred as an heir of a deceased person
type HeirLink struct {
	PersonID    string   `json:"person_id"`
	Degree      int      `json:"degree"`
	Probability float64  `json:"probability"`
	Tier        HeirTier `json:"tier"`
}

// IdentifyHeirs walks the succession cascade for deceasedID and returns the
// living members of the first non-empty tier: children, then grandchildren,
// then siblings, then nieces and nephews. Persons marked deceased are never
// returned, so grandchildren inherit only when every child predeceased.
// Spouses are not part of the cascade.
func (g *Graph) IdentifyHeirs(deceasedID string) ([]HeirLink, error) {
	d, err := g.lookup(deceasedID)
	if err != nil {
		return nil, err
	}

	var heirs []HeirLink
	for _, ei := range g.out[d] {
		e := g.edges[ei]
		if e.typ != Parent || g.persons[e.to].Deceased() {
			continue
		}
		heirs = append(heirs, HeirLink{
			PersonID:    g.persons[e.to].ID,
			Degree:      1,
			Probability: 1.0 * e.confidence,
			Tier:        TierChild,
		})
	}
	if len(heirs) > 0 {
		return heirs, nil
	}

	children := g.children(d)
	if heirs = g.tier(g.childrenOf(children), 2, GrandchildProbability, TierGrandchild); len(heirs) > 0 {
		return heirs, nil
	}

	siblings := g.siblings(d)
	if heirs = g.tier(siblings, 2, SiblingProbability, TierSibling); len(heirs) > 0 {
		return heirs, nil
	}

	return g.tier(g.childrenOf(siblings), 3, NieceNephewProbability, TierNieceNephew), nil
}

// childrenOf returns the children of every person in parents, each once
func (g *Graph) childrenOf(parents []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, p := range parents {
		for _, c := range g.children(p) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// tier builds heir links for the living persons among candidates
func (g *Graph) tier(candidates []int, degree int, probability float64, name HeirTier) []HeirLink {
	var heirs []HeirLink
	for _, idx := range candidates {
		if g.persons[idx].Deceased() {
			continue
		}
		heirs = append(heirs, HeirLink{
			PersonID:    g.persons[idx].ID,
			Degree:      degree,
			Probability: probability,
			Tier:        name,
		})
	}
	return heirs
}

// spouses reports whether a and b are joined by a spouse edge
func (g *Graph) spouses(a, b int) bool {
	for _, ei := range g.out[a] {
		if e := g.edges[ei]; e.typ == Spouse && e.to == b {
			return true
		}
	}
	for _, ei := range g.in[a] {
		if e := g.edges[ei]; e.typ == Spouse && e.from == b {
			return true
		}
	}
	return false
}

// Degree returns the succession degree of personID relative to deceasedID:
// the generation of a descendant, 2 for a sibling, and 2 plus the generation
// for a sibling's descendant (3 for a niece or nephew). Ancestors, their other
// lines, spouses and unconnected persons have no degree, so they can never
// join a descendant or sibling class.
func (g *Graph) Degree(deceasedID, personID string) (int, bool) {
	d, ok := g.index[deceasedID]
	if !ok {
		return 0, false
	}
	p, ok := g.index[personID]
	if !ok || p == d {
		return 0, false
	}
	if g.spouses(d, p) {
		return 0, false
	}

	generations := g.maxGenerations(0)
	if gen, ok := g.generationOf(d, p, generations); ok {
		return gen, true
	}

	best := 0
	for _, s := range g.siblings(d) {
		if s == p {
			return 2, true
		}
		if gen, ok := g.generationOf(s, p, generations); ok && (best == 0 || 2+gen < best) {
			best = 2 + gen
		}
	}
	return best, best > 0
}
