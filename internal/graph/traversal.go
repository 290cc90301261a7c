package graph

// children returns the indexes of the children of idx along parent edges
func (g *Graph) children(idx int) []int {
	var out []int
	for _, ei := range g.out[idx] {
		if e := g.edges[ei]; e.typ == Parent {
			out = append(out, e.to)
		}
	}
	return out
}

// parents returns the indexes of the parents of idx along parent edges
func (g *Graph) parents(idx int) []int {
	var out []int
	for _, ei := range g.in[idx] {
		if e := g.edges[ei]; e.typ == Parent {
			out = append(out, e.from)
		}
	}
	return out
}

// RelationshipDistance returns the number of edges on the shortest path
// between a and b, ignoring edge direction and type.
func (g *Graph) RelationshipDistance(a, b string) (int, error) {
	ai, err := g.lookup(a)
	if err != nil {
		return 0, err
	}
	bi, err := g.lookup(b)
	if err != nil {
		return 0, err
	}
	if d, ok := g.distance(ai, bi); ok {
		return d, nil
	}
	return 0, &EdgeError{From: a, To: b, Err: ErrNotConnected}
}

// distance runs a BFS over the undirected projection of every edge
func (g *Graph) distance(from, to int) (int, bool) {
	if from == to {
		return 0, true
	}

	depth := make(map[int]int, len(g.persons))
	depth[from] = 0
	queue := []int{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		visit := func(next int) bool {
			if _, seen := depth[next]; seen {
				return false
			}
			depth[next] = depth[cur] + 1
			queue = append(queue, next)
			return next == to
		}

		for _, ei := range g.out[cur] {
			if visit(g.edges[ei].to) {
				return depth[to], true
			}
		}
		for _, ei := range g.in[cur] {
			if visit(g.edges[ei].from) {
				return depth[to], true
			}
		}
	}
	return 0, false
}

// Descendants returns the descendants of id, generation by generation, each
// reported once. maxGenerations <= 0 uses the graph default.
func (g *Graph) Descendants(id string, maxGenerations int) ([]string, error) {
	idx, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.ids(g.walk(idx, g.maxGenerations(maxGenerations), g.children)), nil
}

// Ancestors returns the ancestors of id, generation by generation, each
// reported once. maxGenerations <= 0 uses the graph default.
func (g *Graph) Ancestors(id string, maxGenerations int) ([]string, error) {
	idx, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.ids(g.walk(idx, g.maxGenerations(maxGenerations), g.parents)), nil
}

// walk performs a generation-bounded BFS using next to expand each person
func (g *Graph) walk(start, generations int, next func(int) []int) []int {
	seen := map[int]bool{start: true}
	var found []int

	current := []int{start}
	for gen := 0; gen < generations && len(current) > 0; gen++ {
		var nextGen []int
		for _, idx := range current {
			for _, n := range next(idx) {
				if seen[n] {
					continue
				}
				seen[n] = true
				found = append(found, n)
				nextGen = append(nextGen, n)
			}
		}
		current = nextGen
	}
	return found
}

// generationOf returns how many parent edges separate ancestor from
// descendant, searching at most generations deep.
func (g *Graph) generationOf(ancestor, descendant, generations int) (int, bool) {
	seen := map[int]bool{ancestor: true}
	current := []int{ancestor}
	for gen := 1; gen <= generations && len(current) > 0; gen++ {
		var nextGen []int
		for _, idx := range current {
			for _, c := range g.children(idx) {
				if c == descendant {
					return gen, true
				}
				if !seen[c] {
					seen[c] = true
					nextGen = append(nextGen, c)
				}
			}
		}
		current = nextGen
	}
	return 0, false
}

// Siblings returns persons sharing a parent with id plus persons linked to
// id by a sibling edge in either direction. id itself is never included.
func (g *Graph) Siblings(id string) ([]string, error) {
	idx, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.ids(g.siblings(idx)), nil
}

func (g *Graph) siblings(idx int) []int {
	seen := map[int]bool{idx: true}
	var out []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, p := range g.parents(idx) {
		for _, c := range g.children(p) {
			add(c)
		}
	}
	for _, ei := range g.out[idx] {
		if e := g.edges[ei]; e.typ == Sibling {
			add(e.to)
		}
	}
	for _, ei := range g.in[idx] {
		if e := g.edges[ei]; e.typ == Sibling {
			add(e.from)
		}
	}
	return out
}

func (g *Graph) ids(idxs []int) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = g.persons[idx].ID
	}
	return out
}
