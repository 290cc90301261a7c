package graph

import (
	"fmt"
	"strconv"

	"github.com/ppiankov/heirtrace/internal/model"
)

// Snapshot returns the nodes and edges of the graph in insertion order
func (g *Graph) Snapshot() model.GraphSnapshot {
	snap := model.GraphSnapshot{
		Nodes: make([]model.GraphNode, 0, len(g.persons)),
		Edges: make([]model.GraphEdge, 0, len(g.edges)),
	}
	for _, p := range g.persons {
		node := model.GraphNode{ID: p.ID}
		if len(p.Attrs) > 0 {
			node.Attrs = make(map[string]string, len(p.Attrs))
			for k, v := range p.Attrs {
				node.Attrs[k] = v
			}
		}
		snap.Nodes = append(snap.Nodes, node)
	}
	for _, e := range g.edges {
		snap.Edges = append(snap.Edges, model.GraphEdge{
			From:         g.persons[e.from].ID,
			To:           g.persons[e.to].ID,
			Relationship: string(e.typ),
			Confidence:   e.confidence,
		})
	}
	return snap
}

// CytoscapeGraph is the Cytoscape.js elements format
type CytoscapeGraph struct {
	Elements []CytoscapeElement `json:"elements"`
}

// CytoscapeElement is one node or edge
type CytoscapeElement struct {
	Data map[string]any `json:"data"`
}

// Cytoscape exports the graph for visualization with Cytoscape.js
func (g *Graph) Cytoscape() CytoscapeGraph {
	out := CytoscapeGraph{Elements: make([]CytoscapeElement, 0, len(g.persons)+len(g.edges))}

	for _, p := range g.persons {
		data := make(map[string]any, len(p.Attrs)+2)
		for k, v := range p.Attrs {
			data[k] = v
		}
		data["id"] = p.ID
		data["label"] = p.Attrs["name"]
		if p.Attrs["name"] == "" {
			data["label"] = fmt.Sprintf("Person %s", p.ID)
		}
		out.Elements = append(out.Elements, CytoscapeElement{Data: data})
	}

	for i, e := range g.edges {
		out.Elements = append(out.Elements, CytoscapeElement{Data: map[string]any{
			"id":         "e" + strconv.Itoa(i),
			"source":     g.persons[e.from].ID,
			"target":     g.persons[e.to].ID,
			"label":      string(e.typ),
			"confidence": e.confidence,
		}})
	}
	return out
}
