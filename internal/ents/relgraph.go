package ents

import "sort"

// RelationshipGraph is a sparse, directed trust graph. The two directions
// of a pair are never collapsed: L->S and S->L are independent edges.
type RelationshipGraph struct {
	forward map[AgentID]map[AgentID]*Relationship
	reverse map[AgentID]map[AgentID]*Relationship
}

// NewRelationshipGraph creates an empty graph.
func NewRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{
		forward: make(map[AgentID]map[AgentID]*Relationship),
		reverse: make(map[AgentID]map[AgentID]*Relationship),
	}
}

// Get returns the from->to relationship, or nil if none exists yet.
func (g *RelationshipGraph) Get(from, to AgentID) *Relationship {
	if m, ok := g.forward[from]; ok {
		return m[to]
	}
	return nil
}

// Ensure returns the from->to relationship, creating a neutral one if absent.
func (g *RelationshipGraph) Ensure(from, to AgentID) *Relationship {
	if r := g.Get(from, to); r != nil {
		return r
	}
	r := NewRelationship(from, to)
	if g.forward[from] == nil {
		g.forward[from] = make(map[AgentID]*Relationship)
	}
	g.forward[from][to] = r
	if g.reverse[to] == nil {
		g.reverse[to] = make(map[AgentID]*Relationship)
	}
	g.reverse[to][from] = r
	return r
}

// OverallTrust returns the overall trust from->to, or 0 if no relationship
// has ever been recorded.
func (g *RelationshipGraph) OverallTrust(from, to AgentID) float64 {
	if r := g.Get(from, to); r != nil {
		return r.Trust.Overall()
	}
	return 0
}

// Outgoing returns every relationship originating at agent, in the map's
// natural (unordered) form; callers needing determinism must sort by To.
func (g *RelationshipGraph) Outgoing(agent AgentID) map[AgentID]*Relationship {
	return g.forward[agent]
}

// Incoming returns every relationship terminating at agent: an
// O(in-degree) reverse lookup, cheap enough to call per agent per tick.
func (g *RelationshipGraph) Incoming(agent AgentID) map[AgentID]*Relationship {
	return g.reverse[agent]
}

// AllEdges returns every relationship in the graph in stable (from, to)
// sorted order, for deterministic full-graph traversal such as snapshot
// serialization.
func (g *RelationshipGraph) AllEdges() []*Relationship {
	froms := make([]AgentID, 0, len(g.forward))
	for from := range g.forward {
		froms = append(froms, from)
	}
	sort.Slice(froms, func(i, j int) bool { return froms[i] < froms[j] })

	var out []*Relationship
	for _, from := range froms {
		tos := make([]AgentID, 0, len(g.forward[from]))
		for to := range g.forward[from] {
			tos = append(tos, to)
		}
		sort.Slice(tos, func(i, j int) bool { return tos[i] < tos[j] })
		for _, to := range tos {
			out = append(out, g.forward[from][to])
		}
	}
	return out
}

// RemoveAgent drops every relationship touching agent, in either direction.
// Used when pruning a dead agent's social footprint is desired; memories are
// left untouched (source chains are snapshots, not live references).
func (g *RelationshipGraph) RemoveAgent(agent AgentID) {
	for to := range g.forward[agent] {
		delete(g.reverse[to], agent)
	}
	delete(g.forward, agent)
	for from := range g.reverse[agent] {
		delete(g.forward[from], agent)
	}
	delete(g.reverse, agent)
}
