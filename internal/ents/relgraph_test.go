package ents

import "testing"

func TestRelationshipGraphDirectionsAreIndependent(t *testing.T) {
	g := NewRelationshipGraph()
	forward := g.Ensure("L", "S")
	forward.Trust.Reliability = 0.5

	backward := g.Get("S", "L")
	if backward != nil {
		t.Errorf("S->L should not exist yet, got %+v", backward)
	}

	g.Ensure("S", "L").Trust.Reliability = -0.5
	if got := g.Get("L", "S").Trust.Reliability; got != 0.5 {
		t.Errorf("L->S reliability = %v, want 0.5 (must stay independent of S->L)", got)
	}
}

func TestRelationshipGraphIncomingIsReverseLookup(t *testing.T) {
	g := NewRelationshipGraph()
	g.Ensure("a", "c")
	g.Ensure("b", "c")

	in := g.Incoming("c")
	if len(in) != 2 {
		t.Fatalf("Incoming(c) has %d entries, want 2", len(in))
	}
	if _, ok := in["a"]; !ok {
		t.Error("Incoming(c) missing a->c")
	}
	if _, ok := in["b"]; !ok {
		t.Error("Incoming(c) missing b->c")
	}
}

func TestRelationshipGraphAllEdgesIsSorted(t *testing.T) {
	g := NewRelationshipGraph()
	g.Ensure("z", "b")
	g.Ensure("a", "y")
	g.Ensure("a", "b")

	edges := g.AllEdges()
	for i := 1; i < len(edges); i++ {
		prev, cur := edges[i-1], edges[i]
		if prev.From > cur.From || (prev.From == cur.From && prev.To > cur.To) {
			t.Fatalf("AllEdges() not sorted: %+v then %+v", prev, cur)
		}
	}
}

func TestRelationshipGraphRemoveAgentDropsBothDirections(t *testing.T) {
	g := NewRelationshipGraph()
	g.Ensure("a", "b")
	g.Ensure("b", "a")

	g.RemoveAgent("a")

	if g.Get("a", "b") != nil {
		t.Error("a->b should be gone after RemoveAgent(a)")
	}
	if g.Get("b", "a") != nil {
		t.Error("b->a should be gone after RemoveAgent(a)")
	}
}

func TestOverallTrustDefaultsToZero(t *testing.T) {
	g := NewRelationshipGraph()
	if got := g.OverallTrust("a", "b"); got != 0 {
		t.Errorf("OverallTrust on a never-recorded pair = %v, want 0", got)
	}
}
