package engine

import (
	"log/slog"

	"github.com/talgya/crossroads/internal/ents"
)

// UpdatePerception rebuilds the location->agents index and each live agent's
// VisibleAgents set. Perception does not extend across adjacency: seeing
// requires co-location.
func (s *Simulation) UpdatePerception() {
	byLocation := make(map[ents.LocationID][]ents.AgentID)
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if _, ok := s.Locations.Get(a.LocationID); !ok {
			slog.Warn("agent location does not resolve, perception-invisible this tick",
				"agent", a.ID, "location", a.LocationID)
			a.VisibleAgents = nil
			continue
		}
		byLocation[a.LocationID] = append(byLocation[a.LocationID], a.ID)
	}

	for loc, occupants := range byLocation {
		for _, id := range occupants {
			a := s.Agents[id]
			visible := make([]ents.AgentID, 0, len(occupants)-1)
			for _, other := range occupants {
				if other != id {
					visible = append(visible, other)
				}
			}
			a.VisibleAgents = visible
			_ = loc
		}
	}
}

// AgentsAt returns the live agent ids currently at a location, in AgentOrder,
// found by comparing every live agent's LocationID (so, unlike
// VisibleAgents, the roster includes every occupant). snapshot.Build uses it
// for per-location occupancy.
func (s *Simulation) AgentsAt(loc ents.LocationID) []ents.AgentID {
	var out []ents.AgentID
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if a.LocationID == loc {
			out = append(out, id)
		}
	}
	return out
}
