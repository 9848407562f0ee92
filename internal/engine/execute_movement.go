package engine

import "fmt"

// executeMovement handles Travel, ReturnHome, and Patrol: set the agent's
// location, emit a low-drama Movement event.
func (s *Simulation) executeMovement(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetLocation == nil {
		return
	}
	dest := *c.TargetLocation
	if _, ok := s.Locations.Get(dest); !ok {
		return
	}

	a.LocationID = dest
	s.MarkOrderDirty()

	e := s.Emit(Event{
		Type:    EventMovement,
		Subtype: string(c.Sub),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s travels to %s", a.Name, dest)},
		Outcome: EventOutcome{"travel_duration_ticks": 1, "destination": dest},
	})
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}
