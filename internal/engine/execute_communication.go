package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// executeCommunicate dispatches ShareMemory (individual) and Group share.
func (s *Simulation) executeCommunicate(c Candidate) {
	switch c.Sub {
	case SubShareMemory:
		if c.TargetAgent != nil {
			s.shareMemoryTo(c.Agent, *c.TargetAgent, c.MemoryID, false)
		}
	case SubGroupShare:
		for _, target := range c.TargetAgents {
			s.shareMemoryTo(c.Agent, target, c.MemoryID, true)
		}
	}
}

func (s *Simulation) shareMemoryTo(sharer, listener ents.AgentID, memID *ents.MemoryID, group bool) {
	if memID == nil {
		return
	}
	var original *ents.Memory
	for _, m := range s.Memories.Get(sharer) {
		if m.ID == *memID {
			mm := m
			original = &mm
			break
		}
	}
	if original == nil {
		return
	}

	sharerAgent, ok := s.Agents[sharer]
	if !ok {
		return
	}
	snapshot := ents.MemorySource{AgentID: sharer, Name: sharerAgent.Name}

	newID := s.Memories.GenerateID()
	shared := original.Share(newID, snapshot, s.Tick, group)
	s.Memories.Add(listener, shared)

	// Listener's trust-reliability toward sharer rises a small, fixed
	// amount for the act of sharing. Deferred to the trust-processing
	// phase rather than applied here, since it crosses the sharer/listener
	// relationship owned by that later phase.
	s.QueueTrustEvent(ents.TrustEvent{
		From: listener, To: sharer, Dimension: ents.DimReliability,
		Delta: 0.02, Tick: s.Tick, Kind: ents.TrustEventDirect,
	})

	if original.Subject != listener && original.Subject != sharer {
		listenerTrustInSharer := s.Relations.OverallTrust(listener, sharer)
		delta := ents.SecondhandTrustDelta(original.Valence, listenerTrustInSharer, shared.Fidelity)
		s.QueueTrustEvent(ents.TrustEvent{
			From: listener, To: original.Subject, Dimension: ents.DimAlignment,
			Delta: delta, Tick: s.Tick, Kind: ents.TrustEventSecondhand,
		})
	}

	if counters := s.interactionCounters; counters != nil {
		counters.RecordInteraction(sharer)
		counters.RecordInteraction(listener)
	}

	e := s.Emit(Event{
		Type:    EventCommunication,
		Subtype: string(shareSubtype(group)),
		Primary: s.snapshotActor(sharer),
		Context: EventContext{Trigger: fmt.Sprintf("%s shared a memory with %s", sharerAgent.Name, listener)},
	})
	second := s.snapshotActor(listener)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.2, 0, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func shareSubtype(group bool) Sub {
	if group {
		return SubGroupShare
	}
	return SubShareMemory
}
