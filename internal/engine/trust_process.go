package engine

import "github.com/talgya/crossroads/internal/ents"

// QueueTrustEvent enqueues a deferred trust mutation, drained at the
// trust-processing pipeline point. Trust deltas that cross ownership
// boundaries always defer through this queue so a single consumer applies
// them.
func (s *Simulation) QueueTrustEvent(e ents.TrustEvent) {
	s.trustQueue = append(s.trustQueue, e)
}

// ProcessTrustEvents drains the queued trust deltas in FIFO order, applying
// each to the relevant relationship and clamping.
func (s *Simulation) ProcessTrustEvents() {
	for _, e := range s.trustQueue {
		rel := s.Relations.Ensure(e.From, e.To)
		switch e.Dimension {
		case ents.DimReliability:
			rel.Trust.AddReliability(e.Delta)
		case ents.DimAlignment:
			rel.Trust.AddAlignment(e.Delta)
		case ents.DimCapability:
			rel.Trust.AddCapability(e.Delta)
		}
		rel.LastInteractionTick = e.Tick
	}
	s.trustQueue = s.trustQueue[:0]
}

// GrudgeDecayFraction is the per-tick fraction of a negative
// relationship's distance to zero it recovers, scaled by the holder's
// (1 - grudge_persistence). A forgiving agent lets grudges fade; a
// persistent one barely does.
const GrudgeDecayFraction = 0.01

// GrudgeDecay shrinks every negative outgoing relationship toward zero,
// scaled by the holder's (1 - grudge_persistence).
func (s *Simulation) GrudgeDecay() {
	for _, id := range s.AgentOrder() {
		holder := s.Agents[id]
		rate := GrudgeDecayFraction * (1 - holder.Traits.GrudgePersistence)
		if rate <= 0 {
			continue
		}
		for _, rel := range s.Relations.Outgoing(id) {
			if rel.Trust.Reliability < 0 {
				rel.Trust.Reliability += -rel.Trust.Reliability * rate
			}
			if rel.Trust.Alignment < 0 {
				rel.Trust.Alignment += -rel.Trust.Alignment * rate
			}
			if rel.Trust.Capability < 0 {
				rel.Trust.Capability += -rel.Trust.Capability * rate
			}
			rel.Trust.Clamp()
		}
	}
}
