package engine

import "github.com/talgya/crossroads/internal/social"

// Execute dispatches a chosen candidate to its action-kind handler.
// Unknown or Idle kinds are a deliberate no-op.
func (s *Simulation) Execute(c Candidate) {
	switch c.Kind {
	case KindMove, KindPatrol:
		s.executeMovement(c)
	case KindCommunicate:
		s.executeCommunicate(c)
	case KindArchive:
		s.executeArchive(c)
	case KindResource:
		s.executeResource(c)
	case KindSocial:
		s.executeSocial(c)
	case KindFaction:
		s.executeFaction(c)
	case KindConflict:
		s.executeConflict(c)
	case KindBeer:
		s.executeBeer(c)
	case KindIdle:
		// no-op
	}
}

// Step runs one full tick of the pipeline in fixed order: perception,
// needs, per-agent action selection and execution, trust processing,
// grudge decay, ritual, tension detection, season advance. Agents are
// visited in AgentOrder so the tick is reproducible regardless of map
// iteration order.
func (s *Simulation) Step() {
	s.UpdatePerception()
	s.UpdateNeeds(s.interactionCounters)

	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if !a.Alive {
			continue
		}
		cands := s.GenerateCandidates(a)
		s.ApplyTraitWeights(a, cands)
		s.ApplyNoise(cands)
		chosen := s.Select(cands)
		s.Execute(chosen)
	}

	s.ProcessTrustEvents()
	s.GrudgeDecay()
	s.RunRituals()
	s.DetectTensions()
	s.AdvanceSeasonIfDue()

	if s.Tick > 0 && s.Tick%InteractionDecayInterval == 0 {
		s.interactionCounters.Decay()
	}
	if s.Tick > 0 && s.Tick%social.RitualAttendanceDecayInterval == 0 {
		for _, fid := range s.Factions.All() {
			s.RitualScheduleFor(fid).DecayCounters()
		}
	}

	s.Tick++
}
