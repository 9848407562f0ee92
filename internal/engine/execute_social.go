package engine

import "fmt"

// executeSocial dispatches BuildTrust, CurryFavor, Gift, Ostracize, Lie, and
// Confess.
func (s *Simulation) executeSocial(c Candidate) {
	switch c.Sub {
	case SubBuildTrust:
		s.executeTrustDelta(c, "builds trust with", 0.05, 0.0, 0.0)
	case SubCurryFavor:
		s.executeTrustDelta(c, "curries favor with", 0.0, 0.05, 0.0)
	case SubGift:
		s.executeGift(c)
	case SubOstracize:
		s.executeTrustDelta(c, "ostracizes", 0, -0.1, 0)
	case SubLie:
		s.executeLie(c)
	case SubConfess:
		s.executeConfess(c)
	}
}

func (s *Simulation) executeTrustDelta(c Candidate, verb string, dReliability, dAlignment, dCapability float64) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	rel := s.Relations.Ensure(c.Agent, target.ID)
	before := rel.Trust.Overall()
	if dReliability != 0 {
		rel.Trust.AddReliability(dReliability)
	}
	if dAlignment != 0 {
		rel.Trust.AddAlignment(dAlignment)
	}
	if dCapability != 0 {
		rel.Trust.AddCapability(dCapability)
	}
	rel.LastInteractionTick = s.Tick
	after := rel.Trust.Overall()

	if counters := s.interactionCounters; counters != nil {
		counters.RecordInteraction(c.Agent)
		counters.RecordInteraction(target.ID)
	}

	e := s.Emit(Event{
		Type:    EventCooperation,
		Subtype: string(c.Sub),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s %s %s", a.Name, verb, target.Name)},
		Outcome: EventOutcome{"overall_trust_before": before, "overall_trust_after": after},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	base := 0.1
	if dAlignment < 0 {
		base = 0.2
	}
	e.DramaScore = ScoreDrama(base, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}

// GiftGrainAmount is the fixed grain transfer a Gift action moves from the
// giver's faction stock to the recipient's.
const GiftGrainAmount = 1

func (s *Simulation) executeGift(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	sf := s.FactionOf(c.Agent)
	tf := s.FactionOf(target.ID)
	if sf != nil && tf != nil && sf.ID != tf.ID && sf.Resources.Grain >= GiftGrainAmount {
		sf.Resources.Grain -= GiftGrainAmount
		tf.Resources.Grain += GiftGrainAmount
	}

	rel := s.Relations.Ensure(c.Agent, target.ID)
	rel.Trust.AddAlignment(0.05)
	rel.LastInteractionTick = s.Tick

	e := s.Emit(Event{
		Type:    EventCooperation,
		Subtype: string(SubGift),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s gives a gift to %s", a.Name, target.Name)},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}

// LieReliabilityDamage is applied to the target's trust once a lie is
// eventually exposed; this core applies it immediately to the deceiver's
// standing in the target's eyes as a conservative approximation (the
// original full model defers exposure to a later Confess or investigation).
const LieReliabilityDamage = -0.05

func (s *Simulation) executeLie(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	rel := s.Relations.Ensure(target.ID, c.Agent)
	rel.Trust.AddReliability(LieReliabilityDamage)

	e := s.Emit(Event{
		Type:      EventCooperation,
		Subtype:   string(SubLie),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s lies to %s", a.Name, target.Name)},
		DramaTags: []string{"deception"},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.2, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeConfess(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	e := s.Emit(Event{
		Type:      EventCooperation,
		Subtype:   string(SubConfess),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s confesses a past lie", a.Name)},
		DramaTags: []string{"secret_revealed"},
	})
	e.DramaScore = ScoreDrama(0.35, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}
