package engine

import "fmt"

// executeResource dispatches Work, Trade, Steal, and Hoard.
func (s *Simulation) executeResource(c Candidate) {
	switch c.Sub {
	case SubWork:
		s.executeWork(c)
	case SubTrade:
		s.executeTrade(c)
	case SubSteal:
		s.executeSteal(c)
	case SubHoard:
		s.executeHoard(c)
	}
}

// WorkGrainPerUnit is the base grain produced per unit of labor before the
// season modifier.
const WorkGrainPerUnit = 2

func (s *Simulation) executeWork(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil {
		return
	}
	amount := c.Amount
	if amount == 0 {
		amount = 1
	}
	produced := uint64(float64(amount*WorkGrainPerUnit) * s.Season.ProductionModifier())
	f.Resources.Grain += produced

	e := s.Emit(Event{
		Type:    EventResource,
		Subtype: string(SubWork),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s works the %s land", a.Name, f.Name)},
		Outcome: EventOutcome{"grain_produced": produced, "season": s.Season.String()},
	})
	e.DramaScore = ScoreDrama(0.05, a.Membership.Status, 0, false, s.Season == SeasonWinter, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeTrade(c Candidate) {
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
	if sf == nil || tf == nil {
		return
	}
	const tradeAmount = 1
	if sf.Resources.Iron < tradeAmount || tf.Resources.Grain < tradeAmount {
		return
	}
	sf.Resources.Iron -= tradeAmount
	tf.Resources.Grain -= tradeAmount
	sf.Resources.Grain += tradeAmount
	tf.Resources.Iron += tradeAmount

	rel := s.Relations.Ensure(c.Agent, target.ID)
	rel.Trust.AddReliability(0.03)
	rel.LastInteractionTick = s.Tick

	e := s.Emit(Event{
		Type:    EventResource,
		Subtype: string(SubTrade),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s trades with %s", a.Name, target.Name)},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, target.Membership.Status, sf.ID != tf.ID, false, false)
	s.Events[len(s.Events)-1] = e
}

// StealDamage is the relationship hit applied to the victim's trust in the
// thief when a theft is carried out.
const StealDamage = -0.2

func (s *Simulation) executeSteal(c Candidate) {
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
	if sf == nil || tf == nil || sf.ID == tf.ID {
		return
	}
	const stealAmount = 1
	if tf.Resources.Grain < stealAmount {
		return
	}
	tf.Resources.Grain -= stealAmount
	sf.Resources.Grain += stealAmount

	rel := s.Relations.Ensure(target.ID, c.Agent)
	rel.Trust.AddReliability(StealDamage)
	rel.LastInteractionTick = s.Tick

	e := s.Emit(Event{
		Type:      EventResource,
		Subtype:   string(SubSteal),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s steals from %s", a.Name, target.Name)},
		DramaTags: []string{"theft"},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.3, a.Membership.Status, target.Membership.Status, true, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeHoard(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil {
		return
	}
	e := s.Emit(Event{
		Type:    EventResource,
		Subtype: string(SubHoard),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s hoards resources for themselves", a.Name)},
	})
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}
