package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// executeConflict dispatches Argue, Fight, Sabotage, and Assassinate.
func (s *Simulation) executeConflict(c Candidate) {
	switch c.Sub {
	case SubArgue:
		s.executeArgue(c)
	case SubFight:
		s.executeFight(c)
	case SubSabotage:
		s.executeSabotage(c)
	case SubAssassinate:
		s.executeAssassinate(c)
	}
}

// ArgueAlignmentDamage is the small alignment decrement an argument
// inflicts.
const ArgueAlignmentDamage = -0.05

// ArgueResolveProbability is the small chance an argument resolves the
// underlying conflict rather than deepening it.
const ArgueResolveProbability = 0.2

func (s *Simulation) executeArgue(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	rel := s.Relations.Ensure(c.Agent, target.ID)
	rel.Trust.AddAlignment(ArgueAlignmentDamage)
	rel.LastInteractionTick = s.Tick

	resolved := s.RNG.Float64() < ArgueResolveProbability
	if resolved {
		rel.Trust.AddAlignment(-ArgueAlignmentDamage * 2)
	}

	e := s.Emit(Event{
		Type:    EventConflict,
		Subtype: string(SubArgue),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s argues with %s", a.Name, target.Name)},
		Outcome: EventOutcome{"resolved": resolved},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.2, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}

// FightReliabilityDamage and FightAlignmentDamage are the heavy trust hits a
// fight inflicts on both participants' mutual standing.
const (
	FightReliabilityDamage = -0.2
	FightAlignmentDamage   = -0.25
)

func (s *Simulation) executeFight(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}

	forward := s.Relations.Ensure(c.Agent, target.ID)
	forward.Trust.AddReliability(FightReliabilityDamage)
	forward.Trust.AddAlignment(FightAlignmentDamage)
	backward := s.Relations.Ensure(target.ID, c.Agent)
	backward.Trust.AddReliability(FightReliabilityDamage)
	backward.Trust.AddAlignment(FightAlignmentDamage)

	winProb := 0.5 + 0.3*(a.Traits.Boldness-target.Traits.Boldness)
	actorSuccess := s.RNG.Float64() < winProb

	e := s.Emit(Event{
		Type:      EventConflict,
		Subtype:   string(SubFight),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s fights %s", a.Name, target.Name)},
		Outcome:   EventOutcome{"actor_success": actorSuccess},
		DramaTags: []string{"violence"},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.6, a.Membership.Status, target.Membership.Status, s.crossFaction(c.Agent, target.ID), false, false)
	s.Events[len(s.Events)-1] = e
}

// SabotageDetectionProbability is the fixed chance a sabotage attempt is
// detected.
const SabotageDetectionProbability = 0.4

// SabotageReliabilityDamage is the heavy reliability hit applied once a
// sabotage attempt is detected.
const SabotageReliabilityDamage = -0.3

func (s *Simulation) executeSabotage(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	detected := s.RNG.Float64() < SabotageDetectionProbability
	if detected {
		rel := s.Relations.Ensure(target.ID, c.Agent)
		rel.Trust.AddReliability(SabotageReliabilityDamage)
	}

	e := s.Emit(Event{
		Type:      EventConflict,
		Subtype:   string(SubSabotage),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s sabotages %s", a.Name, target.Name)},
		Outcome:   EventOutcome{"detected": detected},
		DramaTags: []string{"sabotage"},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.5, a.Membership.Status, target.Membership.Status, s.crossFaction(c.Agent, target.ID), false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeAssassinate(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}

	winProb := 0.3 + 0.3*a.Traits.Boldness
	succeeded := s.RNG.Float64() < winProb
	if succeeded {
		target.Kill()
		s.MarkOrderDirty()
		if f := s.FactionOf(target.ID); f != nil {
			f.RemoveMember(target.ID)
		}
	}

	e := s.Emit(Event{
		Type:      EventConflict,
		Subtype:   string(SubAssassinate),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s attempts to assassinate %s", a.Name, target.Name)},
		Outcome:   EventOutcome{"succeeded": succeeded},
		DramaTags: []string{"violence", "assassination"},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.9, a.Membership.Status, target.Membership.Status, s.crossFaction(c.Agent, target.ID), false, false)
	s.Events[len(s.Events)-1] = e

	if succeeded {
		deathEvent := s.Emit(Event{
			Type:    EventDeath,
			Subtype: "assassinated",
			Primary: s.snapshotActor(target.ID),
			Context: EventContext{Trigger: fmt.Sprintf("%s dies, assassinated by %s", target.Name, a.Name)},
		})
		deathEvent.DramaScore = ScoreDrama(0.9, target.Membership.Status, a.Membership.Status, false, false, true)
		deathEvent.Connected = []ents.EventID{e.ID}
		s.Events[len(s.Events)-1] = deathEvent
	}
}

// crossFaction reports whether two agents belong to different factions,
// used by drama scoring's cross-faction multiplier.
func (s *Simulation) crossFaction(a, b ents.AgentID) bool {
	fa := s.FactionOf(a)
	fb := s.FactionOf(b)
	if fa == nil || fb == nil {
		return false
	}
	return fa.ID != fb.ID
}
