package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// executeFaction dispatches Defect, Exile, ChallengeLeader, and
// SupportLeader. Defect and ChallengeLeader are flagged
// critical (drama >= 0.7).
func (s *Simulation) executeFaction(c Candidate) {
	switch c.Sub {
	case SubDefect:
		s.executeDefect(c)
	case SubExile:
		s.executeExile(c)
	case SubChallengeLeader:
		s.executeChallengeLeader(c)
	case SubSupportLeader:
		s.executeSupportLeader(c)
	}
}

func (s *Simulation) executeDefect(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetFaction == nil {
		return
	}
	oldFaction := s.FactionOf(c.Agent)
	newFaction, ok := s.Factions.Get(*c.TargetFaction)
	if !ok {
		return
	}
	if oldFaction != nil {
		oldFaction.RemoveMember(c.Agent)
	}
	newFaction.AddMember(c.Agent)
	a.Membership.FactionID = newFaction.ID
	a.Membership.Role = ents.RoleNewcomer
	a.Membership.Status = ents.StatusNewcomer

	e := s.Emit(Event{
		Type:      EventFaction,
		Subtype:   string(SubDefect),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s defects to %s", a.Name, newFaction.Name)},
		DramaTags: []string{"betrayal", "faction_critical"},
	})
	e.DramaScore = ScoreDrama(0.7, a.Membership.Status, 0, true, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeExile(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || f.Leader == nil || *f.Leader != c.Agent {
		return
	}
	f.RemoveMember(target.ID)
	target.Exile()

	e := s.Emit(Event{
		Type:    EventFaction,
		Subtype: string(SubExile),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s exiles %s from %s", a.Name, target.Name, f.Name)},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.5, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeChallengeLeader(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || f.Leader == nil {
		return
	}
	leader := *f.Leader
	challengerBoldness := a.Traits.Boldness
	var leaderBoldness float64
	if leaderAgent, ok := s.Agents[leader]; ok {
		leaderBoldness = leaderAgent.Traits.Boldness
	}
	win := s.RNG.Float64() < (0.5 + 0.2*(challengerBoldness-leaderBoldness))
	if win {
		f.Leader = &c.Agent
		a.Membership.Role = ents.RoleLeader
		a.Promote()
		if leaderAgent, ok := s.Agents[leader]; ok {
			leaderAgent.Membership.Role = ents.RoleCouncilmember
			leaderAgent.Demote()
		}
	}

	e := s.Emit(Event{
		Type:      EventFaction,
		Subtype:   string(SubChallengeLeader),
		Primary:   s.snapshotActor(c.Agent),
		Context:   EventContext{Trigger: fmt.Sprintf("%s challenges %s for leadership of %s", a.Name, leader, f.Name)},
		Outcome:   EventOutcome{"challenger_won": win},
		DramaTags: []string{"faction_critical"},
	})
	e.DramaScore = ScoreDrama(0.75, a.Membership.Status, ents.StatusLeader, false, false, false)
	s.Events[len(s.Events)-1] = e
}

func (s *Simulation) executeSupportLeader(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || f.Leader == nil {
		return
	}
	rel := s.Relations.Ensure(c.Agent, *f.Leader)
	rel.Trust.AddAlignment(0.05)
	rel.LastInteractionTick = s.Tick

	e := s.Emit(Event{
		Type:    EventFaction,
		Subtype: string(SubSupportLeader),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s publicly supports the leader of %s", a.Name, f.Name)},
	})
	e.DramaScore = ScoreDrama(0.2, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}
