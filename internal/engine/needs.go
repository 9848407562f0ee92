package engine

import (
	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
)

// InteractionCounters is the process-wide recent-interaction counter keyed by
// agent id, decayed periodically rather than reset. It feeds social_belonging
// together with the ritual schedules' attendance/missed counters, which live
// in social.RitualSchedule.
type InteractionCounters struct {
	Interactions map[ents.AgentID]int
}

// NewInteractionCounters creates an empty counter set.
func NewInteractionCounters() *InteractionCounters {
	return &InteractionCounters{Interactions: make(map[ents.AgentID]int)}
}

// RecordInteraction bumps an agent's recent-interaction counter, called by
// communication and social action execution.
func (c *InteractionCounters) RecordInteraction(agent ents.AgentID) {
	c.Interactions[agent]++
}

// InteractionDecayInterval is the tick interval at which every tracked
// agent's interaction counter is decremented by one.
const InteractionDecayInterval = 100

// Decay decrements every tracked counter by one, floored at zero.
func (c *InteractionCounters) Decay() {
	for id, n := range c.Interactions {
		if n <= 1 {
			delete(c.Interactions, id)
			continue
		}
		c.Interactions[id] = n - 1
	}
}

// UpdateNeeds recomputes food_security and social_belonging for every live
// agent and decays any lingering intoxication. It must run after perception
// has rebuilt VisibleAgents for the tick.
func (s *Simulation) UpdateNeeds(counters *InteractionCounters) {
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		s.updateFoodSecurity(a)
		s.updateSocialBelonging(a, counters)
		if a.Intoxication != nil {
			a.Intoxication.Decay(s.Tick)
			if a.Intoxication.Level == 0 {
				a.Intoxication = nil
			}
		}
	}
}

func (s *Simulation) updateFoodSecurity(a *ents.Agent) {
	f := s.FactionOf(a.ID)
	var effectiveGrain float64
	if f != nil {
		memberCount := f.MemberCount()
		if memberCount < 1 {
			memberCount = 1
		}
		effectiveGrain = float64(f.Resources.Grain) / float64(memberCount) * ents.RoleModifier(a.Membership.Role)
	}

	switch a.Needs.FoodSecurity {
	case ents.FoodSecure:
		if effectiveGrain < 1 {
			a.Needs.FoodSecurity = ents.FoodDesperate
		} else if effectiveGrain < 3 {
			a.Needs.FoodSecurity = ents.FoodStressed
		}
	case ents.FoodStressed:
		if effectiveGrain >= 5 {
			a.Needs.FoodSecurity = ents.FoodSecure
		} else if effectiveGrain < 1 {
			a.Needs.FoodSecurity = ents.FoodDesperate
		}
	case ents.FoodDesperate:
		if effectiveGrain >= 6 {
			a.Needs.FoodSecurity = ents.FoodSecure
		} else if effectiveGrain >= 3.3 {
			a.Needs.FoodSecurity = ents.FoodStressed
		}
	}
}

func (s *Simulation) updateSocialBelonging(a *ents.Agent, counters *InteractionCounters) {
	f := s.FactionOf(a.ID)

	var trustSum float64
	var trustN int
	factionMateVisible := false
	if f != nil {
		for _, mate := range f.Members {
			if mate == a.ID {
				continue
			}
			mateAgent, ok := s.Agents[mate]
			if !ok || !mateAgent.Alive {
				continue
			}
			trustSum += s.Relations.OverallTrust(mate, a.ID)
			trustN++
			for _, v := range a.VisibleAgents {
				if v == mate {
					factionMateVisible = true
				}
			}
		}
	}
	var avgTrust float64
	if trustN > 0 {
		avgTrust = trustSum / float64(trustN)
	}

	interactionBonus := float64(counters.Interactions[a.ID]) / 10.0
	if interactionBonus > 0.3 {
		interactionBonus = 0.3
	}

	rs := s.ritualScheduleForAgent(a)
	ritualBonus := 0.0
	if rs != nil {
		ritualBonus = 0.1 * float64(int64(rs.Attendance[string(a.ID)])-int64(rs.Missed[string(a.ID)]))
	}

	visibleBonus := 0.0
	if factionMateVisible {
		visibleBonus = 0.1
	}

	score := avgTrust + interactionBonus + ritualBonus + visibleBonus

	switch a.Needs.SocialBelonging {
	case ents.BelongingIntegrated:
		if score < 0.1 {
			a.Needs.SocialBelonging = ents.BelongingIsolated
		} else if score < 0.5 {
			a.Needs.SocialBelonging = ents.BelongingPeripheral
		}
	case ents.BelongingPeripheral:
		if score >= 1.0 {
			a.Needs.SocialBelonging = ents.BelongingIntegrated
		} else if score < 0.1 {
			a.Needs.SocialBelonging = ents.BelongingIsolated
		}
	case ents.BelongingIsolated:
		if score >= 1.0 {
			a.Needs.SocialBelonging = ents.BelongingIntegrated
		} else if score >= 0.5 {
			a.Needs.SocialBelonging = ents.BelongingPeripheral
		}
	}
}

func (s *Simulation) ritualScheduleForAgent(a *ents.Agent) *social.RitualSchedule {
	if a.Membership.FactionID == "" {
		return nil
	}
	return s.RitualScheduleFor(a.Membership.FactionID)
}
