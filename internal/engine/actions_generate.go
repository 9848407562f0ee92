package engine

import (
	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
)

// GenerateCandidates enumerates every candidate action for a live agent.
// The list always ends with a guaranteed Idle fallback so selection never
// sees an empty menu.
func (s *Simulation) GenerateCandidates(a *ents.Agent) []Candidate {
	var cands []Candidate

	cands = append(cands, s.generateMove(a)...)
	if a.Membership.Role == ents.RoleScoutCaptain {
		cands = append(cands, s.generatePatrol(a)...)
	}
	cands = append(cands, s.generateCommunicate(a)...)
	cands = append(cands, s.generateArchive(a)...)
	cands = append(cands, s.generateResource(a)...)
	cands = append(cands, s.generateSocial(a)...)
	cands = append(cands, s.generateFaction(a)...)
	cands = append(cands, s.generateConflict(a)...)
	cands = append(cands, s.generateBeer(a)...)

	cands = append(cands, Candidate{
		Kind: KindIdle, Sub: SubIdle, Agent: a.ID,
		Weight: 0.2, Reason: "idle fallback",
	})
	return cands
}

func (s *Simulation) generateMove(a *ents.Agent) []Candidate {
	var out []Candidate
	for _, adj := range s.Locations.Adjacent(a.LocationID) {
		dest := adj
		out = append(out, Candidate{
			Kind: KindMove, Sub: SubTravel, Agent: a.ID,
			Weight: 0.1, Reason: "travel to adjacent location",
			TargetLocation: &dest,
		})
	}

	if f := s.FactionOf(a.ID); f != nil && f.HQLocation != "" {
		hq := ents.LocationID(f.HQLocation)
		if step, ok := s.Locations.FirstStepToward(a.LocationID, hq); ok {
			base := 0.1
			switch a.Needs.SocialBelonging {
			case ents.BelongingPeripheral:
				base = 0.3
			case ents.BelongingIsolated:
				base = 0.5
			}
			out = append(out, Candidate{
				Kind: KindMove, Sub: SubReturnHome, Agent: a.ID,
				Weight: base, Reason: "return toward faction HQ",
				TargetLocation: &step,
			})
		}
	}

	out = append(out, Candidate{
		Kind: KindMove, Sub: SubIdle, Agent: a.ID,
		Weight: 0.2, Reason: "stay",
	})
	return out
}

func (s *Simulation) generatePatrol(a *ents.Agent) []Candidate {
	var out []Candidate
	f := s.FactionOf(a.ID)
	for _, adj := range s.Locations.Adjacent(a.LocationID) {
		dest := adj
		weight := 0.15
		if f != nil {
			loc, ok := s.Locations.Get(adj)
			if ok && loc.ControllingFaction != nil && *loc.ControllingFaction == string(f.ID) {
				weight = 0.4
			}
		}
		out = append(out, Candidate{
			Kind: KindPatrol, Sub: SubPatrol, Agent: a.ID,
			Weight: weight, Reason: "patrol adjacent location",
			TargetLocation: &dest,
		})
	}
	return out
}

const shareableEmotionalWeightThreshold = ents.ShareableMinEmotionalWeight

func (s *Simulation) generateCommunicate(a *ents.Agent) []Candidate {
	if len(a.VisibleAgents) == 0 {
		return nil
	}
	mem, ok := s.Memories.MostInteresting(a.ID, s.Tick)
	if !ok {
		return nil
	}
	memID := mem.ID

	var out []Candidate
	if a.Traits.GroupPreference > 0.7 && len(a.VisibleAgents) >= 4 {
		targets := make([]ents.AgentID, len(a.VisibleAgents))
		copy(targets, a.VisibleAgents)
		out = append(out, Candidate{
			Kind: KindCommunicate, Sub: SubGroupShare, Agent: a.ID,
			Weight: 0.4, Reason: "share memory with the group",
			TargetAgents: targets, MemoryID: &memID,
		})
		return out
	}

	for _, listener := range a.VisibleAgents {
		l := listener
		out = append(out, Candidate{
			Kind: KindCommunicate, Sub: SubShareMemory, Agent: a.ID,
			Weight: 0.4, Reason: "share memory individually",
			TargetAgent: &l, MemoryID: &memID,
		})
	}
	return out
}

func canWriteArchive(role ents.Role) bool {
	switch role {
	case ents.RoleLeader, ents.RoleReader, ents.RoleCouncilmember:
		return true
	default:
		return false
	}
}

func (s *Simulation) generateArchive(a *ents.Agent) []Candidate {
	f := s.FactionOf(a.ID)
	if f == nil || string(a.LocationID) != f.HQLocation {
		return nil
	}

	var out []Candidate
	if canWriteArchive(a.Membership.Role) {
		if mem, ok := s.Memories.MostInteresting(a.ID, s.Tick); ok {
			memID := mem.ID
			weight := 0.2
			if mem.EmotionalWeight > 0.7 {
				weight += 0.2
			}
			out = append(out, Candidate{
				Kind: KindArchive, Sub: SubWriteEntry, Agent: a.ID,
				Weight: weight, Reason: "write memory to archive",
				MemoryID: &memID,
			})
		}
	}

	if len(f.Archive) > 0 {
		out = append(out, Candidate{
			Kind: KindArchive, Sub: SubReadArchive, Agent: a.ID,
			Weight: 0.1, Reason: "read faction archive",
		})

		if canWriteArchive(a.Membership.Role) {
			for _, entry := range f.Archive {
				if entry.Author != a.ID {
					continue
				}
				id := entry.ID
				out = append(out, Candidate{
					Kind: KindArchive, Sub: SubDestroyEntry, Agent: a.ID,
					Weight: 0.02, Reason: "destroy a self-authored entry",
					ArchiveEntry: &id,
				})
			}
		}
	}

	if canWriteArchive(a.Membership.Role) && a.Traits.Honesty < 0.4 {
		for _, target := range a.VisibleAgents {
			t := target
			out = append(out, Candidate{
				Kind: KindArchive, Sub: SubForgeEntry, Agent: a.ID,
				Weight: 0.01, Reason: "forge an archive entry implicating a rival",
				TargetAgent: &t,
			})
		}
	}
	return out
}

func (s *Simulation) generateResource(a *ents.Agent) []Candidate {
	f := s.FactionOf(a.ID)
	if f == nil {
		return nil
	}
	var out []Candidate
	out = append(out, Candidate{
		Kind: KindResource, Sub: SubWork, Agent: a.ID,
		Weight: 0.3, Reason: "work faction resources", Amount: 1,
	})

	for _, target := range a.VisibleAgents {
		t := target
		out = append(out, Candidate{
			Kind: KindResource, Sub: SubTrade, Agent: a.ID,
			Weight: 0.1, Reason: "trade with co-located agent",
			TargetAgent: &t,
		})
		if s.Relations.OverallTrust(a.ID, t) < -0.2 {
			out = append(out, Candidate{
				Kind: KindResource, Sub: SubSteal, Agent: a.ID,
				Weight: 0.05, Reason: "steal from a distrusted agent",
				TargetAgent: &t,
			})
		}
	}

	out = append(out, Candidate{
		Kind: KindResource, Sub: SubHoard, Agent: a.ID,
		Weight: 0.05, Reason: "hoard resources", Amount: 1,
	})
	return out
}

func (s *Simulation) generateSocial(a *ents.Agent) []Candidate {
	var out []Candidate
	for _, target := range a.VisibleAgents {
		t := target
		out = append(out, Candidate{
			Kind: KindSocial, Sub: SubBuildTrust, Agent: a.ID,
			Weight: 0.2, Reason: "build trust", TargetAgent: &t,
		})
		out = append(out, Candidate{
			Kind: KindSocial, Sub: SubCurryFavor, Agent: a.ID,
			Weight: 0.1, Reason: "curry favor", TargetAgent: &t,
		})
		out = append(out, Candidate{
			Kind: KindSocial, Sub: SubGift, Agent: a.ID,
			Weight: 0.1, Reason: "give a gift", TargetAgent: &t,
		})
		if s.Relations.OverallTrust(a.ID, t) < -0.1 {
			out = append(out, Candidate{
				Kind: KindSocial, Sub: SubOstracize, Agent: a.ID,
				Weight: 0.1, Reason: "ostracize a distrusted agent", TargetAgent: &t,
			})
		}
		out = append(out, Candidate{
			Kind: KindSocial, Sub: SubLie, Agent: a.ID,
			Weight: 0.1, Reason: "lie to a co-located agent", TargetAgent: &t,
		})
	}
	if a.Traits.Honesty > 0.5 {
		out = append(out, Candidate{
			Kind: KindSocial, Sub: SubConfess, Agent: a.ID,
			Weight: 0.05, Reason: "confess a past lie",
		})
	}
	return out
}

func (s *Simulation) generateFaction(a *ents.Agent) []Candidate {
	f := s.FactionOf(a.ID)
	if f == nil {
		return nil
	}
	var out []Candidate

	if f.Leader != nil && *f.Leader != a.ID {
		if _, hasChallenge := a.HasGoal(ents.GoalChallengeLeader); hasChallenge {
			out = append(out, Candidate{
				Kind: KindFaction, Sub: SubChallengeLeader, Agent: a.ID,
				Weight: 0.1, Reason: "challenge the current leader",
			})
		}
		if _, hasSupport := a.HasGoal(ents.GoalSupportLeader); hasSupport {
			out = append(out, Candidate{
				Kind: KindFaction, Sub: SubSupportLeader, Agent: a.ID,
				Weight: 0.1, Reason: "publicly support the leader",
			})
		}
	}

	if f.Leader != nil && *f.Leader == a.ID {
		for _, m := range f.Members {
			if m == a.ID {
				continue
			}
			if s.Relations.OverallTrust(a.ID, m) < -0.3 {
				target := m
				out = append(out, Candidate{
					Kind: KindFaction, Sub: SubExile, Agent: a.ID,
					Weight: 0.05, Reason: "exile a distrusted member",
					TargetAgent: &target,
				})
			}
		}
	}

	if s.disaffected(a, f) {
		for _, otherID := range s.Factions.All() {
			if otherID == f.ID {
				continue
			}
			other := otherID
			out = append(out, Candidate{
				Kind: KindFaction, Sub: SubDefect, Agent: a.ID,
				Weight: 0.03, Reason: "defect to another faction",
				TargetFaction: &other,
			})
		}
	}
	return out
}

// disaffected reports disaffection with the agent's own faction: overall
// trust toward the leader below a threshold. Defect candidates require it.
func (s *Simulation) disaffected(a *ents.Agent, f *social.Faction) bool {
	if f.Leader == nil || *f.Leader == a.ID {
		return false
	}
	return s.Relations.OverallTrust(a.ID, *f.Leader) < -0.3
}

func (s *Simulation) generateConflict(a *ents.Agent) []Candidate {
	var out []Candidate
	for _, target := range a.VisibleAgents {
		t := target
		trust := s.Relations.OverallTrust(a.ID, t)
		if trust < 0 {
			out = append(out, Candidate{
				Kind: KindConflict, Sub: SubArgue, Agent: a.ID,
				Weight: 0.15, Reason: "argue with a distrusted agent",
				TargetAgent: &t,
			})
		}
		if trust < -0.2 {
			out = append(out, Candidate{
				Kind: KindConflict, Sub: SubFight, Agent: a.ID,
				Weight: 0.05, Reason: "fight a hated agent",
				TargetAgent: &t,
			})
		}
		if trust < -0.4 {
			targetFaction := s.FactionOf(t)
			selfFaction := s.FactionOf(a.ID)
			if targetFaction != nil && selfFaction != nil && targetFaction.ID != selfFaction.ID {
				out = append(out, Candidate{
					Kind: KindConflict, Sub: SubSabotage, Agent: a.ID,
					Weight: 0.02, Reason: "sabotage a rival faction member",
					TargetAgent: &t,
				})
			}
		}
		if _, hasRevenge := a.HasGoal(ents.GoalRevenge); hasRevenge && trust < -0.6 {
			out = append(out, Candidate{
				Kind: KindConflict, Sub: SubAssassinate, Agent: a.ID,
				Weight: 0.01, Reason: "assassinate a revenge target",
				TargetAgent: &t,
			})
		}
	}
	return out
}

func (s *Simulation) generateBeer(a *ents.Agent) []Candidate {
	f := s.FactionOf(a.ID)
	if f == nil {
		return nil
	}
	var out []Candidate
	if string(a.LocationID) == f.HQLocation {
		out = append(out, Candidate{
			Kind: KindBeer, Sub: SubBrew, Agent: a.ID,
			Weight: 0.1, Reason: "brew beer", Amount: 1,
		})
	}
	if f.Resources.Beer > 0 {
		out = append(out, Candidate{
			Kind: KindBeer, Sub: SubDrink, Agent: a.ID,
			Weight: 0.15, Reason: "drink faction beer",
		})
		for _, target := range a.VisibleAgents {
			t := target
			out = append(out, Candidate{
				Kind: KindBeer, Sub: SubShare, Agent: a.ID,
				Weight: 0.1, Reason: "share beer with a co-located agent",
				TargetAgent: &t,
			})
		}
	}
	return out
}
