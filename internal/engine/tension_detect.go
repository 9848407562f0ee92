package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
)

// TensionDetectInterval is how often the detectors run, in ticks.
const TensionDetectInterval = 10

// DetectTensions runs the nine categorical pattern detectors and updates
// the tension stream.
func (s *Simulation) DetectTensions() {
	if s.Tick%TensionDetectInterval != 0 {
		return
	}

	for _, fid := range s.Factions.All() {
		f, ok := s.Factions.Get(fid)
		if !ok {
			continue
		}
		s.detectBrewingBetrayal(f)
		s.detectSuccessionCrisis(f)
		s.detectResourceConflict(f)
		s.detectFactionFracture(f)
	}

	s.detectForbiddenAlliances()
	s.detectRevengeArcs()
	s.detectRisingPower()
	s.detectSecretExposed()
	s.detectExternalThreat()

	s.Tensions.Cleanup(s.Tick)
}

func (s *Simulation) detectBrewingBetrayal(f *social.Faction) {
	if f.Leader == nil {
		return
	}
	leader := *f.Leader
	for _, m := range f.Members {
		if m == leader {
			continue
		}
		agent, ok := s.Agents[m]
		if !ok || !agent.Alive {
			continue
		}
		trust := s.Relations.OverallTrust(m, leader)
		if trust < -0.2 && agent.Traits.Ambition > 0.6 {
			id := fmt.Sprintf("betrayal_%s_vs_%s", m, leader)
			severity := clampf((0.5-trust)*agent.Traits.Ambition, 0.3, 0.8)
			s.Tensions.Upsert(id, tension.TypeBrewingBetrayal, severity, 0.6, s.Tick, func(t *tension.Tension) {
				t.KeyAgents = []tension.KeyAgent{
					{AgentID: string(m), Role: "potential_betrayer", Trajectory: "worsening"},
					{AgentID: string(leader), Role: "target", Trajectory: "stable"},
				}
				t.KeyLocations = []string{string(agent.LocationID)}
			})
		}
	}
}

func (s *Simulation) detectSuccessionCrisis(f *social.Faction) {
	id := fmt.Sprintf("succession_%s", f.ID)
	if f.Leader == nil {
		s.Tensions.Upsert(id, tension.TypeSuccessionCrisis, 0.8, 1.0, s.Tick, func(t *tension.Tension) {
			t.KeyLocations = []string{f.HQLocation}
		})
		return
	}

	leader := *f.Leader
	var sum float64
	var n int
	for _, m := range f.Members {
		if m == leader {
			continue
		}
		agent, ok := s.Agents[m]
		if !ok || !agent.Alive {
			continue
		}
		sum += s.Relations.OverallTrust(m, leader)
		n++
	}
	if n == 0 {
		return
	}
	avg := sum / float64(n)
	if avg < 0.1 {
		deficit := 0.1 - avg
		severity := clampf(0.5+deficit, 0.5, 0.9)
		s.Tensions.Upsert(id, tension.TypeSuccessionCrisis, severity, 0.7, s.Tick, func(t *tension.Tension) {
			t.KeyAgents = []tension.KeyAgent{{AgentID: string(leader), Role: "leader", Trajectory: "worsening"}}
			t.KeyLocations = []string{f.HQLocation}
		})
	}
}

// ResourceCriticalGrain is the configurable grain threshold below which a
// faction's resources are judged critical.
const ResourceCriticalGrain = 100

// ResourceSevereGrain triggers the higher 0.9 severity band.
const ResourceSevereGrain = 50

func (s *Simulation) detectResourceConflict(f *social.Faction) {
	if f.Resources.Grain >= ResourceCriticalGrain {
		return
	}
	severity := 0.6
	if f.Resources.Grain < ResourceSevereGrain {
		severity = 0.9
	}
	id := fmt.Sprintf("resource_%s", f.ID)
	s.Tensions.Upsert(id, tension.TypeResourceConflict, severity, 0.65, s.Tick, func(t *tension.Tension) {
		t.KeyLocations = []string{f.HQLocation}
	})
}

// FractureMinDisgruntled is the minimum count of negative-trust members that
// constitutes a faction fracture.
const FractureMinDisgruntled = 3

func (s *Simulation) detectFactionFracture(f *social.Faction) {
	if f.Leader == nil {
		return
	}
	leader := *f.Leader
	var disgruntled []ents.AgentID
	for _, m := range f.Members {
		if m == leader {
			continue
		}
		if s.Relations.OverallTrust(m, leader) < 0 {
			disgruntled = append(disgruntled, m)
		}
	}
	if len(disgruntled) < FractureMinDisgruntled {
		return
	}
	members := f.MemberCount()
	if members == 0 {
		return
	}
	severity := clampf(float64(len(disgruntled))/float64(members), 0.3, 0.9)
	id := fmt.Sprintf("fracture_%s", f.ID)
	s.Tensions.Upsert(id, tension.TypeFactionFracture, severity, 0.8, s.Tick, func(t *tension.Tension) {
		agents := make([]tension.KeyAgent, 0, len(disgruntled)+1)
		for _, m := range disgruntled {
			agents = append(agents, tension.KeyAgent{AgentID: string(m), Role: "disgruntled_member", Trajectory: "worsening"})
		}
		agents = append(agents, tension.KeyAgent{AgentID: string(leader), Role: "leader", Trajectory: "worsening"})
		t.KeyAgents = agents
		t.KeyLocations = []string{f.HQLocation}
	})
}

// AllianceTrustThreshold is the cross-faction overall-trust threshold that
// marks a forbidden alliance.
const AllianceTrustThreshold = 0.3

func (s *Simulation) detectForbiddenAlliances() {
	for _, from := range s.AgentOrder() {
		a := s.Agents[from]
		for to, rel := range s.Relations.Outgoing(from) {
			b, ok := s.Agents[to]
			if !ok || !b.Alive {
				continue
			}
			if a.Membership.FactionID == "" || b.Membership.FactionID == "" {
				continue
			}
			if a.Membership.FactionID == b.Membership.FactionID {
				continue
			}
			if rel.Trust.Overall() <= AllianceTrustThreshold {
				continue
			}
			pair := [2]ents.AgentID{from, to}
			sort.Slice(pair[:], func(i, j int) bool { return pair[i] < pair[j] })
			id := fmt.Sprintf("alliance_%s_%s", pair[0], pair[1])
			existing := s.Tensions.Get(id)
			severity := 0.4
			if existing != nil {
				severity = clampf(existing.Severity+0.05, 0.4, 0.9)
			}
			s.Tensions.Upsert(id, tension.TypeForbiddenAlliance, severity, 0.6, s.Tick, func(t *tension.Tension) {
				t.KeyAgents = []tension.KeyAgent{
					{AgentID: string(from), Role: "ally", Trajectory: "stable"},
					{AgentID: string(to), Role: "ally", Trajectory: "stable"},
				}
			})
		}
	}
}

func (s *Simulation) detectRevengeArcs() {
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		goal, ok := a.HasGoal(ents.GoalRevenge)
		if !ok || goal.Target == nil {
			continue
		}
		severity := clampf(goal.Priority*a.Traits.GrudgePersistence, 0.4, 0.9)
		tid := fmt.Sprintf("revenge_%s_vs_%s", a.ID, *goal.Target)
		s.Tensions.Upsert(tid, tension.TypeRevengeArc, severity, 0.55, s.Tick, func(t *tension.Tension) {
			t.KeyAgents = []tension.KeyAgent{
				{AgentID: string(a.ID), Role: "avenger", Trajectory: "worsening"},
				{AgentID: string(*goal.Target), Role: "target", Trajectory: "stable"},
			}
		})
	}
}

func (s *Simulation) detectRisingPower() {
	for _, id := range s.AgentOrder() {
		a := s.Agents[id]
		if a.Traits.Ambition <= 0.7 {
			continue
		}
		if _, ok := a.HasGoal(ents.GoalChallengeLeader); !ok {
			continue
		}
		severity := clampf(0.5+(a.Traits.Ambition-0.5), 0.5, 1.0)
		tid := fmt.Sprintf("rising_power_%s", a.ID)
		s.Tensions.Upsert(tid, tension.TypeRisingPower, severity, 0.6, s.Tick, func(t *tension.Tension) {
			t.KeyAgents = []tension.KeyAgent{{AgentID: string(a.ID), Role: "challenger", Trajectory: "worsening"}}
		})
	}
}

func (s *Simulation) detectSecretExposed() {
	bucket := s.Tick / 100
	for _, id := range s.AgentOrder() {
		for _, m := range s.Memories.Get(id) {
			if !m.IsSecret || len(m.SourceChain) == 0 {
				continue
			}
			tid := fmt.Sprintf("secret_%s_%d", m.Subject, bucket)
			s.Tensions.Upsert(tid, tension.TypeSecretExposed, 0.6, 0.8, s.Tick, func(t *tension.Tension) {
				t.KeyAgents = []tension.KeyAgent{{AgentID: string(m.Subject), Role: "exposed", Trajectory: "worsening"}}
			})
		}
	}
}

func (s *Simulation) detectExternalThreat() {
	for _, threat := range s.ActiveThreats {
		tid := fmt.Sprintf("external_threat_%s", threat)
		s.Tensions.Upsert(tid, tension.TypeExternalThreat, 0.7, 1.0, s.Tick, func(t *tension.Tension) {
			t.NarrativeHooks = []string{threat}
		})
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
