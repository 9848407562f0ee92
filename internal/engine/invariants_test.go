package engine

import (
	"testing"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
)

// |delta| must stay <= 0.045 for every valence/trust/fidelity combination.
func TestSecondhandTrustDeltaBoundAcrossValences(t *testing.T) {
	valences := []ents.Valence{ents.ValencePositive, ents.ValenceNeutral, ents.ValenceNegative}
	trusts := []float64{-1, -0.5, 0, 0.5, 1}
	fidelities := []float64{0, 0.25, 0.5, 0.75, 1}

	for _, v := range valences {
		for _, tr := range trusts {
			for _, fid := range fidelities {
				delta := ents.SecondhandTrustDelta(v, tr, fid)
				if delta > 0.045 || delta < -0.045 {
					t.Errorf("SecondhandTrustDelta(%v, %v, %v) = %v, want |delta| <= 0.045", v, tr, fid, delta)
				}
			}
		}
	}
}

// |weight_after_noise - weight_after_traits| must stay within
// 0.2*weight_after_traits, plus the 0.01 floor.
func TestWeightAfterNoiseBound(t *testing.T) {
	s := newTestSim(20)
	before := []float64{0.1, 0.2, 0.5, 1.0, 5.0}
	cands := make([]Candidate, len(before))
	for i, w := range before {
		cands[i] = Candidate{Weight: w}
	}
	s.ApplyNoise(cands)

	for i, c := range cands {
		w0 := before[i]
		diff := c.Weight - w0
		if diff < 0 {
			diff = -diff
		}
		bound := 0.2*w0 + 0.01
		if diff > bound+1e-9 {
			t.Errorf("weight %v -> %v, diff %v exceeds bound %v", w0, c.Weight, diff, bound)
		}
	}
}

// Tension severity is clamped to [0, 1] no matter what a detector feeds it.
func TestTensionSeverityAlwaysInUnitRange(t *testing.T) {
	inputs := []float64{-5, -1, -0.001, 0, 0.5, 1, 1.001, 5}
	for _, sev := range inputs {
		tn := &tension.Tension{}
		tn.UpdateSeverity(sev, 1)
		if tn.Severity < 0 || tn.Severity > 1 {
			t.Errorf("UpdateSeverity(%v) produced severity %v, out of [0,1]", sev, tn.Severity)
		}
	}
}

func TestDramaScoreAlwaysInUnitRange(t *testing.T) {
	bases := []float64{-1, 0, 0.1, 0.3, 1, 5}
	statuses := []ents.StatusLevel{ents.StatusNewcomer, ents.StatusLaborer, ents.StatusCouncilMember, ents.StatusLeader}
	for _, base := range bases {
		for _, p := range statuses {
			for _, sec := range statuses {
				for _, cross := range []bool{false, true} {
					for _, winter := range []bool{false, true} {
						for _, chained := range []bool{false, true} {
							score := ScoreDrama(base, p, sec, cross, winter, chained)
							if score < 0 || score > 1 {
								t.Fatalf("ScoreDrama(%v,...) = %v, out of [0,1]", base, score)
							}
						}
					}
				}
			}
		}
	}
}

// Pipeline iteration order is always sorted and excludes dead agents.
func TestAgentOrderIsSortedAndLivingOnly(t *testing.T) {
	s := newTestSim(30)
	addLocation(s, "a")
	s.AddAgent(ents.NewAgent("z", "Z", "", "a", ents.Traits{}))
	s.AddAgent(ents.NewAgent("a", "A", "", "a", ents.Traits{}))
	dead := ents.NewAgent("m", "M", "", "a", ents.Traits{})
	dead.Kill()
	s.AddAgent(dead)

	order := s.AgentOrder()
	if len(order) != 2 || order[0] != "a" || order[1] != "z" {
		t.Errorf("AgentOrder() = %v, want sorted living-only [a z]", order)
	}
}

// Two simulations built identically with the same seed must produce the
// same event count and tick after N steps.
func TestRepeatedStepsAreDeterministicGivenSameSeed(t *testing.T) {
	build := func() *Simulation {
		s := newTestSim(42)
		addLocation(s, "a")
		addLocation(s, "b")
		s.Locations.Connect("a", "b")
		s.AddAgent(ents.NewAgent("1", "One", "", "a", ents.Traits{Boldness: 0.5, Sociability: 0.5}))
		s.AddAgent(ents.NewAgent("2", "Two", "", "b", ents.Traits{Boldness: 0.5, Sociability: 0.5}))
		return s
	}

	s1 := build()
	s2 := build()
	for i := 0; i < 20; i++ {
		s1.Step()
		s2.Step()
	}

	if s1.Tick != s2.Tick {
		t.Fatalf("tick diverged: %d vs %d", s1.Tick, s2.Tick)
	}
	if len(s1.Events) != len(s2.Events) {
		t.Fatalf("event count diverged: %d vs %d", len(s1.Events), len(s2.Events))
	}
	for i := range s1.Events {
		if s1.Events[i].Type != s2.Events[i].Type || s1.Events[i].Subtype != s2.Events[i].Subtype {
			t.Fatalf("event %d diverged: %+v vs %+v", i, s1.Events[i], s2.Events[i])
		}
	}
}

// A tension's last_updated_tick can never run ahead of the simulation
// clock.
func TestLastUpdatedTickNeverExceedsCurrentTick(t *testing.T) {
	s := newTestSim(40)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Ashford", "hq")
	s.Factions.Register(f)
	s.AddAgent(ents.NewAgent("m1", "M1", f.ID, "hq", ents.Traits{}))
	f.Members = []ents.AgentID{"m1"}

	for i := 0; i < 3; i++ {
		s.Tick = uint64(i) * TensionDetectInterval
		s.DetectTensions()
	}

	for _, tn := range s.Tensions.All() {
		if tn.LastUpdatedTick > s.Tick {
			t.Errorf("tension %s has last_updated_tick %d > current tick %d", tn.ID, tn.LastUpdatedTick, s.Tick)
		}
	}
}
