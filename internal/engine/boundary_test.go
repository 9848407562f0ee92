package engine

import (
	"testing"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
)

// A faction with zero members never emits a ritual event.
func TestZeroMemberFactionRitualSkipped(t *testing.T) {
	s := newTestSim(10)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Empty", "hq")
	s.Factions.Register(f)

	rs := s.RitualScheduleFor(f.ID)
	s.runRitual(f, rs)

	if len(s.Events) != 0 {
		t.Errorf("zero-member faction ritual emitted %d events, want 0", len(s.Events))
	}
}

// TestZeroMemberFactionSuccessionCrisisDetected grounds the same boundary
// behavior's second half: succession crisis still fires for a leaderless,
// memberless faction.
func TestZeroMemberFactionSuccessionCrisisDetected(t *testing.T) {
	s := newTestSim(11)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Empty", "hq")
	s.Factions.Register(f)

	s.detectSuccessionCrisis(f)

	tn := s.Tensions.Get("succession_f1")
	if tn == nil {
		t.Fatal("expected a succession_crisis tension for a leaderless, memberless faction")
	}
}

// An agent with no co-located others generates no communicate candidates,
// even holding a shareable memory.
func TestAgentAloneGeneratesNoCommunicationCandidates(t *testing.T) {
	s := newTestSim(12)
	addLocation(s, "a")
	agent := ents.NewAgent("solo", "Solo", "", "a", ents.Traits{})
	agent.VisibleAgents = nil
	s.AddAgent(agent)
	s.Memories.Add("solo", ents.Memory{ID: "m1", EmotionalWeight: 0.9, Fidelity: 1.0})

	cands := s.generateCommunicate(agent)
	if len(cands) != 0 {
		t.Errorf("generateCommunicate for a lone agent returned %d candidates, want 0", len(cands))
	}
}

// TestExecuteCommunicateMissingTargetAgentDoesNotPanic documents that sharing
// to an agent id with no registered Agent never panics: snapshotActor falls
// back to an "unknown" name rather than indexing a nil entry.
func TestExecuteCommunicateMissingTargetAgentDoesNotPanic(t *testing.T) {
	s := newTestSim(13)
	addLocation(s, "hq")
	a := ents.NewAgent("A", "Alice", "", "hq", ents.Traits{})
	s.AddAgent(a)
	m := ents.Memory{ID: s.Memories.GenerateID(), Fidelity: 1.0, EmotionalWeight: 0.8}
	s.Memories.Add("A", m)
	memID := m.ID

	missing := ents.AgentID("ghost")
	s.shareMemoryTo("A", missing, &memID, false)

	if len(s.Events) != 1 {
		t.Fatalf("emitted %d events, want 1 communication event even for an unresolved listener", len(s.Events))
	}
	if s.Events[0].Secondary == nil || s.Events[0].Secondary.Name != "unknown" {
		t.Errorf("secondary actor = %+v, want an unknown-name snapshot for the unresolved listener", s.Events[0].Secondary)
	}
}
