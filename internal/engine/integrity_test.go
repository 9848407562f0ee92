package engine

import (
	"errors"
	"testing"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
)

// A consistent world passes the check in both modes without touching state.
func TestCheckIntegrityCleanWorld(t *testing.T) {
	s := newTestSim(7)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Ashford", "hq")
	s.Factions.Register(f)
	a := ents.NewAgent("a1", "Alice", "f1", "hq", ents.Traits{Boldness: 0.5})
	s.AddAgent(a)
	f.AddMember(a.ID)

	if err := s.CheckIntegrity(IntegrityStrict); err != nil {
		t.Fatalf("strict check on a clean world: %v", err)
	}
	if err := s.CheckIntegrity(IntegrityLenient); err != nil {
		t.Fatalf("lenient check on a clean world: %v", err)
	}
}

// A roster that disagrees with live membership fails strict mode and is
// rebuilt by lenient mode.
func TestCheckIntegrityRosterMismatch(t *testing.T) {
	s := newTestSim(7)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Ashford", "hq")
	s.Factions.Register(f)
	a := ents.NewAgent("a1", "Alice", "f1", "hq", ents.Traits{})
	s.AddAgent(a)
	f.AddMember(a.ID)
	f.AddMember("ghost") // stale roster entry with no live agent behind it

	err := s.CheckIntegrity(IntegrityStrict)
	if err == nil {
		t.Fatal("strict check passed a roster/membership mismatch")
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("error type = %T, want *IntegrityError", err)
	}

	if err := s.CheckIntegrity(IntegrityLenient); err != nil {
		t.Fatalf("lenient check: %v", err)
	}
	if len(f.Members) != 1 || f.Members[0] != a.ID {
		t.Errorf("lenient repair left roster %v, want [a1]", f.Members)
	}
}

// A dangling leader seat fails strict mode and is cleared by lenient mode.
func TestCheckIntegrityDanglingLeader(t *testing.T) {
	s := newTestSim(7)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Ashford", "hq")
	s.Factions.Register(f)
	a := ents.NewAgent("a1", "Alice", "f1", "hq", ents.Traits{})
	s.AddAgent(a)
	f.AddMember(a.ID)
	gone := ents.AgentID("gone")
	f.Leader = &gone

	if err := s.CheckIntegrity(IntegrityStrict); err == nil {
		t.Fatal("strict check passed a dangling leader reference")
	}
	if err := s.CheckIntegrity(IntegrityLenient); err != nil {
		t.Fatalf("lenient check: %v", err)
	}
	if f.Leader != nil {
		t.Errorf("lenient repair left leader %v, want nil", *f.Leader)
	}
}

// Out-of-range traits are flagged in strict mode and clamped in lenient.
func TestCheckIntegrityTraitRange(t *testing.T) {
	s := newTestSim(7)
	addLocation(s, "hq")
	f := social.NewFaction("f1", "Ashford", "hq")
	s.Factions.Register(f)
	a := ents.NewAgent("a1", "Alice", "f1", "hq", ents.Traits{})
	s.AddAgent(a)
	f.AddMember(a.ID)
	a.Traits.Ambition = 1.7 // bypasses the clamped mutators

	if err := s.CheckIntegrity(IntegrityStrict); err == nil {
		t.Fatal("strict check passed an out-of-range trait")
	}
	if err := s.CheckIntegrity(IntegrityLenient); err != nil {
		t.Fatalf("lenient check: %v", err)
	}
	if a.Traits.Ambition != 1.0 {
		t.Errorf("lenient repair left ambition %v, want 1.0", a.Traits.Ambition)
	}
}
