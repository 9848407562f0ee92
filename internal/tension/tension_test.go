package tension

import "testing"

func TestUpsertCreatesOnFirstSight(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeBrewingBetrayal, 0.4, 0.8, 10, nil)

	if got := len(s.All()); got != 1 {
		t.Fatalf("All() has %d entries, want 1", got)
	}
	tn := s.Get("t1")
	if tn.DetectedAtTick != 10 || tn.LastUpdatedTick != 10 {
		t.Errorf("DetectedAtTick/LastUpdatedTick = %d/%d, want 10/10", tn.DetectedAtTick, tn.LastUpdatedTick)
	}
	if tn.Status != StatusEmerging {
		t.Errorf("Status = %q, want emerging", tn.Status)
	}
}

// Re-running a detection pass without state change must update the
// tracked tension in place, not create a duplicate.
func TestUpsertReDetectionDoesNotDuplicate(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeSuccessionCrisis, 0.8, 1.0, 5, nil)
	s.Upsert("t1", TypeSuccessionCrisis, 0.8, 1.0, 15, nil)

	if got := len(s.All()); got != 1 {
		t.Fatalf("All() has %d entries after re-detection, want 1", got)
	}
	tn := s.Get("t1")
	if tn.DetectedAtTick != 5 {
		t.Errorf("DetectedAtTick changed to %d on re-detection, want original 5", tn.DetectedAtTick)
	}
	if tn.LastUpdatedTick != 15 {
		t.Errorf("LastUpdatedTick = %d, want 15", tn.LastUpdatedTick)
	}
}

func TestUpsertAppliesBuildCallback(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeRevengeArc, 0.3, 0.5, 1, func(tn *Tension) {
		tn.KeyAgents = []KeyAgent{{AgentID: "m", Role: "avenger"}}
	})
	tn := s.Get("t1")
	if len(tn.KeyAgents) != 1 || tn.KeyAgents[0].AgentID != "m" {
		t.Errorf("KeyAgents = %+v, want [{m avenger}]", tn.KeyAgents)
	}
}

func TestUpdateSeverityClampsToUnitRange(t *testing.T) {
	tn := &Tension{}
	tn.UpdateSeverity(1.5, 1)
	if tn.Severity != 1 {
		t.Errorf("Severity = %v, want clamped to 1", tn.Severity)
	}
	tn.UpdateSeverity(-0.5, 2)
	if tn.Severity != 0 {
		t.Errorf("Severity = %v, want clamped to 0", tn.Severity)
	}
}

func TestUpdateSeverityFromDormantReturnsToEmerging(t *testing.T) {
	tn := &Tension{Status: StatusDormant}
	tn.UpdateSeverity(0.5, 100)
	if tn.Status != StatusEmerging {
		t.Errorf("Status = %q, want emerging after update from dormant", tn.Status)
	}
}

func TestUpdateSeverityDoesNotDisturbNonDormantStatus(t *testing.T) {
	tn := &Tension{Status: StatusCritical}
	tn.UpdateSeverity(0.9, 10)
	if tn.Status != StatusCritical {
		t.Errorf("Status = %q, want unchanged critical", tn.Status)
	}
}

func TestCleanupDemotesStaleToDormant(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeRisingPower, 0.5, 0.5, 0, nil)
	s.Cleanup(DormantAfter)

	if got := s.Get("t1").Status; got != StatusDormant {
		t.Errorf("Status = %q, want dormant after %d idle ticks", got, DormantAfter)
	}
}

func TestCleanupLeavesRecentTensionsAlone(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeRisingPower, 0.5, 0.5, 0, nil)
	s.Cleanup(DormantAfter - 1)

	if got := s.Get("t1").Status; got == StatusDormant {
		t.Error("tension went dormant before reaching the idle threshold")
	}
}

func TestCleanupRemovesResolved(t *testing.T) {
	s := NewStream()
	s.Upsert("t1", TypeSecretExposed, 0.5, 0.5, 0, func(tn *Tension) { tn.Status = StatusResolved })
	s.Cleanup(1)

	if s.Get("t1") != nil {
		t.Error("resolved tension should be removed by Cleanup")
	}
}

func TestAllIsSortedByID(t *testing.T) {
	s := NewStream()
	s.Upsert("z", TypeExternalThreat, 0.1, 0.1, 0, nil)
	s.Upsert("a", TypeExternalThreat, 0.1, 0.1, 0, nil)

	all := s.All()
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "z" {
		t.Errorf("All() = %+v, want sorted [a z]", all)
	}
}
