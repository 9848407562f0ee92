package intervene

import (
	"testing"

	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

func newTestSim() *engine.Simulation {
	s := engine.NewSimulation(1)
	s.Locations.Register(&world.Location{ID: "hq", Properties: make(map[world.Property]bool)})
	return s
}

func float64ptr(v float64) *float64 { return &v }

func TestApplyModifyAgentAdjustsAndClampsTraits(t *testing.T) {
	s := newTestSim()
	a := ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{Boldness: 0.9})
	s.AddAgent(a)
	agentID := ents.AgentID("a1")

	err := Apply(s, Intervention{
		Type:    TypeModifyAgent,
		AgentID: &agentID,
		Traits:  map[string]float64{"boldness": 0.5, "honesty": -2.0},
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if s.Agents["a1"].Traits.Boldness != 1.0 {
		t.Errorf("Boldness = %v, want clamped to 1.0", s.Agents["a1"].Traits.Boldness)
	}
	if s.Agents["a1"].Traits.Honesty != 0 {
		t.Errorf("Honesty = %v, want clamped to 0", s.Agents["a1"].Traits.Honesty)
	}
}

// Applying an all-zero trait overlay leaves every trait untouched.
func TestApplyModifyAgentIdentityIsNoop(t *testing.T) {
	s := newTestSim()
	a := ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{Boldness: 0.3, Honesty: 0.8})
	s.AddAgent(a)
	before := a.Traits
	agentID := ents.AgentID("a1")

	err := Apply(s, Intervention{
		Type:    TypeModifyAgent,
		AgentID: &agentID,
		Traits:  map[string]float64{"boldness": 0, "honesty": 0},
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if a.Traits != before {
		t.Errorf("identity modification changed traits: %+v -> %+v", before, a.Traits)
	}
}

func TestApplyModifyAgentMissingAgentIsRejected(t *testing.T) {
	s := newTestSim()
	missing := ents.AgentID("ghost")
	err := Apply(s, Intervention{Type: TypeModifyAgent, AgentID: &missing})
	if err == nil {
		t.Fatal("expected an error for a missing agent_id reference")
	}
}

func TestApplyModifyFactionClampsResourcesAtZero(t *testing.T) {
	s := newTestSim()
	f := social.NewFaction("f1", "Ashford", "hq")
	f.Resources.Grain = 5
	s.Factions.Register(f)
	fid := ents.FactionID("f1")

	err := Apply(s, Intervention{
		Type:      TypeModifyFaction,
		FactionID: &fid,
		Resources: map[string]int64{"grain": -100, "iron": 10},
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if f.Resources.Grain != 0 {
		t.Errorf("Grain = %d, want clamped to 0 (never negative)", f.Resources.Grain)
	}
	if f.Resources.Iron != 10 {
		t.Errorf("Iron = %d, want 10", f.Resources.Iron)
	}
}

func TestApplyModifyRelationshipRejectsUnknownAgents(t *testing.T) {
	s := newTestSim()
	a := ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{})
	s.AddAgent(a)
	known := ents.AgentID("a1")
	missing := ents.AgentID("ghost")

	err := Apply(s, Intervention{
		Type:        TypeModifyRelationship,
		FromAgentID: &known,
		ToAgentID:   &missing,
		Reliability: float64ptr(0.5),
	})
	if err == nil {
		t.Fatal("expected an error when to_agent_id does not resolve")
	}
}

func TestApplyModifyRelationshipSetsAndClampsTrust(t *testing.T) {
	s := newTestSim()
	s.AddAgent(ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{}))
	s.AddAgent(ents.NewAgent("a2", "Bob", "", "hq", ents.Traits{}))
	from, to := ents.AgentID("a1"), ents.AgentID("a2")

	err := Apply(s, Intervention{
		Type:        TypeModifyRelationship,
		FromAgentID: &from,
		ToAgentID:   &to,
		Reliability: float64ptr(5.0),
		Alignment:   float64ptr(-0.4),
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	rel := s.Relations.Get(from, to)
	if rel.Trust.Reliability != 1.0 {
		t.Errorf("Reliability = %v, want clamped to 1.0", rel.Trust.Reliability)
	}
	if rel.Trust.Alignment != -0.4 {
		t.Errorf("Alignment = %v, want -0.4", rel.Trust.Alignment)
	}
}

func TestApplyMoveAgentRejectsUnknownLocation(t *testing.T) {
	s := newTestSim()
	s.AddAgent(ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{}))
	agentID := ents.AgentID("a1")
	badLoc := ents.LocationID("nowhere")

	err := Apply(s, Intervention{Type: TypeMoveAgent, AgentID: &agentID, LocationID: &badLoc})
	if err == nil {
		t.Fatal("expected an error for an unresolvable location_id")
	}
	if s.Agents["a1"].LocationID != "hq" {
		t.Error("agent location must be unchanged after a rejected move")
	}
}

func TestApplyMoveAgentSucceeds(t *testing.T) {
	s := newTestSim()
	s.Locations.Register(&world.Location{ID: "market", Properties: make(map[world.Property]bool)})
	s.AddAgent(ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{}))
	agentID := ents.AgentID("a1")
	dest := ents.LocationID("market")

	if err := Apply(s, Intervention{Type: TypeMoveAgent, AgentID: &agentID, LocationID: &dest}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if s.Agents["a1"].LocationID != "market" {
		t.Errorf("LocationID = %q, want market", s.Agents["a1"].LocationID)
	}
}

func TestApplyChangeFactionMovesMembershipAndResetsStatus(t *testing.T) {
	s := newTestSim()
	oldFaction := social.NewFaction("old", "Old", "hq")
	newFaction := social.NewFaction("new", "New", "hq")
	s.Factions.Register(oldFaction)
	s.Factions.Register(newFaction)

	a := ents.NewAgent("a1", "Alice", oldFaction.ID, "hq", ents.Traits{})
	a.Membership.Status = ents.StatusCouncilMember
	a.Membership.Role = ents.RoleCouncilmember
	s.AddAgent(a)
	oldFaction.AddMember(a.ID)

	agentID := ents.AgentID("a1")
	newID := ents.FactionID("new")
	if err := Apply(s, Intervention{Type: TypeChangeFaction, AgentID: &agentID, NewFactionID: &newID}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if oldFaction.HasMember(a.ID) {
		t.Error("agent should be removed from the old faction")
	}
	if !newFaction.HasMember(a.ID) {
		t.Error("agent should be added to the new faction")
	}
	if a.Membership.Status != ents.StatusNewcomer || a.Membership.Role != ents.RoleNewcomer {
		t.Errorf("status/role = %v/%v, want reset to newcomer", a.Membership.Status, a.Membership.Role)
	}
}

func TestApplyAddGoalDefaultsPriority(t *testing.T) {
	s := newTestSim()
	a := ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{})
	s.AddAgent(a)
	agentID := ents.AgentID("a1")
	kind := ents.GoalRevenge

	if err := Apply(s, Intervention{Type: TypeAddGoal, AgentID: &agentID, GoalKind: &kind}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	goal, ok := a.HasGoal(ents.GoalRevenge)
	if !ok {
		t.Fatal("goal was not added")
	}
	if goal.Priority != 0.5 {
		t.Errorf("Priority = %v, want default 0.5", goal.Priority)
	}
}

func TestApplyUnknownTypeRejected(t *testing.T) {
	s := newTestSim()
	err := Apply(s, Intervention{Type: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown intervention type")
	}
}

// An intervention referencing a missing agent is rejected, but the rest
// of the batch must still apply.
func TestApplyMissingAgentDoesNotBlockOthers(t *testing.T) {
	s := newTestSim()
	s.AddAgent(ents.NewAgent("a1", "Alice", "", "hq", ents.Traits{}))
	good := ents.AgentID("a1")
	missing := ents.AgentID("ghost")

	errMissing := Apply(s, Intervention{Type: TypeModifyAgent, AgentID: &missing, Traits: map[string]float64{"boldness": 1}})
	errGood := Apply(s, Intervention{Type: TypeModifyAgent, AgentID: &good, Traits: map[string]float64{"boldness": 1}})

	if errMissing == nil {
		t.Error("expected the missing-agent intervention to be rejected")
	}
	if errGood != nil {
		t.Errorf("good intervention unexpectedly failed: %v", errGood)
	}
	if s.Agents["a1"].Traits.Boldness != 1.0 {
		t.Errorf("Boldness = %v, want 1.0 applied despite the other intervention's failure", s.Agents["a1"].Traits.Boldness)
	}
}
