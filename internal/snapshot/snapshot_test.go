package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/ents"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

func buildFixture() *engine.Simulation {
	s := engine.NewSimulation(11)
	s.Locations.Register(&world.Location{ID: "hq", Properties: make(map[world.Property]bool)})
	s.Locations.Register(&world.Location{ID: "fields", Properties: make(map[world.Property]bool)})
	s.Locations.Connect("hq", "fields")

	f := social.NewFaction("f1", "Ashford", "hq")
	f.Resources.Grain = 40
	s.Factions.Register(f)

	a := ents.NewAgent("a1", "Alice", "f1", "hq", ents.Traits{Boldness: 0.6, Sociability: 0.4})
	b := ents.NewAgent("a2", "Bram", "f1", "fields", ents.Traits{Ambition: 0.8})
	s.AddAgent(a)
	s.AddAgent(b)
	f.AddMember(a.ID)
	f.AddMember(b.ID)

	rel := s.Relations.Ensure(a.ID, b.ID)
	rel.Trust.AddReliability(0.3)
	rel.LastInteractionTick = 5

	return s
}

// Serializing then deserializing a snapshot yields an equal value.
func TestSnapshotRoundTrip(t *testing.T) {
	s := buildFixture()
	snap := Build(s, "run-roundtrip")

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(snap, got) {
		t.Errorf("round trip changed the snapshot:\nbefore: %+v\nafter:  %+v", snap, got)
	}
}

// Write produces both the tick-named file and the rolling current_state.json,
// with identical content.
func TestWriteEmitsBothFiles(t *testing.T) {
	s := buildFixture()
	s.Tick = 300
	snap := Build(s, "run-files")

	dir := t.TempDir()
	if err := Write(dir, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	named, err := os.ReadFile(filepath.Join(dir, "snap_000300.json"))
	if err != nil {
		t.Fatalf("read snap_000300.json: %v", err)
	}
	current, err := os.ReadFile(filepath.Join(dir, "current_state.json"))
	if err != nil {
		t.Fatalf("read current_state.json: %v", err)
	}
	if string(named) != string(current) {
		t.Error("snap_000300.json and current_state.json differ")
	}
}

// Two snapshots of the same world are identical byte streams, keeping the
// hand-off reproducible.
func TestSnapshotDeterministicSerialization(t *testing.T) {
	s := buildFixture()
	first, err := json.Marshal(Build(s, "run-det"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Build(s, "run-det"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Error("snapshots of unchanged world differ")
	}
}
