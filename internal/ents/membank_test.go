package ents

import "testing"

func TestMemoryBankGenerateIDUnique(t *testing.T) {
	b := NewMemoryBank()
	seen := make(map[MemoryID]bool)
	for i := 0; i < 100; i++ {
		id := b.GenerateID()
		if seen[id] {
			t.Fatalf("duplicate memory id %q generated", id)
		}
		seen[id] = true
	}
}

func TestMemoryBankRestoreCounterNeverGoesBackward(t *testing.T) {
	b := NewMemoryBank()
	b.GenerateID() // nextID = 1
	b.RestoreCounter(50)
	next := b.GenerateID()
	if next != "mem_51" {
		t.Errorf("GenerateID() after restore = %q, want mem_51", next)
	}

	b.RestoreCounter(10) // must not move the counter backward
	next = b.GenerateID()
	if next != "mem_52" {
		t.Errorf("GenerateID() after lower restore = %q, want mem_52 (counter must not regress)", next)
	}
}

func TestMemoryBankReplace(t *testing.T) {
	b := NewMemoryBank()
	b.Add("a", Memory{ID: "m1"})
	b.Replace("a", []Memory{{ID: "m2"}, {ID: "m3"}})

	got := b.Get("a")
	if len(got) != 2 || got[0].ID != "m2" || got[1].ID != "m3" {
		t.Errorf("Get(a) after Replace = %+v, want [m2 m3]", got)
	}
}

func TestDecayAllSeasonsZeroIsNoop(t *testing.T) {
	b := NewMemoryBank()
	b.Add("a", Memory{Fidelity: 0.9})
	b.DecayAllSeasons(0)
	if got := b.Get("a")[0].Fidelity; got != 0.9 {
		t.Errorf("DecayAllSeasons(0) changed fidelity to %v, want unchanged 0.9", got)
	}
}

func TestMostInterestingPicksHighestScore(t *testing.T) {
	b := NewMemoryBank()
	b.Add("a", Memory{ID: "dull", EmotionalWeight: 0.2, Fidelity: 1, TickCreated: 0})
	b.Add("a", Memory{ID: "vivid", EmotionalWeight: 0.9, Fidelity: 1, TickCreated: 0})

	best, ok := b.MostInteresting("a", 0)
	if !ok {
		t.Fatal("MostInteresting reported no shareable memory")
	}
	if best.ID != "vivid" {
		t.Errorf("MostInteresting() = %q, want vivid", best.ID)
	}
}

func TestCleanupDropsInsignificantOldMemories(t *testing.T) {
	b := NewMemoryBank()
	b.Add("a", Memory{ID: "stale", Fidelity: 0.05, EmotionalWeight: 0.05, TickCreated: 0})
	b.Add("a", Memory{ID: "fresh", Fidelity: 0.05, EmotionalWeight: 0.05, TickCreated: 950})

	b.Cleanup("a", 1000, 100)

	got := b.Get("a")
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Errorf("Cleanup kept %+v, want only [fresh] (too-young to prune)", got)
	}
}
