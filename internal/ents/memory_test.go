package ents

import "testing"

func TestDecaySeasonsZeroIsNoop(t *testing.T) {
	m := Memory{Fidelity: 0.8}
	m.DecaySeasons(0)
	if m.Fidelity != 0.8 {
		t.Errorf("DecaySeasons(0) changed fidelity to %v, want 0.8 unchanged", m.Fidelity)
	}
}

func TestDecaySeasonsFirsthandVsSecondhand(t *testing.T) {
	firsthand := Memory{Fidelity: 1.0}
	firsthand.DecaySeasons(1)
	if got, want := firsthand.Fidelity, FirsthandDecayRate; got != want {
		t.Errorf("firsthand fidelity after 1 season = %v, want %v", got, want)
	}

	secondhand := Memory{Fidelity: 1.0, SourceChain: []MemorySource{{AgentID: "x"}}}
	secondhand.DecaySeasons(1)
	if got, want := secondhand.Fidelity, SecondhandDecayRate; got != want {
		t.Errorf("secondhand fidelity after 1 season = %v, want %v", got, want)
	}
}

func TestShareAppliesFidelityAndWeightMultipliers(t *testing.T) {
	m := Memory{ID: "m1", Subject: "c", Fidelity: 1.0, EmotionalWeight: 0.8, Valence: ValenceNegative}
	shared := m.Share("m2", MemorySource{AgentID: "a", Name: "A"}, 10, false)

	if got, want := shared.Fidelity, ShareIndividualMultiplier; got != want {
		t.Errorf("individual share fidelity = %v, want %v", got, want)
	}
	if got, want := shared.EmotionalWeight, 0.4; got != want {
		t.Errorf("emotional weight = %v, want %v", got, want)
	}
	if len(shared.SourceChain) != 1 || shared.SourceChain[0].AgentID != "a" {
		t.Errorf("source chain = %+v, want [a]", shared.SourceChain)
	}
}

func TestShareGroupAppliesBonusMultiplier(t *testing.T) {
	m := Memory{ID: "m1", Fidelity: 1.0, EmotionalWeight: 0.8}
	shared := m.Share("m2", MemorySource{AgentID: "a"}, 10, true)

	want := ShareIndividualMultiplier * ShareGroupBonusMultiplier
	if shared.Fidelity != want {
		t.Errorf("group share fidelity = %v, want %v", shared.Fidelity, want)
	}
}

// Repeatedly sharing never increases fidelity, even after many hops.
func TestShareOnlyDecreasesFidelity(t *testing.T) {
	m := Memory{ID: "m0", Fidelity: 1.0, EmotionalWeight: 1.0}
	prev := m.Fidelity
	for i := 0; i < 10; i++ {
		m = m.Share(MemoryID(string(rune('a'+i))), MemorySource{AgentID: "x"}, uint64(i), false)
		if m.Fidelity > prev {
			t.Fatalf("hop %d: fidelity rose from %v to %v", i, prev, m.Fidelity)
		}
		prev = m.Fidelity
	}
}

func TestShareableExcludesSecretsAndLowWeight(t *testing.T) {
	secret := Memory{IsSecret: true, EmotionalWeight: 0.9}
	if secret.Shareable() {
		t.Error("a secret memory must not be shareable")
	}
	boring := Memory{EmotionalWeight: ShareableMinEmotionalWeight}
	if boring.Shareable() {
		t.Error("a memory at the threshold (not above it) must not be shareable")
	}
	interesting := Memory{EmotionalWeight: ShareableMinEmotionalWeight + 0.01}
	if !interesting.Shareable() {
		t.Error("a memory above the threshold must be shareable")
	}
}

func TestInsignificantThreshold(t *testing.T) {
	m := Memory{Fidelity: 0.1, EmotionalWeight: 0.1}
	if !m.Insignificant() {
		t.Errorf("fidelity*weight = %v, want below InsignificanceThreshold %v", m.Fidelity*m.EmotionalWeight, InsignificanceThreshold)
	}
}

func TestRecencyBoostDecreasesWithAge(t *testing.T) {
	fresh := RecencyBoost(0)
	old := RecencyBoost(1000)
	if old >= fresh {
		t.Errorf("RecencyBoost(1000) = %v, want less than RecencyBoost(0) = %v", old, fresh)
	}
}
