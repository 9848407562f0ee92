package ents

import "testing"

func TestTrustClamp(t *testing.T) {
	tr := Trust{Reliability: 2, Alignment: -2, Capability: 0.5}
	tr.Clamp()
	if tr.Reliability != 1 {
		t.Errorf("reliability = %v, want 1", tr.Reliability)
	}
	if tr.Alignment != -1 {
		t.Errorf("alignment = %v, want -1", tr.Alignment)
	}
	if tr.Capability != 0.5 {
		t.Errorf("capability = %v, want 0.5", tr.Capability)
	}
}

func TestTrustOverall(t *testing.T) {
	tr := Trust{Reliability: 1, Alignment: 0, Capability: -1}
	if got := tr.Overall(); got != 0 {
		t.Errorf("Overall() = %v, want 0", got)
	}
}

func TestAddReliabilityClamps(t *testing.T) {
	tr := Trust{Reliability: 0.9}
	tr.AddReliability(0.5)
	if tr.Reliability != 1 {
		t.Errorf("Reliability = %v, want 1 (clamped)", tr.Reliability)
	}
}

// |delta| must stay <= 0.045 for every valence, trust, and fidelity
// combination.
func TestSecondhandTrustDeltaBound(t *testing.T) {
	const maxDelta = 0.045
	valences := []Valence{ValencePositive, ValenceNeutral, ValenceNegative}
	trusts := []float64{-1, -0.5, 0, 0.5, 1}
	fidelities := []float64{0, 0.25, 0.5, 0.75, 1}

	for _, v := range valences {
		for _, trust := range trusts {
			for _, fid := range fidelities {
				delta := SecondhandTrustDelta(v, trust, fid)
				if delta > maxDelta || delta < -maxDelta {
					t.Fatalf("SecondhandTrustDelta(%v, %v, %v) = %v, want |delta| <= %v",
						v, trust, fid, delta, maxDelta)
				}
			}
		}
	}
}

func TestSecondhandTrustDeltaSign(t *testing.T) {
	cases := []struct {
		valence Valence
		wantPos bool
		wantNeg bool
	}{
		{ValencePositive, true, false},
		{ValenceNegative, false, true},
	}
	for _, c := range cases {
		delta := SecondhandTrustDelta(c.valence, 0.5, 1.0)
		if c.wantPos && delta <= 0 {
			t.Errorf("valence %v: delta = %v, want > 0", c.valence, delta)
		}
		if c.wantNeg && delta >= 0 {
			t.Errorf("valence %v: delta = %v, want < 0", c.valence, delta)
		}
	}
	if delta := SecondhandTrustDelta(ValenceNeutral, 0.5, 1.0); delta != 0 {
		t.Errorf("neutral valence: delta = %v, want 0", delta)
	}
}

func TestGrudgeDefaultInactive(t *testing.T) {
	r := NewRelationship("a", "b")
	if r.Grudge.Active {
		t.Error("a freshly created relationship must not start with an active grudge")
	}
}
