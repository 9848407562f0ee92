// Memory model: fidelity, source chains, and secondhand propagation.
package ents

// MemorySource is an immutable name snapshot recorded when a memory changes
// hands. Source chains never hold live agent references, so an agent can die
// without invalidating memories that mention it. See GLOSSARY "Source chain".
type MemorySource struct {
	AgentID AgentID `json:"agent_id"`
	Name    string  `json:"name"`
}

// Memory is a single remembered event, optionally several hops removed from
// its origin.
type Memory struct {
	ID            MemoryID       `json:"id"`
	SourceEventID *EventID       `json:"source_event_id,omitempty"`
	Subject       AgentID        `json:"subject"`
	Content       string         `json:"content"`
	Fidelity      float64        `json:"fidelity"`
	SourceChain   []MemorySource `json:"source_chain"`
	EmotionalWeight float64      `json:"emotional_weight"`
	TickCreated   uint64         `json:"tick_created"`
	Valence       Valence        `json:"valence"`
	IsSecret      bool           `json:"is_secret"`
}

// IsFirsthand reports whether this memory has never been shared.
func (m *Memory) IsFirsthand() bool {
	return len(m.SourceChain) == 0
}

// FirsthandDecayRate is applied once per elapsed season to firsthand memories.
const FirsthandDecayRate = 0.95

// SecondhandDecayRate is applied once per elapsed season to shared memories.
const SecondhandDecayRate = 0.85

// InsignificanceThreshold is the tuning knob below which
// fidelity*emotional weight marks a memory for pruning.
const InsignificanceThreshold = 0.05

// DecaySeasons multiplies fidelity by the appropriate per-season rate, N times.
func (m *Memory) DecaySeasons(n int) {
	if n <= 0 {
		return
	}
	rate := FirsthandDecayRate
	if !m.IsFirsthand() {
		rate = SecondhandDecayRate
	}
	for i := 0; i < n; i++ {
		m.Fidelity *= rate
	}
}

// Insignificant reports whether the memory has decayed past the pruning
// threshold.
func (m *Memory) Insignificant() bool {
	return m.Fidelity*m.EmotionalWeight < InsignificanceThreshold
}

// ShareIndividualMultiplier is the fidelity multiplier applied when a memory
// moves through one individual ShareMemory hop.
const ShareIndividualMultiplier = 0.7

// ShareGroupBonusMultiplier is the additional fidelity multiplier applied on
// top of ShareIndividualMultiplier for group communication.
const ShareGroupBonusMultiplier = 0.9

// ShareEmotionalWeightMultiplier halves emotional weight on every hop.
const ShareEmotionalWeightMultiplier = 0.5

// Share produces a new memory received by a listener from sharer, prepending
// the sharer's snapshot to the source chain. group selects the additional
// 0.9x fidelity multiplier for group communication over individual.
func (m *Memory) Share(newID MemoryID, sharer MemorySource, tick uint64, group bool) Memory {
	chain := make([]MemorySource, 0, len(m.SourceChain)+1)
	chain = append(chain, sharer)
	chain = append(chain, m.SourceChain...)

	fidelity := m.Fidelity * ShareIndividualMultiplier
	if group {
		fidelity *= ShareGroupBonusMultiplier
	}

	return Memory{
		ID:              newID,
		SourceEventID:   m.SourceEventID,
		Subject:         m.Subject,
		Content:         m.Content,
		Fidelity:        fidelity,
		SourceChain:     chain,
		EmotionalWeight: m.EmotionalWeight * ShareEmotionalWeightMultiplier,
		TickCreated:     tick,
		Valence:         m.Valence,
		IsSecret:        m.IsSecret,
	}
}

// ShareableMinEmotionalWeight is the small threshold above which a memory is
// considered interesting enough to share.
const ShareableMinEmotionalWeight = 0.1

// Shareable reports whether this memory is eligible to be shared: not secret
// and with enough emotional weight to be worth telling.
func (m *Memory) Shareable() bool {
	return !m.IsSecret && m.EmotionalWeight > ShareableMinEmotionalWeight
}

// RecencyBoost is 1/(1+age/100): newer memories score higher.
func RecencyBoost(age uint64) float64 {
	return 1.0 / (1.0 + float64(age)/100.0)
}

// ValenceBoost weights neutral/positive/negative memories 0.8/1.0/1.2;
// bad news travels best.
func ValenceBoost(v Valence) float64 {
	switch v {
	case ValencePositive:
		return 1.0
	case ValenceNegative:
		return 1.2
	default:
		return 0.8
	}
}

// Interestingness scores a memory for "most interesting shareable memory"
// selection: emotional_weight * fidelity * recency_boost * valence_boost.
func (m *Memory) Interestingness(currentTick uint64) float64 {
	age := currentTick - m.TickCreated
	return m.EmotionalWeight * m.Fidelity * RecencyBoost(age) * ValenceBoost(m.Valence)
}

// SecondhandTrustDelta computes the alignment shift a listener applies
// toward a memory's subject:
//
//	base = (+0.1 if Positive, 0.0 if Neutral, -0.15 if Negative)
//	trust_factor = (overall_trust(L->S) + 1) / 2
//	delta = base * 0.3 * trust_factor * memory.fidelity
func SecondhandTrustDelta(valence Valence, listenerTrustInSharer, fidelity float64) float64 {
	const secondhandMultiplier = 0.3
	var base float64
	switch valence {
	case ValencePositive:
		base = 0.1
	case ValenceNegative:
		base = -0.15
	default:
		base = 0.0
	}
	trustFactor := (listenerTrustInSharer + 1.0) / 2.0
	return base * secondhandMultiplier * trustFactor * fidelity
}
