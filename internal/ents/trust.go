package ents

// Valence is the categorical sentiment of a memory or trust delta.
type Valence uint8

const (
	ValencePositive Valence = iota
	ValenceNeutral
	ValenceNegative
)

// Trust is the three-scalar trust model, each dimension in [-1, 1].
type Trust struct {
	Reliability float64 `json:"reliability"`
	Alignment   float64 `json:"alignment"`
	Capability  float64 `json:"capability"`
}

// Overall returns the mean of the three trust dimensions.
func (t Trust) Overall() float64 {
	return (t.Reliability + t.Alignment + t.Capability) / 3.0
}

// Clamp restores every dimension to [-1, 1].
func (t *Trust) Clamp() {
	t.Reliability = clamp(t.Reliability, -1, 1)
	t.Alignment = clamp(t.Alignment, -1, 1)
	t.Capability = clamp(t.Capability, -1, 1)
}

// AddReliability applies a clamped additive delta to reliability.
func (t *Trust) AddReliability(delta float64) {
	t.Reliability += delta
	t.Clamp()
}

// AddAlignment applies a clamped additive delta to alignment.
func (t *Trust) AddAlignment(delta float64) {
	t.Alignment += delta
	t.Clamp()
}

// AddCapability applies a clamped additive delta to capability.
func (t *Trust) AddCapability(delta float64) {
	t.Capability += delta
	t.Clamp()
}

// Grudge tracks decay state for a relationship that has gone negative.
type Grudge struct {
	Active bool `json:"active"`
}

// Relationship is a directed edge from one agent to another, holding trust,
// recency, and grudge state.
type Relationship struct {
	From              AgentID `json:"from"`
	To                AgentID `json:"to"`
	Trust             Trust   `json:"trust"`
	LastInteractionTick uint64 `json:"last_interaction_tick"`
	MemoryCount       int     `json:"memory_count"`
	Grudge            Grudge  `json:"grudge"`
}

// NewRelationship creates a fresh, neutral directed relationship.
func NewRelationship(from, to AgentID) *Relationship {
	return &Relationship{From: from, To: to}
}

// TrustEventKind distinguishes direct vs secondhand trust deltas for logging.
type TrustEventKind uint8

const (
	TrustEventDirect TrustEventKind = iota
	TrustEventSecondhand
)

// TrustDimension selects which of the three trust scalars a queued event
// mutates.
type TrustDimension uint8

const (
	DimReliability TrustDimension = iota
	DimAlignment
	DimCapability
)

// TrustEvent is a deferred trust mutation queued during execution and drained
// by the single-owner trust-processing phase.
type TrustEvent struct {
	From      AgentID
	To        AgentID
	Dimension TrustDimension
	Delta     float64
	Tick      uint64
	Kind      TrustEventKind
}
