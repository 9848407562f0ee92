// Package tension holds the tracked-tension model for emergent dramatic
// patterns: the nine categorical types and the id-indexed Stream that the
// engine's detectors (internal/engine/tension_detect.go) upsert into, each
// detector using a dedicated id-namespace so re-detections update rather
// than duplicate a tracked Tension.
package tension

import "sort"

// Type enumerates the nine categorical tension patterns.
type Type string

const (
	TypeBrewingBetrayal   Type = "brewing_betrayal"
	TypeSuccessionCrisis  Type = "succession_crisis"
	TypeResourceConflict  Type = "resource_conflict"
	TypeFactionFracture   Type = "faction_fracture"
	TypeForbiddenAlliance Type = "forbidden_alliance"
	TypeRevengeArc        Type = "revenge_arc"
	TypeRisingPower       Type = "rising_power"
	TypeSecretExposed     Type = "secret_exposed"
	TypeExternalThreat    Type = "external_threat"
)

// Status is a tension's lifecycle stage.
type Status string

const (
	StatusEmerging   Status = "emerging"
	StatusEscalating Status = "escalating"
	StatusCritical   Status = "critical"
	StatusClimax     Status = "climax"
	StatusResolving  Status = "resolving"
	StatusResolved   Status = "resolved"
	StatusDormant    Status = "dormant"
)

// KeyAgent names an agent implicated in a tension along with its narrative
// role and trajectory (improving/worsening/stable, left to the director
// layer to interpret further; this core only stamps a short label).
type KeyAgent struct {
	AgentID    string `json:"agent_id"`
	Role       string `json:"role"`
	Trajectory string `json:"trajectory"`
}

// PredictedOutcome is one candidate resolution with a rough probability and
// narrative weight.
type PredictedOutcome struct {
	Label           string  `json:"label"`
	Probability     float64 `json:"probability"`
	NarrativeWeight float64 `json:"narrative_weight"`
}

// Tension is a persistent, typed description of a dramatic pattern.
type Tension struct {
	ID                string             `json:"id"`
	Type              Type               `json:"type"`
	Severity          float64            `json:"severity"`
	Confidence        float64            `json:"confidence"`
	Status            Status             `json:"status"`
	KeyAgents         []KeyAgent         `json:"key_agents"`
	KeyLocations      []string           `json:"key_locations,omitempty"`
	TriggerEventIDs   []uint64           `json:"trigger_event_ids,omitempty"`
	NarrativeHooks    []string           `json:"narrative_hooks,omitempty"`
	PredictedOutcomes []PredictedOutcome `json:"predicted_outcomes,omitempty"`
	DetectedAtTick    uint64             `json:"detected_at_tick"`
	LastUpdatedTick   uint64             `json:"last_updated_tick"`
	RecommendedFocus  *string            `json:"recommended_camera_focus,omitempty"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UpdateSeverity moves severity toward newSeverity and advances
// LastUpdatedTick. A direct set is deliberate; no smoothing is needed.
func (t *Tension) UpdateSeverity(newSeverity float64, tick uint64) {
	t.Severity = clamp(newSeverity, 0, 1)
	t.LastUpdatedTick = tick
	if t.Status == Status("") || t.Status == StatusDormant {
		t.Status = StatusEmerging
	}
}

// Stream is the process-wide, id-indexed collection of currently-tracked
// tensions. Re-detection of the same pattern updates the existing entry
// rather than appending a duplicate.
type Stream struct {
	byID map[string]*Tension
}

// NewStream creates an empty tension stream.
func NewStream() *Stream {
	return &Stream{byID: make(map[string]*Tension)}
}

// Get returns the tracked tension with the given id, or nil.
func (s *Stream) Get(id string) *Tension {
	return s.byID[id]
}

// Upsert records a freshly detected or re-detected tension, creating it on
// first sight and updating severity/confidence/last-updated otherwise.
func (s *Stream) Upsert(id string, typ Type, severity, confidence float64, tick uint64, build func(*Tension)) *Tension {
	t, ok := s.byID[id]
	if !ok {
		t = &Tension{
			ID:             id,
			Type:           typ,
			DetectedAtTick: tick,
			Status:         StatusEmerging,
		}
		s.byID[id] = t
	}
	t.Confidence = confidence
	t.UpdateSeverity(severity, tick)
	if build != nil {
		build(t)
	}
	return t
}

// Restore installs an already-built Tension verbatim, used when resuming a
// simulation from persisted state (a snapshot or the SQLite cache) rather
// than a fresh detection pass.
func (s *Stream) Restore(t *Tension) {
	s.byID[t.ID] = t
}

// DormantAfter is the staleness window: a tension not updated for this
// many ticks drops to Dormant.
const DormantAfter = 200

// Cleanup demotes stale tensions to Dormant and removes Resolved ones.
func (s *Stream) Cleanup(currentTick uint64) {
	for id, t := range s.byID {
		if t.Status == StatusResolved {
			delete(s.byID, id)
			continue
		}
		if t.Status != StatusDormant && currentTick > t.LastUpdatedTick && currentTick-t.LastUpdatedTick >= DormantAfter {
			t.Status = StatusDormant
		}
	}
}

// All returns every tracked tension in stable id order, for deterministic
// iteration and serialization.
func (s *Stream) All() []*Tension {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Tension, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}
