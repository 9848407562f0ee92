package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// EventType enumerates the top-level event categories.
type EventType string

const (
	EventMovement     EventType = "movement"
	EventCommunication EventType = "communication"
	EventBetrayal     EventType = "betrayal"
	EventLoyalty      EventType = "loyalty"
	EventConflict     EventType = "conflict"
	EventCooperation  EventType = "cooperation"
	EventFaction      EventType = "faction"
	EventArchive      EventType = "archive"
	EventRitual       EventType = "ritual"
	EventResource     EventType = "resource"
	EventDeath        EventType = "death"
	EventBirth        EventType = "birth"
)

// ActorSnapshot is an immutable name/id capture taken at event-emission
// time, so events remain meaningful after an agent dies or changes faction.
type ActorSnapshot struct {
	AgentID ents.AgentID `json:"agent_id"`
	Name    string       `json:"name"`
	Faction string       `json:"faction,omitempty"`
}

// AffectedActor is a secondary participant in an event, optionally carrying
// its relationship to the primary actor and whether it attended (rituals).
type AffectedActor struct {
	Actor              ActorSnapshot `json:"actor"`
	RelationshipToPrimary *string    `json:"relationship_to_primary,omitempty"`
	Attended           *bool         `json:"attended,omitempty"`
}

// EventContext carries the trigger string and scene-setting detail.
type EventContext struct {
	Trigger          string `json:"trigger"`
	Preconditions    string `json:"preconditions,omitempty"`
	LocationDesc     string `json:"location_description,omitempty"`
}

// EventOutcome is a loosely-typed payload whose shape depends on subtype;
// kept as a string-keyed map rather than a closed sum type so every
// execution function can attach exactly the fields its contract defines
// without a combinatorial variant type.
type EventOutcome map[string]any

// Event is a single append-only, immutable record of something that
// happened.
type Event struct {
	ID        ents.EventID    `json:"id"`
	Tick      uint64          `json:"tick"`
	Date      string          `json:"date"`
	Type      EventType       `json:"type"`
	Subtype   string          `json:"subtype"`
	Primary   ActorSnapshot   `json:"primary"`
	Secondary *ActorSnapshot  `json:"secondary,omitempty"`
	Affected  []AffectedActor `json:"affected,omitempty"`
	Context   EventContext    `json:"context"`
	Outcome   EventOutcome    `json:"outcome,omitempty"`
	DramaTags []string        `json:"drama_tags,omitempty"`
	DramaScore float64        `json:"drama_score"`
	Connected []ents.EventID  `json:"connected_event_ids,omitempty"`
}

// nextEventID is the run-wide monotonic counter. It lives on the
// Simulation, not as a package-level global, so multiple simulations in
// one process (tests) never collide.
func (s *Simulation) nextEventID() ents.EventID {
	s.lastEventID++
	return s.lastEventID
}

// snapshotActor captures an immutable name/faction snapshot for event
// emission.
func (s *Simulation) snapshotActor(id ents.AgentID) ActorSnapshot {
	a, ok := s.Agents[id]
	if !ok {
		return ActorSnapshot{AgentID: id, Name: "unknown"}
	}
	faction := string(a.Membership.FactionID)
	return ActorSnapshot{AgentID: id, Name: a.Name, Faction: faction}
}

// DramaStatusMultiplier returns the high-status-actor drama multiplier.
func DramaStatusMultiplier(status ents.StatusLevel) float64 {
	switch status {
	case ents.StatusLeader:
		return 1.6
	case ents.StatusCouncilMember:
		return 1.4
	default:
		return 1.0
	}
}

// ScoreDrama composes a base subtype value with the ordered status,
// cross-faction, winter, and chained multipliers, clamping to [0,1].
func ScoreDrama(base float64, primaryStatus, secondaryStatus ents.StatusLevel, crossFaction, winterContext, chained bool) float64 {
	score := base
	statusMult := DramaStatusMultiplier(primaryStatus)
	if m := DramaStatusMultiplier(secondaryStatus); m > statusMult {
		statusMult = m
	}
	score *= statusMult
	if crossFaction {
		score *= 1.2
	}
	if winterContext {
		score *= 1.15
	}
	if chained {
		score *= 1.1
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// FormatDate renders a tick as the in-world calendar date consumers show
// alongside raw tick numbers.
func FormatDate(tick uint64) string {
	year := tick/(SeasonLength*4) + 1
	season := Season((tick / SeasonLength) % 4)
	day := tick%SeasonLength + 1
	return fmt.Sprintf("year %d, %s, day %d", year, season, day)
}

// Emit appends an event to the simulation's event log, assigning it the
// next monotonic id.
func (s *Simulation) Emit(e Event) Event {
	e.ID = s.nextEventID()
	e.Tick = s.Tick
	e.Date = FormatDate(s.Tick)
	s.Events = append(s.Events, e)
	return e
}
