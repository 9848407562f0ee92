package ents

// StatusLevel is an agent's standing within its faction, 0 (newcomer) to 4 (leader).
type StatusLevel uint8

const (
	StatusNewcomer StatusLevel = iota
	StatusLaborer
	StatusSkilledWorker
	StatusCouncilMember
	StatusLeader
)

// Role names a faction-specific position that modifies behavior independent of
// status level (a ScoutCaptain is still promotable through the status ladder).
type Role string

const (
	RoleNone         Role = ""
	RoleLeader       Role = "leader"
	RoleReader       Role = "reader"
	RoleCouncilmember Role = "council_member"
	RoleScoutCaptain Role = "scout_captain"
	RoleHealer       Role = "healer"
	RoleSmith        Role = "smith"
	RoleSkilledWorker Role = "skilled_worker"
	RoleLaborer      Role = "laborer"
	RoleNewcomer     Role = "newcomer"
)

// FoodSecurity is the hysteresis-governed food need state.
type FoodSecurity uint8

const (
	FoodSecure FoodSecurity = iota
	FoodStressed
	FoodDesperate
)

func (f FoodSecurity) String() string {
	switch f {
	case FoodSecure:
		return "secure"
	case FoodStressed:
		return "stressed"
	case FoodDesperate:
		return "desperate"
	default:
		return "unknown"
	}
}

// SocialBelonging is the hysteresis-governed belonging need state.
type SocialBelonging uint8

const (
	BelongingIntegrated SocialBelonging = iota
	BelongingPeripheral
	BelongingIsolated
)

func (b SocialBelonging) String() string {
	switch b {
	case BelongingIntegrated:
		return "integrated"
	case BelongingPeripheral:
		return "peripheral"
	case BelongingIsolated:
		return "isolated"
	default:
		return "unknown"
	}
}

// Needs bundles the two hysteresis states tracked per agent.
type Needs struct {
	FoodSecurity    FoodSecurity    `json:"food_security"`
	SocialBelonging SocialBelonging `json:"social_belonging"`
}

// Traits holds the seven scalar personality dimensions, each clamped to [0, 1].
type Traits struct {
	Boldness        float64 `json:"boldness"`
	LoyaltyWeight   float64 `json:"loyalty_weight"`
	GrudgePersistence float64 `json:"grudge_persistence"`
	Ambition        float64 `json:"ambition"`
	Honesty         float64 `json:"honesty"`
	Sociability     float64 `json:"sociability"`
	GroupPreference float64 `json:"group_preference"`
}

// Clamp restores every trait to [0, 1]. Called after any mutation.
func (t *Traits) Clamp() {
	t.Boldness = clamp01(t.Boldness)
	t.LoyaltyWeight = clamp01(t.LoyaltyWeight)
	t.GrudgePersistence = clamp01(t.GrudgePersistence)
	t.Ambition = clamp01(t.Ambition)
	t.Honesty = clamp01(t.Honesty)
	t.Sociability = clamp01(t.Sociability)
	t.GroupPreference = clamp01(t.GroupPreference)
}

// InRange reports whether every trait already sits inside [0, 1].
func (t Traits) InRange() bool {
	for _, v := range []float64{t.Boldness, t.LoyaltyWeight, t.GrudgePersistence,
		t.Ambition, t.Honesty, t.Sociability, t.GroupPreference} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
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

// GoalKind enumerates the goal kinds an agent may pursue.
type GoalKind string

const (
	GoalSurvive        GoalKind = "survive"
	GoalSurviveWinter  GoalKind = "survive_winter"
	GoalProtect        GoalKind = "protect"
	GoalRevenge        GoalKind = "revenge"
	GoalChallengeLeader GoalKind = "challenge_leader"
	GoalSupportLeader  GoalKind = "support_leader"
	GoalRiseInStatus   GoalKind = "rise_in_status"
)

// Goal is a single entry in an agent's ordered goal set.
type Goal struct {
	Kind     GoalKind `json:"kind"`
	Priority float64  `json:"priority"` // in [0, 1]
	Target   *AgentID `json:"target,omitempty"`
	OriginEvent *EventID `json:"origin_event,omitempty"`
}

// Intoxication tracks an accumulating counter from drinking beer,
// monotonically incrementing on each drink. It decays linearly by
// IntoxicationDecayPerHundredTicks units every 100 ticks once applied.
type Intoxication struct {
	Level      float64 `json:"level"`
	AppliedAt  uint64  `json:"applied_at_tick"`
}

// IntoxicationDecayPerHundredTicks is the decay constant: 1.0 units lost
// per 100 ticks after intoxication is applied.
const IntoxicationDecayPerHundredTicks = 1.0

// ApplyDrink increments intoxication monotonically.
func (in *Intoxication) ApplyDrink(tick uint64, amount float64) {
	in.Level += amount
	in.AppliedAt = tick
}

// Decay reduces intoxication toward zero based on elapsed ticks since
// AppliedAt, then moves AppliedAt to tick (the caller's current tick) so the
// next decay step only counts ticks elapsed since this one.
func (in *Intoxication) Decay(tick uint64) {
	if in.Level <= 0 {
		in.Level = 0
		return
	}
	elapsed := tick - in.AppliedAt
	if elapsed == 0 {
		return
	}
	in.Level -= float64(elapsed) / 100.0 * IntoxicationDecayPerHundredTicks
	if in.Level < 0 {
		in.Level = 0
	}
	in.AppliedAt = tick
}

// Membership captures an agent's place within a faction.
type Membership struct {
	FactionID FactionID   `json:"faction_id"`
	Role      Role        `json:"role"`
	Status    StatusLevel `json:"status"`
}

// Agent is the core simulated entity.
type Agent struct {
	ID       AgentID `json:"id"`
	Name     string  `json:"name"`
	Alive    bool    `json:"alive"`

	Membership Membership `json:"membership"`
	LocationID LocationID `json:"location_id"`

	Traits Traits `json:"traits"`
	Needs  Needs  `json:"needs"`
	Goals  []Goal `json:"goals"`

	Intoxication *Intoxication `json:"intoxication,omitempty"`

	// VisibleAgents is rebuilt every tick by the perception phase; never
	// mutated outside it.
	VisibleAgents []AgentID `json:"visible_agents"`
}

// NewAgent constructs a live agent with clamped default traits.
func NewAgent(id AgentID, name string, factionID FactionID, location LocationID, traits Traits) *Agent {
	traits.Clamp()
	return &Agent{
		ID:    id,
		Name:  name,
		Alive: true,
		Membership: Membership{
			FactionID: factionID,
			Role:      RoleNewcomer,
			Status:    StatusNewcomer,
		},
		LocationID: location,
		Traits:     traits,
		Needs: Needs{
			FoodSecurity:    FoodSecure,
			SocialBelonging: BelongingIntegrated,
		},
	}
}

// Kill flips the liveness flag. The agent continues to exist for retrospective
// queries (memories referencing it, event actor snapshots) but is skipped by
// every active system from the next tick on.
func (a *Agent) Kill() {
	a.Alive = false
}

// Promote raises status by one level, saturating at StatusLeader. Status is
// monotonically non-decreasing except via Demote/Exile.
func (a *Agent) Promote() {
	if a.Membership.Status < StatusLeader {
		a.Membership.Status++
	}
}

// Demote lowers status by one level, saturating at StatusNewcomer.
func (a *Agent) Demote() {
	if a.Membership.Status > StatusNewcomer {
		a.Membership.Status--
	}
}

// Exile removes faction membership entirely and resets status.
func (a *Agent) Exile() {
	a.Membership.FactionID = ""
	a.Membership.Role = RoleNone
	a.Membership.Status = StatusNewcomer
}

// HasGoal reports whether the agent currently holds a goal of the given kind.
func (a *Agent) HasGoal(kind GoalKind) (Goal, bool) {
	for _, g := range a.Goals {
		if g.Kind == kind {
			return g, true
		}
	}
	return Goal{}, false
}

// AddGoal appends a goal, replacing any existing goal of the same kind.
func (a *Agent) AddGoal(g Goal) {
	for i := range a.Goals {
		if a.Goals[i].Kind == g.Kind {
			a.Goals[i] = g
			return
		}
	}
	a.Goals = append(a.Goals, g)
}

// RoleModifier returns the food-security effective-grain role multiplier.
func RoleModifier(role Role) float64 {
	switch role {
	case RoleLeader:
		return 1.5
	case RoleReader:
		return 1.3
	case RoleCouncilmember:
		return 1.2
	case RoleScoutCaptain, RoleHealer, RoleSmith:
		return 1.1
	case RoleSkilledWorker:
		return 1.0
	case RoleLaborer:
		return 0.9
	case RoleNewcomer:
		return 0.8
	default:
		return 1.0
	}
}
