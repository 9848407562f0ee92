package engine

import "github.com/talgya/crossroads/internal/ents"

// ActionKind is the top-level action category a candidate belongs to.
type ActionKind string

const (
	KindMove     ActionKind = "move"
	KindPatrol   ActionKind = "patrol"
	KindCommunicate ActionKind = "communicate"
	KindArchive  ActionKind = "archive"
	KindResource ActionKind = "resource"
	KindSocial   ActionKind = "social"
	KindFaction  ActionKind = "faction"
	KindConflict ActionKind = "conflict"
	KindBeer     ActionKind = "beer"
	KindIdle     ActionKind = "idle"
)

// Sub enumerates the action-kind-specific subtype tags used across
// generation, weighting, and execution.
type Sub string

const (
	SubTravel     Sub = "Travel"
	SubReturnHome Sub = "ReturnHome"
	SubIdle       Sub = "Idle"
	SubPatrol     Sub = "Patrol"

	SubShareMemory Sub = "ShareMemory"
	SubGroupShare  Sub = "Group"

	SubWriteEntry  Sub = "WriteEntry"
	SubReadArchive Sub = "ReadArchive"
	SubDestroyEntry Sub = "DestroyEntry"
	SubForgeEntry  Sub = "ForgeEntry"

	SubWork  Sub = "Work"
	SubTrade Sub = "Trade"
	SubSteal Sub = "Steal"
	SubHoard Sub = "Hoard"

	SubBuildTrust Sub = "BuildTrust"
	SubCurryFavor Sub = "CurryFavor"
	SubGift       Sub = "Gift"
	SubOstracize  Sub = "Ostracize"
	SubLie        Sub = "Lie"
	SubConfess    Sub = "Confess"

	SubDefect        Sub = "Defect"
	SubExile         Sub = "Exile"
	SubChallengeLeader Sub = "ChallengeLeader"
	SubSupportLeader Sub = "SupportLeader"

	SubArgue      Sub = "Argue"
	SubFight      Sub = "Fight"
	SubSabotage   Sub = "Sabotage"
	SubAssassinate Sub = "Assassinate"

	SubBrew  Sub = "Brew"
	SubDrink Sub = "Drink"
	SubShare Sub = "Share"
)

// Candidate is one proposed action for an agent this tick, carrying its
// weight and whatever targets its execution needs. The same struct threads
// through generation, trait weighting, noise, selection, and execution so
// no information is dropped or re-derived between phases.
type Candidate struct {
	Kind   ActionKind
	Sub    Sub
	Agent  ents.AgentID
	Weight float64
	Reason string

	TargetAgent    *ents.AgentID
	TargetAgents   []ents.AgentID
	TargetLocation *ents.LocationID
	TargetFaction  *ents.FactionID
	MemoryID       *ents.MemoryID
	ArchiveEntry   *ents.ArchiveEntryID
	Amount         uint64
}

// WeightClampMin and WeightClampMax bound every candidate weight after trait
// weighting.
const (
	WeightClampMin = 0.01
	WeightClampMax = 10.0
)

func clampWeight(w float64) float64 {
	if w < WeightClampMin {
		return WeightClampMin
	}
	if w > WeightClampMax {
		return WeightClampMax
	}
	return w
}
