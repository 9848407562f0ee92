package ents

import (
	"sort"
	"strconv"
)

// MemoryBank is the process-wide store of memories, keyed by the agent
// that holds them; each agent holds an ordered list.
type MemoryBank struct {
	byAgent map[AgentID][]Memory
	nextID  uint64
}

// NewMemoryBank creates an empty memory bank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{byAgent: make(map[AgentID][]Memory)}
}

// GenerateID returns a fresh, process-unique memory id.
func (b *MemoryBank) GenerateID() MemoryID {
	b.nextID++
	return MemoryID("mem_" + strconv.FormatUint(b.nextID, 10))
}

// RestoreCounter sets the bank's next-id counter, used when resuming from a
// persisted cache so freshly generated ids never collide with loaded ones.
func (b *MemoryBank) RestoreCounter(n uint64) {
	if n > b.nextID {
		b.nextID = n
	}
}

// Replace discards any memories held for agent and installs mems in their
// place, used when loading a persisted memory stream.
func (b *MemoryBank) Replace(agent AgentID, mems []Memory) {
	b.byAgent[agent] = mems
}

// Add appends a memory to an agent's stream.
func (b *MemoryBank) Add(agent AgentID, m Memory) {
	b.byAgent[agent] = append(b.byAgent[agent], m)
}

// Get returns an agent's full memory stream (do not mutate the result).
func (b *MemoryBank) Get(agent AgentID) []Memory {
	return b.byAgent[agent]
}

// DecaySeasons applies seasonal decay to every memory an agent holds.
func (b *MemoryBank) DecaySeasons(agent AgentID, n int) {
	mems := b.byAgent[agent]
	for i := range mems {
		mems[i].DecaySeasons(n)
	}
}

// DecayAllSeasons applies seasonal decay to every agent's memories. A
// no-op when n is 0.
func (b *MemoryBank) DecayAllSeasons(n int) {
	if n <= 0 {
		return
	}
	for agent := range b.byAgent {
		b.DecaySeasons(agent, n)
	}
}

// Cleanup drops memories whose fidelity*emotional_weight has fallen below
// InsignificanceThreshold, provided they are old enough that decay has had a
// chance to act (age >= minAge ticks).
func (b *MemoryBank) Cleanup(agent AgentID, currentTick uint64, minAge uint64) {
	mems := b.byAgent[agent]
	kept := mems[:0]
	for _, m := range mems {
		age := currentTick - m.TickCreated
		if age >= minAge && m.Insignificant() {
			continue
		}
		kept = append(kept, m)
	}
	b.byAgent[agent] = kept
}

// CleanupAll runs Cleanup over every agent's memory stream.
func (b *MemoryBank) CleanupAll(currentTick uint64, minAge uint64) {
	for agent := range b.byAgent {
		b.Cleanup(agent, currentTick, minAge)
	}
}

// Shareable returns the agent's memories eligible for sharing, in stable
// id order.
func (b *MemoryBank) Shareable(agent AgentID) []Memory {
	var out []Memory
	for _, m := range b.byAgent[agent] {
		if m.Shareable() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MostInteresting returns the single most shareable memory for an agent, by
// the deterministic Interestingness score, or ok=false if none qualify.
func (b *MemoryBank) MostInteresting(agent AgentID, currentTick uint64) (Memory, bool) {
	shareable := b.Shareable(agent)
	if len(shareable) == 0 {
		return Memory{}, false
	}
	best := shareable[0]
	bestScore := best.Interestingness(currentTick)
	for _, m := range shareable[1:] {
		score := m.Interestingness(currentTick)
		if score > bestScore {
			best = m
			bestScore = score
		}
	}
	return best, true
}

// AboutSubject returns every memory an agent holds about a given subject.
func (b *MemoryBank) AboutSubject(agent, subject AgentID) []Memory {
	var out []Memory
	for _, m := range b.byAgent[agent] {
		if m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}
