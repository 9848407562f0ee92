// Package ents provides the core entity model: agents, traits, needs, goals,
// trust, and memories.
package ents

// AgentID identifies an agent uniquely across the run.
type AgentID string

// FactionID identifies a faction uniquely across the run.
type FactionID string

// LocationID identifies a location uniquely across the run.
type LocationID string

// MemoryID identifies a single memory record.
type MemoryID string

// ArchiveEntryID identifies a faction archive entry.
type ArchiveEntryID string

// EventID is a monotonically increasing identifier for emitted events.
type EventID uint64
