package social

// RitualSchedule tracks when a faction last held its ritual and the
// per-agent attendance counters feeding the social-belonging hysteresis.
type RitualSchedule struct {
	LastRitualTick uint64                    `json:"last_ritual_tick"`
	NextRitualTick uint64                    `json:"next_ritual_tick"`
	Attendance     map[string]uint64         `json:"attendance"`
	Missed         map[string]uint64         `json:"missed"`
}

// RitualInterval is the fixed spacing between a faction's rituals. The
// schedule maps each faction to its next-ritual tick; 50 ticks keeps
// rituals frequent enough to matter without dominating the event stream.
const RitualInterval = 50

// NewRitualSchedule creates a schedule whose first ritual is due at
// RitualInterval.
func NewRitualSchedule() *RitualSchedule {
	return &RitualSchedule{
		NextRitualTick: RitualInterval,
		Attendance:     make(map[string]uint64),
		Missed:         make(map[string]uint64),
	}
}

// Due reports whether the faction's ritual tick has arrived.
func (s *RitualSchedule) Due(tick uint64) bool {
	return tick >= s.NextRitualTick
}

// Advance records that the ritual ran (or was skipped) at tick and schedules
// the next one.
func (s *RitualSchedule) Advance(tick uint64) {
	s.LastRitualTick = tick
	s.NextRitualTick = tick + RitualInterval
}

// RitualAttendanceDecayInterval is the tick interval at which attendance
// and missed counters are halved, preventing unbounded growth over a long
// run.
const RitualAttendanceDecayInterval = 100

// RecordAttendance bumps an agent's attendance counter.
func (s *RitualSchedule) RecordAttendance(agent string) {
	s.Attendance[agent]++
}

// RecordMissed bumps an agent's missed-ritual counter.
func (s *RitualSchedule) RecordMissed(agent string) {
	s.Missed[agent]++
}

// DecayCounters halves every attendance/missed counter, called every
// RitualAttendanceDecayInterval ticks.
func (s *RitualSchedule) DecayCounters() {
	for k, v := range s.Attendance {
		s.Attendance[k] = v / 2
	}
	for k, v := range s.Missed {
		s.Missed[k] = v / 2
	}
}
