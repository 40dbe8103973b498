package approval

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Stamp records who performed a stage approval and when.
type Stamp struct {
	ActorID string    `json:"actor_id"`
	At      time.Time `json:"at"`
}

// StampSet maps each reached forward stage to its approval stamp.
// Stored as JSONB.
type StampSet map[Status]Stamp

// Value implements driver.Valuer for database storage
func (s StampSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *StampSet) Scan(value interface{}) error {
	if value == nil {
		*s = StampSet{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StampSet: invalid type")
	}

	return json.Unmarshal(bytes, s)
}

// HoldEvent is one entry in the append-only on-hold history.
type HoldEvent struct {
	Reason     string     `json:"reason"`
	ActorID    string     `json:"actor_id"`
	At         time.Time  `json:"at"`
	ReleasedBy *string    `json:"released_by,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// HoldLog is the append-only on-hold history. Stored as JSONB.
type HoldLog []HoldEvent

// Value implements driver.Valuer for database storage
func (h HoldLog) Value() (driver.Value, error) {
	if len(h) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *HoldLog) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan HoldLog: invalid type")
	}

	return json.Unmarshal(bytes, h)
}

// State is the workflow portion of an approvable record. Every kind
// (payroll, bonus, reimbursement, deduction) carries one; the graph for the
// kind decides which transitions are legal.
type State struct {
	Status Status   `json:"status"`
	Stamps StampSet `json:"stamps"`

	// Hold fields for the current hold, if any. HeldFrom remembers the
	// status the record was in when it was put on hold so forward
	// transitions can resume from the right place.
	HeldFrom    *Status    `json:"held_from,omitempty"`
	HoldReason  *string    `json:"hold_reason,omitempty"`
	HoldBy      *string    `json:"hold_by,omitempty"`
	HoldAt      *time.Time `json:"hold_at,omitempty"`
	HoldHistory HoldLog    `json:"hold_history,omitempty"`

	// Reject audit. For payroll RejectedFrom records the stage the record
	// was rejected at before being routed back to PENDING.
	RejectReason *string    `json:"reject_reason,omitempty"`
	RejectedBy   *string    `json:"rejected_by,omitempty"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty"`
	RejectedFrom *Status    `json:"rejected_from,omitempty"`
}

// NewState returns a fresh workflow state at PENDING with no audit trail.
func NewState() State {
	return State{
		Status: StatusPending,
		Stamps: StampSet{},
	}
}

// OnHold reports whether the record is currently held.
func (s *State) OnHold() bool {
	return s.Status == StatusOnHold
}

// clearHold releases the current hold, marking the latest history entry.
func (s *State) clearHold(actorID string, now time.Time) {
	if s.HoldReason == nil && s.HeldFrom == nil {
		return
	}
	if n := len(s.HoldHistory); n > 0 && s.HoldHistory[n-1].ReleasedAt == nil {
		s.HoldHistory[n-1].ReleasedBy = &actorID
		s.HoldHistory[n-1].ReleasedAt = &now
	}
	s.HeldFrom = nil
	s.HoldReason = nil
	s.HoldBy = nil
	s.HoldAt = nil
}
