package approval

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStatusConflict is returned when the atomic check-then-set on a
	// record's status finds the row changed since it was read.
	ErrStatusConflict = errors.New("record status changed concurrently")

	// ErrUnknownAction is returned for an action the kind's graph does not define.
	ErrUnknownAction = errors.New("unknown workflow action")
)

// InvalidTransitionError reports a transition attempted from a status outside
// the action's allowed source set.
type InvalidTransitionError struct {
	Kind    Kind
	Action  Action
	Current Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("%s: cannot %s while %s (allowed from: %s)",
		e.Kind, e.Action, e.Current, strings.Join(allowed, ", "))
}

// LockedRecordError reports an attempt to transition or mutate a record in a
// locked terminal status.
type LockedRecordError struct {
	Kind   Kind
	Status Status
}

func (e *LockedRecordError) Error() string {
	return fmt.Sprintf("%s is %s and can no longer be modified", e.Kind, e.Status)
}
