package approval

import (
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
)

type transition struct {
	target Status
	// sources lists the statuses the action may be applied from. ON_HOLD in
	// the list means the action resumes a held record regardless of where it
	// was held (the bonus-style "re-run finance approval" resume).
	sources []Status
	// resumesHold lets the action run on an ON_HOLD record when the
	// remembered pre-hold status is in sources (the payroll-style "next
	// forward approval clears the hold").
	resumesHold    bool
	requiresReason bool
	forward        bool
}

// Graph is the status graph for one record kind. All four kinds share the
// same machinery; only the transition table, locked set, and affecting set
// differ.
type Graph struct {
	kind         Kind
	order        []Status
	locked       map[Status]bool
	affecting    map[Status]bool
	transitions  map[Action]transition
	rejectTarget Status
}

var (
	bonusGraph         = newAdjustmentGraph(KindBonus)
	deductionGraph     = newAdjustmentGraph(KindDeduction)
	reimbursementGraph = newReimbursementGraph()
	payrollGraph       = newPayrollGraph()
)

// GraphFor returns the shared graph instance for a kind.
func GraphFor(kind Kind) *Graph {
	switch kind {
	case KindBonus:
		return bonusGraph
	case KindDeduction:
		return deductionGraph
	case KindReimbursement:
		return reimbursementGraph
	default:
		return payrollGraph
	}
}

// newAdjustmentGraph builds the bonus/deduction graph:
// PENDING -> FINANCE_APPROVED -> MANAGEMENT_APPROVED -> READY_FOR_PAYROLL -> APPLIED_TO_PAYROLL.
func newAdjustmentGraph(kind Kind) *Graph {
	return &Graph{
		kind:  kind,
		order: []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusReadyForPayroll, StatusAppliedToPayroll},
		locked: map[Status]bool{
			StatusAppliedToPayroll: true,
		},
		affecting: map[Status]bool{
			StatusManagementApproved: true,
			StatusReadyForPayroll:    true,
			StatusAppliedToPayroll:   true,
		},
		transitions: map[Action]transition{
			ActionFinanceApprove: {
				target:  StatusFinanceApproved,
				sources: []Status{StatusPending, StatusOnHold},
				forward: true,
			},
			ActionManagementApprove: {
				target:  StatusManagementApproved,
				sources: []Status{StatusFinanceApproved},
				forward: true,
			},
			ActionMarkReadyForPayroll: {
				target:  StatusReadyForPayroll,
				sources: []Status{StatusManagementApproved},
				forward: true,
			},
			ActionApplyToPayroll: {
				target:  StatusAppliedToPayroll,
				sources: []Status{StatusReadyForPayroll},
				forward: true,
			},
			ActionHold: {
				target:         StatusOnHold,
				sources:        []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusReadyForPayroll},
				requiresReason: true,
			},
			ActionReject: {
				target:         StatusRejected,
				sources:        []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusReadyForPayroll, StatusOnHold},
				requiresReason: true,
			},
		},
		rejectTarget: StatusRejected,
	}
}

// newReimbursementGraph builds:
// PENDING -> FINANCE_APPROVED -> MANAGEMENT_APPROVED -> UPLOADED_TO_BANK -> PAID.
func newReimbursementGraph() *Graph {
	return &Graph{
		kind:  KindReimbursement,
		order: []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank, StatusPaid},
		locked: map[Status]bool{
			StatusPaid: true,
		},
		affecting: map[Status]bool{
			StatusManagementApproved: true,
			StatusUploadedToBank:     true,
			StatusPaid:               true,
		},
		transitions: map[Action]transition{
			ActionFinanceApprove: {
				target:  StatusFinanceApproved,
				sources: []Status{StatusPending, StatusOnHold},
				forward: true,
			},
			ActionManagementApprove: {
				target:  StatusManagementApproved,
				sources: []Status{StatusFinanceApproved},
				forward: true,
			},
			ActionUploadToBank: {
				target:  StatusUploadedToBank,
				sources: []Status{StatusManagementApproved},
				forward: true,
			},
			ActionMarkPaid: {
				target:  StatusPaid,
				sources: []Status{StatusUploadedToBank},
				forward: true,
			},
			ActionHold: {
				target:         StatusOnHold,
				sources:        []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank},
				requiresReason: true,
			},
			ActionReject: {
				target:         StatusRejected,
				sources:        []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank, StatusOnHold},
				requiresReason: true,
			},
		},
		rejectTarget: StatusRejected,
	}
}

// newPayrollGraph builds:
// PENDING -> FINANCE_APPROVED -> MANAGEMENT_APPROVED -> UPLOADED_TO_BANK -> BANK_PAYMENT_APPROVED.
// REJECTED routes back to PENDING and is only reachable post-finance. A hold
// clears on the next forward approval from the remembered pre-hold stage.
func newPayrollGraph() *Graph {
	return &Graph{
		kind:  KindPayroll,
		order: []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank, StatusBankPaymentApproved},
		locked: map[Status]bool{
			StatusBankPaymentApproved: true,
		},
		affecting: map[Status]bool{},
		transitions: map[Action]transition{
			ActionFinanceApprove: {
				target:      StatusFinanceApproved,
				sources:     []Status{StatusPending},
				resumesHold: true,
				forward:     true,
			},
			ActionManagementApprove: {
				target:      StatusManagementApproved,
				sources:     []Status{StatusFinanceApproved},
				resumesHold: true,
				forward:     true,
			},
			ActionUploadToBank: {
				target:      StatusUploadedToBank,
				sources:     []Status{StatusManagementApproved},
				resumesHold: true,
				forward:     true,
			},
			ActionConfirmBankPayment: {
				target:      StatusBankPaymentApproved,
				sources:     []Status{StatusUploadedToBank},
				resumesHold: true,
				forward:     true,
			},
			ActionHold: {
				target:         StatusOnHold,
				sources:        []Status{StatusPending, StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank},
				requiresReason: true,
			},
			ActionReject: {
				target:         StatusPending,
				sources:        []Status{StatusFinanceApproved, StatusManagementApproved, StatusUploadedToBank},
				resumesHold:    true,
				requiresReason: true,
			},
		},
		rejectTarget: StatusPending,
	}
}

// Kind returns the record kind this graph governs.
func (g *Graph) Kind() Kind { return g.kind }

// IsLocked reports whether s is a terminal status no transition may leave.
func (g *Graph) IsLocked(s Status) bool { return g.locked[s] }

// Affects reports whether a record in status s counts toward payroll totals.
func (g *Graph) Affects(s Status) bool { return g.affecting[s] }

// AffectingStatuses returns the statuses that count toward payroll totals,
// in graph order. Used by repositories to build sum queries.
func (g *Graph) AffectingStatuses() []Status {
	var out []Status
	for _, s := range g.order {
		if g.affecting[s] {
			out = append(out, s)
		}
	}
	return out
}

// Transition validates and applies action to st. On success st is mutated in
// place: status updated, actor/timestamp stamped, stale hold fields cleared
// on forward progress. The caller persists the result.
func (g *Graph) Transition(st *State, action Action, actorID string, reason *string, now time.Time) error {
	if validator.IsEmpty(actorID) {
		return validator.ValidationErrors{{Field: "actor_id", Message: "is required"}}
	}

	if g.locked[st.Status] {
		return &LockedRecordError{Kind: g.kind, Status: st.Status}
	}

	tr, ok := g.transitions[action]
	if !ok {
		return ErrUnknownAction
	}

	effective := st.Status
	if st.Status == StatusOnHold && tr.resumesHold && st.HeldFrom != nil {
		effective = *st.HeldFrom
	}
	if !statusIn(effective, tr.sources) {
		return &InvalidTransitionError{Kind: g.kind, Action: action, Current: st.Status, Allowed: tr.sources}
	}

	if tr.requiresReason && (reason == nil || validator.IsEmpty(*reason)) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}

	switch action {
	case ActionHold:
		st.HeldFrom = &effective
		st.HoldReason = reason
		st.HoldBy = &actorID
		st.HoldAt = &now
		st.HoldHistory = append(st.HoldHistory, HoldEvent{Reason: *reason, ActorID: actorID, At: now})
		st.Status = StatusOnHold

	case ActionReject:
		st.clearHold(actorID, now)
		st.RejectReason = reason
		st.RejectedBy = &actorID
		st.RejectedAt = &now
		if g.rejectTarget == StatusPending {
			// Payroll: route back to PENDING, remember the stage it was
			// rejected at, and wipe all prior stage approvals.
			from := effective
			st.RejectedFrom = &from
			st.Stamps = StampSet{}
		}
		st.Status = g.rejectTarget

	default:
		st.clearHold(actorID, now)
		if st.Stamps == nil {
			st.Stamps = StampSet{}
		}
		st.Stamps[tr.target] = Stamp{ActorID: actorID, At: now}
		g.clearStampsAfter(st, tr.target)
		st.Status = tr.target
	}

	return nil
}

// clearStampsAfter drops stamps for stages beyond target. Resuming a held
// record from an earlier stage invalidates downstream approvals.
func (g *Graph) clearStampsAfter(st *State, target Status) {
	past := false
	for _, s := range g.order {
		if past {
			delete(st.Stamps, s)
		}
		if s == target {
			past = true
		}
	}
}

func statusIn(s Status, set []Status) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
