package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
)

// Service drives workflow transitions for payrolls, adjustments, and
// overtime. It owns the side effect wiring: every successful adjustment
// transition schedules a debounced recompute of the owning payroll, so the
// eventual run carries the full approval trail in its trigger list.
type Service struct {
	adjustmentRepos map[approval.Kind]adjustment.Repository
	overtimeRepo    adjustment.OvertimeRepository
	payrollRepo     payroll.Repository
	scheduler       payroll.SyncScheduler
	logger          *slog.Logger
}

func NewService(
	bonusRepo adjustment.Repository,
	reimbursementRepo adjustment.Repository,
	deductionRepo adjustment.Repository,
	overtimeRepo adjustment.OvertimeRepository,
	payrollRepo payroll.Repository,
	scheduler payroll.SyncScheduler,
	logger *slog.Logger,
) *Service {
	return &Service{
		adjustmentRepos: map[approval.Kind]adjustment.Repository{
			approval.KindBonus:         bonusRepo,
			approval.KindReimbursement: reimbursementRepo,
			approval.KindDeduction:     deductionRepo,
		},
		overtimeRepo: overtimeRepo,
		payrollRepo:  payrollRepo,
		scheduler:    scheduler,
		logger:       logger,
	}
}

// TransitionAdjustment applies a workflow action to a bonus, reimbursement,
// or deduction record and schedules a recompute of the owning payroll. The
// scheduler coalesces a burst of transitions into one recompute that reports
// every contributing trigger.
func (s *Service) TransitionAdjustment(ctx context.Context, kind approval.Kind, id, actorID string, action approval.Action, reason *string) (adjustment.Record, error) {
	repo, ok := s.adjustmentRepos[kind]
	if !ok {
		return adjustment.Record{}, approval.ErrUnknownAction
	}

	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return adjustment.Record{}, err
	}

	graph := approval.GraphFor(kind)
	before := rec.Workflow.Status

	st := rec.Workflow
	if err := graph.Transition(&st, action, actorID, reason, time.Now().UTC()); err != nil {
		return adjustment.Record{}, err
	}

	updated, err := repo.UpdateWorkflow(ctx, id, before, st)
	if err != nil {
		return adjustment.Record{}, err
	}

	s.scheduler.Schedule(updated.EmployeeID, updated.Date.Year(), updated.Date.Month(), payroll.SyncTrigger{
		Kind:     kind,
		RecordID: updated.ID,
		Action:   action,
		ActorID:  actorID,
		At:       time.Now().UTC(),
	})

	s.logger.Info("adjustment workflow transition",
		"kind", kind, "record_id", id, "action", action,
		"from", before, "to", st.Status, "actor_id", actorID)

	return updated, nil
}

// TransitionPayroll applies a workflow action to a payroll record. Payroll
// transitions never schedule a recompute.
func (s *Service) TransitionPayroll(ctx context.Context, id, actorID string, action approval.Action, reason *string) (payroll.Payroll, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payroll{}, err
	}

	graph := approval.GraphFor(approval.KindPayroll)
	before := p.Workflow.Status

	st := p.Workflow
	if err := graph.Transition(&st, action, actorID, reason, time.Now().UTC()); err != nil {
		return payroll.Payroll{}, err
	}

	if err := s.payrollRepo.UpdateWorkflow(ctx, id, before, st); err != nil {
		return payroll.Payroll{}, err
	}

	s.logger.Info("payroll workflow transition",
		"payroll_id", id, "action", action,
		"from", before, "to", st.Status, "actor_id", actorID)

	p.Workflow = st
	return p, nil
}

// ApproveOvertime marks a pending overtime record approved and schedules a
// recompute, since approved overtime feeds payroll allowances.
func (s *Service) ApproveOvertime(ctx context.Context, id, actorID string) (adjustment.Overtime, error) {
	ot, err := s.overtimeRepo.UpdateStatus(ctx, id, adjustment.OvertimeStatusPending, adjustment.OvertimeStatusApproved, actorID, nil)
	if err != nil {
		return adjustment.Overtime{}, err
	}

	s.scheduler.Schedule(ot.EmployeeID, ot.Date.Year(), ot.Date.Month(), payroll.SyncTrigger{
		Kind:     approval.KindOvertime,
		RecordID: ot.ID,
		Action:   "approve",
		ActorID:  actorID,
		At:       time.Now().UTC(),
	})

	s.logger.Info("overtime approved", "overtime_id", id, "actor_id", actorID)
	return ot, nil
}

// RejectOvertime marks a pending overtime record rejected. Rejecting a
// pending record never affected payroll totals, so no recompute is needed.
func (s *Service) RejectOvertime(ctx context.Context, id, actorID string, reason string) (adjustment.Overtime, error) {
	ot, err := s.overtimeRepo.UpdateStatus(ctx, id, adjustment.OvertimeStatusPending, adjustment.OvertimeStatusRejected, actorID, &reason)
	if err != nil {
		return adjustment.Overtime{}, err
	}

	s.logger.Info("overtime rejected", "overtime_id", id, "actor_id", actorID)
	return ot, nil
}
