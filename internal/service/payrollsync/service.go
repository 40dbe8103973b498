package payrollsync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	payrolldomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	payrollsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
)

// Service reconciles payroll rows with the current set of approved
// adjustment records. Recompute is a pure function of those records, so
// repeated runs with no intervening approval change produce identical
// amounts.
type Service struct {
	employeeRepo      employee.Repository
	payrollRepo       payrolldomain.Repository
	bonusRepo         adjustment.Repository
	reimbursementRepo adjustment.Repository
	deductionRepo     adjustment.Repository
	overtimeRepo      adjustment.OvertimeRepository
	calculator        *payrollsvc.Calculator
	notifier          payrolldomain.Notifier
	allowCreate       bool
	logger            *slog.Logger
}

func NewService(
	employeeRepo employee.Repository,
	payrollRepo payrolldomain.Repository,
	bonusRepo adjustment.Repository,
	reimbursementRepo adjustment.Repository,
	deductionRepo adjustment.Repository,
	overtimeRepo adjustment.OvertimeRepository,
	calculator *payrollsvc.Calculator,
	notifier payrolldomain.Notifier,
	allowCreate bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		employeeRepo:      employeeRepo,
		payrollRepo:       payrollRepo,
		bonusRepo:         bonusRepo,
		reimbursementRepo: reimbursementRepo,
		deductionRepo:     deductionRepo,
		overtimeRepo:      overtimeRepo,
		calculator:        calculator,
		notifier:          notifier,
		allowCreate:       allowCreate,
		logger:            logger,
	}
}

// Recompute rebuilds the payroll row for one employee and period from the
// current approved records. Locked rows are never touched. The fresh row
// always restarts at PENDING: an in-flight approval on stale numbers is
// invalid the moment its inputs change.
func (s *Service) Recompute(ctx context.Context, employeeID string, year int, month time.Month, triggers []payrolldomain.SyncTrigger, force bool) (payrolldomain.SyncResult, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payrolldomain.SyncResult{Status: payrolldomain.SyncSkipped, Reason: payrolldomain.SkipEmployeeNotFound}, nil
		}
		return payrolldomain.SyncResult{}, err
	}

	existing, err := s.payrollRepo.FindByEmployeePeriod(ctx, employeeID, year, int(month))
	exists := err == nil
	if err != nil && !errors.Is(err, payrolldomain.ErrPayrollNotFound) {
		return payrolldomain.SyncResult{}, err
	}

	if exists && payrolldomain.IsLocked(existing.Workflow.Status) {
		s.logger.Info("payroll locked, recompute skipped",
			"employee_id", employeeID, "year", year, "month", int(month),
			"status", existing.Workflow.Status)
		return payrolldomain.SyncResult{Status: payrolldomain.SyncSkipped, Reason: payrolldomain.SkipPayrollLocked}, nil
	}

	if exists && force {
		if err := s.payrollRepo.Delete(ctx, existing.ID); err != nil {
			return payrolldomain.SyncResult{}, err
		}
		exists = false
	}

	if !exists && !s.allowCreate && !force {
		return payrolldomain.SyncResult{Status: payrolldomain.SyncSkipped, Reason: payrolldomain.SkipCreationDisabled}, nil
	}

	calc, err := s.calculator.Calculate(ctx, emp, year, month)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	overtime, err := s.overtimeRepo.SumApprovedAmount(ctx, employeeID, monthStart, monthEnd)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}
	bonuses, err := s.sumAffecting(ctx, s.bonusRepo, approval.KindBonus, employeeID, monthStart, monthEnd)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}
	reimbursements, err := s.sumAffecting(ctx, s.reimbursementRepo, approval.KindReimbursement, employeeID, monthStart, monthEnd)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}
	deductions, err := s.sumAffecting(ctx, s.deductionRepo, approval.KindDeduction, employeeID, monthStart, monthEnd)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}

	// Tax is a pass-through from the existing row; this subsystem never
	// computes it.
	tax := decimal.Zero
	if exists {
		tax = existing.Tax
	}

	allowances := overtime.Add(reimbursements).Add(bonuses)
	net := payrollsvc.NetPayroll(calc.ProratedTotalSalary, overtime, reimbursements, bonuses, deductions, tax)

	row := payrolldomain.Payroll{
		EmployeeID:  employeeID,
		PeriodMonth: int(month),
		PeriodYear:  year,
		BaseSalary:  calc.ProratedBaseSalary,
		TotalSalary: calc.ProratedTotalSalary,
		Allowances:  allowances,
		Deductions:  deductions.Add(tax),
		Tax:         tax,
		NetSalary:   net,
		Workflow:    approval.NewState(),
	}

	stored, created, err := s.payrollRepo.Upsert(ctx, row)
	if err != nil {
		return payrolldomain.SyncResult{}, err
	}

	s.notifier.PayrollUpdated(ctx, stored, triggers)

	status := payrolldomain.SyncUpdated
	if created {
		status = payrolldomain.SyncCreated
	}
	s.logger.Info("payroll recomputed",
		"employee_id", employeeID, "year", year, "month", int(month),
		"status", status, "net_salary", net, "trigger_count", len(triggers))

	return payrolldomain.SyncResult{Status: status, Payroll: &stored}, nil
}

func (s *Service) sumAffecting(ctx context.Context, repo adjustment.Repository, kind approval.Kind, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	statuses := approval.GraphFor(kind).AffectingStatuses()
	return repo.SumAmountByStatus(ctx, employeeID, from, to, statuses)
}

// EmployeeOutcome is one employee's result within a batch generation run.
type EmployeeOutcome struct {
	EmployeeID string                   `json:"employee_id"`
	Result     payrolldomain.SyncResult `json:"result"`
}

// GenerateForPeriod runs a recompute for every requested employee. One
// employee's failure is reported as a skipped outcome and never aborts the
// rest of the batch.
func (s *Service) GenerateForPeriod(ctx context.Context, req payrolldomain.GeneratePayrollRequest) ([]EmployeeOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		active, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, emp := range active {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}

	trigger := payrolldomain.SyncTrigger{
		Kind:   approval.KindPayroll,
		Action: "generate",
		At:     time.Now().UTC(),
	}

	outcomes := make([]EmployeeOutcome, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		result, err := s.Recompute(ctx, id, req.PeriodYear, time.Month(req.PeriodMonth), []payrolldomain.SyncTrigger{trigger}, req.Force)
		if err != nil {
			s.logger.Error("payroll generation failed for employee",
				"employee_id", id, "year", req.PeriodYear, "month", req.PeriodMonth, "error", err)
			result = payrolldomain.SyncResult{Status: payrolldomain.SyncSkipped, Reason: payrolldomain.SkipCalculationError}
		}
		outcomes = append(outcomes, EmployeeOutcome{EmployeeID: id, Result: result})
	}

	return outcomes, nil
}

// ReconcileMissing creates payroll rows for active employees who have none
// for the given period. Existing rows are left alone, so the sweep never
// disturbs an in-flight approval. Run periodically as a safety net for
// debounce timers lost to a restart.
func (s *Service) ReconcileMissing(ctx context.Context, year int, month time.Month) error {
	if !s.allowCreate {
		return nil
	}

	active, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	created := 0
	for _, emp := range active {
		_, err := s.payrollRepo.FindByEmployeePeriod(ctx, emp.ID, year, int(month))
		if err == nil {
			continue
		}
		if !errors.Is(err, payrolldomain.ErrPayrollNotFound) {
			s.logger.Error("reconcile sweep lookup failed", "employee_id", emp.ID, "error", err)
			continue
		}

		trigger := payrolldomain.SyncTrigger{
			Kind:   approval.KindPayroll,
			Action: "reconcile",
			At:     time.Now().UTC(),
		}
		result, err := s.Recompute(ctx, emp.ID, year, month, []payrolldomain.SyncTrigger{trigger}, false)
		if err != nil {
			s.logger.Error("reconcile sweep recompute failed", "employee_id", emp.ID, "error", err)
			continue
		}
		if result.Status == payrolldomain.SyncCreated {
			created++
		}
	}

	if created > 0 {
		s.logger.Info("reconcile sweep created missing payrolls",
			"year", year, "month", int(month), "created", created)
	}
	return nil
}
