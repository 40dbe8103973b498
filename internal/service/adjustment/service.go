package adjustment

import (
	"context"
	"log/slog"

	adjdomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
	payrollsvc "github.com/gulfline-hr/payroll-backend-go/internal/service/payroll"
)

// Service creates and reads adjustment records. New records always start at
// PENDING; the workflow service owns every later status change.
type Service struct {
	repos        map[approval.Kind]adjdomain.Repository
	overtimeRepo adjdomain.OvertimeRepository
	employeeRepo employee.Repository
	logger       *slog.Logger
}

func NewService(
	bonusRepo adjdomain.Repository,
	reimbursementRepo adjdomain.Repository,
	deductionRepo adjdomain.Repository,
	overtimeRepo adjdomain.OvertimeRepository,
	employeeRepo employee.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		repos: map[approval.Kind]adjdomain.Repository{
			approval.KindBonus:         bonusRepo,
			approval.KindReimbursement: reimbursementRepo,
			approval.KindDeduction:     deductionRepo,
		},
		overtimeRepo: overtimeRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func (s *Service) repoFor(kind approval.Kind) (adjdomain.Repository, error) {
	repo, ok := s.repos[kind]
	if !ok {
		return nil, validator.ValidationErrors{{Field: "kind", Message: "must be bonus, reimbursement, or deduction"}}
	}
	return repo, nil
}

// CreateRecord stores a new bonus, reimbursement, or deduction at PENDING.
func (s *Service) CreateRecord(ctx context.Context, kind approval.Kind, req adjdomain.CreateRecordRequest) (adjdomain.RecordResponse, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return adjdomain.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return adjdomain.RecordResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return adjdomain.RecordResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	rec := adjdomain.Record{
		EmployeeID:  req.EmployeeID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Workflow:    approval.NewState(),
	}

	created, err := repo.Create(ctx, rec)
	if err != nil {
		return adjdomain.RecordResponse{}, err
	}

	s.logger.Info("adjustment record created",
		"kind", kind, "record_id", created.ID, "employee_id", created.EmployeeID,
		"amount", created.Amount)

	return adjdomain.ToRecordResponse(created), nil
}

func (s *Service) GetRecord(ctx context.Context, kind approval.Kind, id string) (adjdomain.RecordResponse, error) {
	repo, err := s.repoFor(kind)
	if err != nil {
		return adjdomain.RecordResponse{}, err
	}
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return adjdomain.RecordResponse{}, err
	}
	return adjdomain.ToRecordResponse(rec), nil
}

// CreateOvertime stores a new overtime record at PENDING. The payable amount
// is fixed at creation from the employee's base salary and the statutory
// overtime rules, so later salary changes never reprice past overtime.
func (s *Service) CreateOvertime(ctx context.Context, req adjdomain.CreateOvertimeRequest) (adjdomain.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return adjdomain.OvertimeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return adjdomain.OvertimeResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	amount := payrollsvc.OvertimePay(emp.BaseSalary, req.Hours, req.IsRestDayOrHoliday, req.IsNightWork, req.UseCompensatoryDay)

	ot := adjdomain.Overtime{
		EmployeeID:         req.EmployeeID,
		Date:               date,
		Hours:              req.Hours,
		IsRestDayOrHoliday: req.IsRestDayOrHoliday,
		IsNightWork:        req.IsNightWork,
		UseCompensatoryDay: req.UseCompensatoryDay,
		Amount:             amount,
		Status:             adjdomain.OvertimeStatusPending,
	}

	created, err := s.overtimeRepo.Create(ctx, ot)
	if err != nil {
		return adjdomain.OvertimeResponse{}, err
	}

	s.logger.Info("overtime record created",
		"overtime_id", created.ID, "employee_id", created.EmployeeID,
		"hours", created.Hours, "amount", created.Amount)

	return adjdomain.ToOvertimeResponse(created), nil
}

func (s *Service) GetOvertime(ctx context.Context, id string) (adjdomain.OvertimeResponse, error) {
	ot, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return adjdomain.OvertimeResponse{}, err
	}
	return adjdomain.ToOvertimeResponse(ot), nil
}
