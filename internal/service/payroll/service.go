package payroll

import (
	"context"
	"log/slog"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
)

// Service exposes read access to payroll records.
type Service struct {
	payrollRepo payroll.Repository
	logger      *slog.Logger
}

func NewService(payrollRepo payroll.Repository, logger *slog.Logger) *Service {
	return &Service{
		payrollRepo: payrollRepo,
		logger:      logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(p), nil
}

func (s *Service) List(ctx context.Context, filter payroll.Filter) (payroll.ListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	rows, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(rows))
	for _, p := range rows {
		data = append(data, payroll.ToResponse(p))
	}

	return payroll.ListResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *Service) GetSummary(ctx context.Context, year, month int) (payroll.SummaryResponse, error) {
	if month < 1 || month > 12 || year < 2020 {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}
	return s.payrollRepo.GetSummary(ctx, year, month)
}
