package notification

import (
	"context"
	"log/slog"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/sse"
)

// Service adapts the SSE hub to the payroll notifier contract. Payroll
// updates are broadcast to every connected dashboard subscriber.
type Service struct {
	hub    *sse.Hub
	logger *slog.Logger
}

func NewService(hub *sse.Hub, logger *slog.Logger) *Service {
	return &Service{
		hub:    hub,
		logger: logger,
	}
}

type payrollUpdatedPayload struct {
	Payroll  payroll.PayrollResponse `json:"payroll"`
	Triggers []payroll.SyncTrigger   `json:"triggers"`
}

func (s *Service) PayrollUpdated(ctx context.Context, p payroll.Payroll, triggers []payroll.SyncTrigger) {
	s.hub.Broadcast(sse.Event{
		Event: "payroll_updated",
		Data: payrollUpdatedPayload{
			Payroll:  payroll.ToResponse(p),
			Triggers: triggers,
		},
	})

	s.logger.Debug("payroll update broadcast",
		"payroll_id", p.ID, "employee_id", p.EmployeeID,
		"subscribers", s.hub.TotalSubscribers(), "trigger_count", len(triggers))
}
