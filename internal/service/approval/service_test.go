package approval

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	payrolldomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/service/payrollsync"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdjustmentRepo struct {
	records map[string]adjustment.Record
}

func newMemAdjustmentRepo() *memAdjustmentRepo {
	return &memAdjustmentRepo{records: make(map[string]adjustment.Record)}
}

func (m *memAdjustmentRepo) Create(ctx context.Context, rec adjustment.Record) (adjustment.Record, error) {
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memAdjustmentRepo) GetByID(ctx context.Context, id string) (adjustment.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return adjustment.Record{}, adjustment.ErrBonusNotFound
	}
	return rec, nil
}

func (m *memAdjustmentRepo) UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) (adjustment.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return adjustment.Record{}, adjustment.ErrBonusNotFound
	}
	if rec.Workflow.Status != expected {
		return adjustment.Record{}, approval.ErrStatusConflict
	}
	rec.Workflow = st
	m.records[id] = rec
	return rec, nil
}

func (m *memAdjustmentRepo) SumAmountByStatus(ctx context.Context, employeeID string, from, to time.Time, statuses []approval.Status) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memOvertimeRepo struct {
	records map[string]adjustment.Overtime
}

func newMemOvertimeRepo() *memOvertimeRepo {
	return &memOvertimeRepo{records: make(map[string]adjustment.Overtime)}
}

func (m *memOvertimeRepo) Create(ctx context.Context, ot adjustment.Overtime) (adjustment.Overtime, error) {
	m.records[ot.ID] = ot
	return ot, nil
}

func (m *memOvertimeRepo) GetByID(ctx context.Context, id string) (adjustment.Overtime, error) {
	ot, ok := m.records[id]
	if !ok {
		return adjustment.Overtime{}, adjustment.ErrOvertimeNotFound
	}
	return ot, nil
}

func (m *memOvertimeRepo) UpdateStatus(ctx context.Context, id string, expected, next adjustment.OvertimeStatus, actorID string, reason *string) (adjustment.Overtime, error) {
	ot, ok := m.records[id]
	if !ok {
		return adjustment.Overtime{}, adjustment.ErrOvertimeNotFound
	}
	if ot.Status != expected {
		return adjustment.Overtime{}, adjustment.ErrOvertimeAlreadyDecided
	}
	ot.Status = next
	ot.DecidedBy = &actorID
	ot.RejectReason = reason
	m.records[id] = ot
	return ot, nil
}

func (m *memOvertimeRepo) SumApprovedAmount(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type scheduleCall struct {
	employeeID string
	year       int
	month      time.Month
	trigger    payrolldomain.SyncTrigger
}

type recordingScheduler struct {
	calls []scheduleCall
}

func (r *recordingScheduler) Schedule(employeeID string, year int, month time.Month, trig payrolldomain.SyncTrigger) {
	r.calls = append(r.calls, scheduleCall{employeeID: employeeID, year: year, month: month, trigger: trig})
}

type stubPayrollRepo struct {
	payrolldomain.Repository
	rows map[string]payrolldomain.Payroll
}

func (s *stubPayrollRepo) GetByID(ctx context.Context, id string) (payrolldomain.Payroll, error) {
	p, ok := s.rows[id]
	if !ok {
		return payrolldomain.Payroll{}, payrolldomain.ErrPayrollNotFound
	}
	return p, nil
}

func (s *stubPayrollRepo) UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) error {
	p, ok := s.rows[id]
	if !ok {
		return payrolldomain.ErrPayrollNotFound
	}
	if p.Workflow.Status != expected {
		return approval.ErrStatusConflict
	}
	p.Workflow = st
	s.rows[id] = p
	return nil
}

type fixture struct {
	svc       *Service
	bonuses   *memAdjustmentRepo
	overtimes *memOvertimeRepo
	payrolls  *stubPayrollRepo
	scheduler *recordingScheduler
}

func newFixture() *fixture {
	f := &fixture{
		bonuses:   newMemAdjustmentRepo(),
		overtimes: newMemOvertimeRepo(),
		payrolls:  &stubPayrollRepo{rows: make(map[string]payrolldomain.Payroll)},
		scheduler: &recordingScheduler{},
	}
	f.svc = NewService(
		f.bonuses,
		newMemAdjustmentRepo(),
		newMemAdjustmentRepo(),
		f.overtimes,
		f.payrolls,
		f.scheduler,
		slog.Default(),
	)
	return f
}

func seedBonus(f *fixture, id string, status approval.Status) {
	st := approval.NewState()
	st.Status = status
	f.bonuses.records[id] = adjustment.Record{
		ID:         id,
		EmployeeID: "emp-1",
		Amount:     decimal.RequireFromString("500"),
		Date:       time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC),
		Workflow:   st,
	}
}

func TestTransitionAdjustment_EveryTransitionSchedules(t *testing.T) {
	f := newFixture()
	seedBonus(f, "bonus-1", approval.StatusPending)

	rec, err := f.svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-1", approval.ActionFinanceApprove, nil)
	require.NoError(t, err)

	assert.Equal(t, approval.StatusFinanceApproved, rec.Workflow.Status)
	require.Len(t, f.scheduler.calls, 1)
	call := f.scheduler.calls[0]
	assert.Equal(t, "emp-1", call.employeeID)
	assert.Equal(t, 2023, call.year)
	assert.Equal(t, time.October, call.month)
	assert.Equal(t, approval.KindBonus, call.trigger.Kind)
	assert.Equal(t, "bonus-1", call.trigger.RecordID)
	assert.Equal(t, approval.ActionFinanceApprove, call.trigger.Action)
}

func TestTransitionAdjustment_BurstReportsEveryTrigger(t *testing.T) {
	f := newFixture()
	seedBonus(f, "bonus-1", approval.StatusPending)

	_, err := f.svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-1", approval.ActionFinanceApprove, nil)
	require.NoError(t, err)
	rec, err := f.svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-2", approval.ActionManagementApprove, nil)
	require.NoError(t, err)

	assert.Equal(t, approval.StatusManagementApproved, rec.Workflow.Status)

	// Both approvals reach the scheduler on the same key; the debounce
	// coalesces them into one recompute carrying both triggers.
	require.Len(t, f.scheduler.calls, 2)
	assert.Equal(t, approval.ActionFinanceApprove, f.scheduler.calls[0].trigger.Action)
	assert.Equal(t, approval.ActionManagementApprove, f.scheduler.calls[1].trigger.Action)
	for _, call := range f.scheduler.calls {
		assert.Equal(t, "emp-1", call.employeeID)
		assert.Equal(t, 2023, call.year)
		assert.Equal(t, time.October, call.month)
	}
}

func TestTransitionAdjustment_HoldSchedules(t *testing.T) {
	f := newFixture()
	st := approval.NewState()
	require.NoError(t, advanceTo(&st, approval.KindBonus, approval.ActionFinanceApprove, approval.ActionManagementApprove))
	f.bonuses.records["bonus-1"] = adjustment.Record{
		ID:         "bonus-1",
		EmployeeID: "emp-1",
		Amount:     decimal.RequireFromString("500"),
		Date:       time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC),
		Workflow:   st,
	}

	reason := "query from finance"
	_, err := f.svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-1", approval.ActionHold, &reason)
	require.NoError(t, err)

	require.Len(t, f.scheduler.calls, 1, "holding an approved record must trigger a recompute")
	assert.Equal(t, approval.ActionHold, f.scheduler.calls[0].trigger.Action)
}

func TestTransitionAdjustment_InvalidActionDoesNotPersist(t *testing.T) {
	f := newFixture()
	seedBonus(f, "bonus-1", approval.StatusPending)

	_, err := f.svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-1", approval.ActionManagementApprove, nil)

	var invalid *approval.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	rec, _ := f.bonuses.GetByID(context.Background(), "bonus-1")
	assert.Equal(t, approval.StatusPending, rec.Workflow.Status)
	assert.Empty(t, f.scheduler.calls)
}

func TestTransitionPayroll_NeverSchedules(t *testing.T) {
	f := newFixture()
	f.payrolls.rows["payroll-1"] = payrolldomain.Payroll{
		ID:         "payroll-1",
		EmployeeID: "emp-1",
		Workflow:   approval.NewState(),
	}

	p, err := f.svc.TransitionPayroll(context.Background(), "payroll-1", "actor-1", approval.ActionFinanceApprove, nil)
	require.NoError(t, err)

	assert.Equal(t, approval.StatusFinanceApproved, p.Workflow.Status)
	assert.Empty(t, f.scheduler.calls)
}

func TestApproveOvertime_Schedules(t *testing.T) {
	f := newFixture()
	f.overtimes.records["ot-1"] = adjustment.Overtime{
		ID:         "ot-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2023, time.October, 12, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.RequireFromString("100"),
		Status:     adjustment.OvertimeStatusPending,
	}

	ot, err := f.svc.ApproveOvertime(context.Background(), "ot-1", "actor-1")
	require.NoError(t, err)

	assert.Equal(t, adjustment.OvertimeStatusApproved, ot.Status)
	require.Len(t, f.scheduler.calls, 1)
	assert.Equal(t, approval.KindOvertime, f.scheduler.calls[0].trigger.Kind)

	// A second decision on the same record fails.
	_, err = f.svc.ApproveOvertime(context.Background(), "ot-1", "actor-2")
	assert.ErrorIs(t, err, adjustment.ErrOvertimeAlreadyDecided)
}

func TestRejectOvertime_DoesNotSchedule(t *testing.T) {
	f := newFixture()
	f.overtimes.records["ot-1"] = adjustment.Overtime{
		ID:         "ot-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2023, time.October, 12, 0, 0, 0, 0, time.UTC),
		Status:     adjustment.OvertimeStatusPending,
	}

	ot, err := f.svc.RejectOvertime(context.Background(), "ot-1", "actor-1", "not pre-approved")
	require.NoError(t, err)

	assert.Equal(t, adjustment.OvertimeStatusRejected, ot.Status)
	require.NotNil(t, ot.RejectReason)
	assert.Empty(t, f.scheduler.calls)
}

type burstRecomputer struct {
	mu    sync.Mutex
	calls [][]payrolldomain.SyncTrigger
}

func (b *burstRecomputer) Recompute(ctx context.Context, employeeID string, year int, month time.Month, triggers []payrolldomain.SyncTrigger, force bool) (payrolldomain.SyncResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, triggers)
	return payrolldomain.SyncResult{Status: payrolldomain.SyncUpdated}, nil
}

func TestTransitionAdjustment_BurstCoalescesIntoOneRecompute(t *testing.T) {
	recomputer := &burstRecomputer{}
	sched := payrollsync.NewScheduler(recomputer, time.Hour, slog.Default())
	defer sched.Stop()

	bonuses := newMemAdjustmentRepo()
	svc := NewService(
		bonuses,
		newMemAdjustmentRepo(),
		newMemAdjustmentRepo(),
		newMemOvertimeRepo(),
		&stubPayrollRepo{rows: make(map[string]payrolldomain.Payroll)},
		sched,
		slog.Default(),
	)
	bonuses.records["bonus-1"] = adjustment.Record{
		ID:         "bonus-1",
		EmployeeID: "emp-1",
		Amount:     decimal.RequireFromString("500"),
		Date:       time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC),
		Workflow:   approval.NewState(),
	}

	_, err := svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-1", approval.ActionFinanceApprove, nil)
	require.NoError(t, err)
	_, err = svc.TransitionAdjustment(context.Background(), approval.KindBonus, "bonus-1", "actor-2", approval.ActionManagementApprove, nil)
	require.NoError(t, err)

	sched.Flush()

	require.Len(t, recomputer.calls, 1, "a burst of approvals fires exactly one recompute")
	triggers := recomputer.calls[0]
	require.Len(t, triggers, 2)
	assert.Equal(t, approval.ActionFinanceApprove, triggers[0].Action)
	assert.Equal(t, approval.ActionManagementApprove, triggers[1].Action)
}

func advanceTo(st *approval.State, kind approval.Kind, actions ...approval.Action) error {
	g := approval.GraphFor(kind)
	for _, a := range actions {
		if err := g.Transition(st, a, "seed-actor", nil, time.Now()); err != nil {
			return err
		}
	}
	return nil
}
