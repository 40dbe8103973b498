package leave

import "time"

type RequestStatus string

const (
	RequestStatusWaitingApproval RequestStatus = "waiting_approval"
	RequestStatusApproved        RequestStatus = "approved"
	RequestStatusRejected        RequestStatus = "rejected"
	RequestStatusCancelled       RequestStatus = "cancelled"
)

const (
	TypeUnpaid    = "unpaid"
	TypeEmergency = "emergency"

	CompensationUnpaid = "unpaid"
)

// Request is a read-only view of a leave request. Leave CRUD lives outside
// this subsystem; payroll only needs enough to detect unpaid days.
type Request struct {
	ID                 string
	EmployeeID         string
	LeaveType          string
	StartDate          time.Time
	EndDate            time.Time
	Status             RequestStatus
	EmergencyLeave     bool
	CompensationMethod *string
}

// Unpaid reports whether the leave deducts pay: either an explicit unpaid
// leave type, or an emergency leave compensated as unpaid.
func (r Request) Unpaid() bool {
	if r.LeaveType == TypeUnpaid {
		return true
	}
	return r.EmergencyLeave && r.CompensationMethod != nil && *r.CompensationMethod == CompensationUnpaid
}

// Holiday is a read-only public holiday entry.
type Holiday struct {
	ID   string
	Name string
	Date time.Time
}
