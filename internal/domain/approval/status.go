package approval

// Status is a workflow status shared across all approvable record kinds.
// Each kind only uses the subset its graph defines.
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusFinanceApproved     Status = "FINANCE_APPROVED"
	StatusManagementApproved  Status = "MANAGEMENT_APPROVED"
	StatusReadyForPayroll     Status = "READY_FOR_PAYROLL"
	StatusAppliedToPayroll    Status = "APPLIED_TO_PAYROLL"
	StatusUploadedToBank      Status = "UPLOADED_TO_BANK"
	StatusBankPaymentApproved Status = "BANK_PAYMENT_APPROVED"
	StatusPaid                Status = "PAID"
	StatusOnHold              Status = "ON_HOLD"
	StatusRejected            Status = "REJECTED"
)

// Kind identifies which record type a workflow graph governs.
type Kind string

const (
	KindPayroll       Kind = "payroll"
	KindBonus         Kind = "bonus"
	KindReimbursement Kind = "reimbursement"
	KindDeduction     Kind = "deduction"

	// KindOvertime has no workflow graph; overtime uses a simple
	// pending/approved/rejected status. The kind exists for sync trigger
	// metadata only.
	KindOvertime Kind = "overtime"
)

// Action is a named transition on a workflow graph.
type Action string

const (
	ActionFinanceApprove      Action = "finance_approve"
	ActionManagementApprove   Action = "management_approve"
	ActionMarkReadyForPayroll Action = "mark_ready_for_payroll"
	ActionApplyToPayroll      Action = "apply_to_payroll"
	ActionUploadToBank        Action = "upload_to_bank"
	ActionConfirmBankPayment  Action = "confirm_bank_payment"
	ActionMarkPaid            Action = "mark_paid"
	ActionHold                Action = "hold"
	ActionReject              Action = "reject"
)
