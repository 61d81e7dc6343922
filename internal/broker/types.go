// Package broker implements the approval/verification rendezvous: a client
// worker goroutine can suspend on a request until an operator session
// decides it, or the request times out.
package broker

import "time"

// Outcome is the terminal status of an ApprovalRequest.
type Outcome string

const (
	Pending  Outcome = "PENDING"
	Approved Outcome = "APPROVED"
	Rejected Outcome = "REJECTED"
)

// OperationType distinguishes which queue a request belongs to and, for
// the operation queue, which handler issued it.
type OperationType string

const (
	OpWithdraw     OperationType = "WITHDRAW"
	OpTransfer     OperationType = "TRANSFER"
	OpVerification OperationType = "VERIFICATION"
)

// ApprovalRequest is a single queued decision point, either a large
// operation awaiting an operator's approval or a new client awaiting
// verification.
type ApprovalRequest struct {
	RequestID       string
	ClientAccountID string
	OperationType   OperationType
	Amount          float64
	TargetAccount   string
	Description     string
	Timestamp       time.Time
	Status          Outcome
}
