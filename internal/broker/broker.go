package broker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind selects which of the two FIFOs an operation targets.
type Kind int

const (
	OperationQueue Kind = iota
	VerificationQueue
)

var ErrIndexOutOfRange = errors.New("request index out of range")

// Broker holds the operation-approval and verification-approval queues. A
// single mutex guards both; a condition variable wakes blocked waiters
// whenever a decision is made or the periodic ticker fires, so a waiter can
// re-check its own timeout.
type Broker struct {
	mu        sync.Mutex
	cond      *sync.Cond
	operation []ApprovalRequest
	verify    []ApprovalRequest
	spoolPath string
	logger    *zap.Logger
	done      chan struct{}
}

// New constructs a Broker, loading any persisted verification queue from
// spoolPath. The operation queue is always empty on startup: pending large
// operations have no client connection left to resume.
func New(spoolPath string, logger *zap.Logger) (*Broker, error) {
	b := &Broker{
		spoolPath: spoolPath,
		logger:    logger,
		done:      make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)

	requests, err := readSpool(spoolPath)
	if err != nil {
		return nil, err
	}
	b.verify = requests
	logger.Info("loaded verification queue", zap.Int("count", len(requests)))

	go b.tick()
	return b, nil
}

func (b *Broker) tick() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.mu.Lock()
			b.cond.Broadcast()
			b.mu.Unlock()
		case <-b.done:
			return
		}
	}
}

// Close stops the background ticker. It does not touch the spool file;
// callers that want a final flush should call SaveQueues first.
func (b *Broker) Close() {
	close(b.done)
}

func (b *Broker) queueFor(kind Kind) *[]ApprovalRequest {
	if kind == VerificationQueue {
		return &b.verify
	}
	return &b.operation
}

// CreateOperationRequest enqueues a large-operation approval request and
// returns its id.
func (b *Broker) CreateOperationRequest(clientAccountID string, opType OperationType, amount float64, targetAccount, description string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	req := ApprovalRequest{
		RequestID:       newRequestID(now),
		ClientAccountID: clientAccountID,
		OperationType:   opType,
		Amount:          amount,
		TargetAccount:   targetAccount,
		Description:     description,
		Timestamp:       now,
		Status:          Pending,
	}
	b.operation = append(b.operation, req)
	b.cond.Broadcast()
	b.logger.Info("approval request created",
		zap.String("requestId", req.RequestID),
		zap.String("client", clientAccountID),
		zap.String("operation", string(opType)),
		zap.Float64("amount", amount))
	return req.RequestID
}

// CreateVerificationRequest enqueues a verification request, deduplicating
// against any existing pending request for the same client. description is
// caller-formatted (name/birth date/passport), matching the snapshot
// composed at registration time.
func (b *Broker) CreateVerificationRequest(clientAccountID, description string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, req := range b.verify {
		if req.ClientAccountID == clientAccountID {
			return req.RequestID
		}
	}

	now := time.Now()
	req := ApprovalRequest{
		RequestID:       newRequestID(now),
		ClientAccountID: clientAccountID,
		OperationType:   OpVerification,
		Description:     description,
		Timestamp:       now,
		Status:          Pending,
	}
	b.verify = append(b.verify, req)
	if err := b.persistVerifyLocked(); err != nil {
		b.logger.Warn("failed to persist verification queue", zap.Error(err))
	}
	b.logger.Info("verification request created",
		zap.String("requestId", req.RequestID),
		zap.String("client", clientAccountID))
	return req.RequestID
}

func (b *Broker) persistVerifyLocked() error {
	return writeSpool(b.spoolPath, b.verify)
}

// SaveQueues persists the verification queue; called on graceful shutdown.
func (b *Broker) SaveQueues() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistVerifyLocked()
}

func findRequest(queue []ApprovalRequest, requestID string) (int, ApprovalRequest, bool) {
	for i, r := range queue {
		if r.RequestID == requestID {
			return i, r, true
		}
	}
	return -1, ApprovalRequest{}, false
}

func removeAt(queue []ApprovalRequest, index int) []ApprovalRequest {
	return append(queue[:index], queue[index+1:]...)
}

// WaitForDecision blocks until requestId's status resolves to APPROVED
// (true) or REJECTED (false), the request disappears from its queue before
// a terminal status is observed (treated as implicitly resolved, true), or
// timeout elapses (false). The request is removed from its queue before
// this call returns, on every path.
func (b *Broker) WaitForDecision(kind Kind, requestID string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		q := b.queueFor(kind)
		idx, req, found := findRequest(*q, requestID)
		if found {
			switch req.Status {
			case Approved:
				*q = removeAt(*q, idx)
				b.persistIfVerifyLocked(kind)
				return true
			case Rejected:
				*q = removeAt(*q, idx)
				b.persistIfVerifyLocked(kind)
				return false
			}
		} else {
			return true
		}

		if time.Now().After(deadline) {
			*q = removeAt(*q, idx)
			b.persistIfVerifyLocked(kind)
			b.logger.Info("approval wait timed out", zap.String("requestId", requestID))
			return false
		}

		b.cond.Wait()
	}
}

func (b *Broker) persistIfVerifyLocked(kind Kind) {
	if kind != VerificationQueue {
		return
	}
	if err := b.persistVerifyLocked(); err != nil {
		b.logger.Warn("failed to persist verification queue", zap.Error(err))
	}
}

// ListOperations returns a snapshot of the pending operation queue.
func (b *Broker) ListOperations() []ApprovalRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ApprovalRequest, len(b.operation))
	copy(out, b.operation)
	return out
}

// ListVerifications returns a snapshot of the pending verification queue.
func (b *Broker) ListVerifications() []ApprovalRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ApprovalRequest, len(b.verify))
	copy(out, b.verify)
	return out
}

// DecideOperation marks the operation-queue entry at index as approved or
// rejected and wakes any waiter. The entry is removed by the waiter, not
// here, so a decision made after the waiter already timed out is simply
// ignored by a future lookup.
func (b *Broker) DecideOperation(index int, outcome Outcome) (ApprovalRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.operation) {
		return ApprovalRequest{}, ErrIndexOutOfRange
	}
	b.operation[index].Status = outcome
	req := b.operation[index]
	b.cond.Broadcast()
	return req, nil
}

// PeekVerification returns the verification-queue entry at index without
// mutating the queue, so the caller can act on the underlying client
// record before committing the decision.
func (b *Broker) PeekVerification(index int) (ApprovalRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.verify) {
		return ApprovalRequest{}, ErrIndexOutOfRange
	}
	return b.verify[index], nil
}

// CompleteVerification removes requestId from the verification queue and
// persists the queue. Callers invoke this only after the corresponding
// client record has already been flipped to Verified in the Store.
func (b *Broker) CompleteVerification(requestID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx, _, found := findRequest(b.verify, requestID)
	if !found {
		return nil
	}
	b.verify = removeAt(b.verify, idx)
	return b.persistVerifyLocked()
}

// CleanupVerificationQueue drops entries whose client no longer exists or
// no longer needs verification, as reported by isPending.
func (b *Broker) CleanupVerificationQueue(isPending func(clientAccountID string) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.verify[:0:0]
	for _, req := range b.verify {
		if isPending(req.ClientAccountID) {
			kept = append(kept, req)
		}
	}
	b.verify = kept
	if err := b.persistVerifyLocked(); err != nil {
		b.logger.Warn("failed to persist verification queue", zap.Error(err))
	}
}
