package broker

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	dir := t.TempDir()
	b, err := New(filepath.Join(dir, "verification_queue.dat"), zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestCreateOperationRequestApproved(t *testing.T) {
	b := newTestBroker(t)
	requestID := b.CreateOperationRequest("ACC1001", OpTransfer, 50000, "ACC1002", "")

	done := make(chan bool, 1)
	go func() { done <- b.WaitForDecision(OperationQueue, requestID, 5*time.Second) }()

	time.Sleep(20 * time.Millisecond)
	if _, err := b.DecideOperation(0, Approved); err != nil {
		t.Fatalf("DecideOperation failed: %v", err)
	}

	select {
	case result := <-done:
		if !result {
			t.Error("expected WaitForDecision to return true for approved request")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForDecision did not return in time")
	}

	if got := len(b.ListOperations()); got != 0 {
		t.Errorf("expected operation queue empty after wait, got %d entries", got)
	}
}

func TestCreateOperationRequestRejected(t *testing.T) {
	b := newTestBroker(t)
	requestID := b.CreateOperationRequest("ACC1001", OpWithdraw, 80000, "", "")

	done := make(chan bool, 1)
	go func() { done <- b.WaitForDecision(OperationQueue, requestID, 5*time.Second) }()

	time.Sleep(20 * time.Millisecond)
	if _, err := b.DecideOperation(0, Rejected); err != nil {
		t.Fatalf("DecideOperation failed: %v", err)
	}

	select {
	case result := <-done:
		if result {
			t.Error("expected WaitForDecision to return false for rejected request")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForDecision did not return in time")
	}
}

func TestWaitForDecisionNotFoundIsImplicitlyResolved(t *testing.T) {
	b := newTestBroker(t)
	if !b.WaitForDecision(OperationQueue, "REQ-does-not-exist", time.Second) {
		t.Error("a request never enqueued should resolve as true (implicitly resolved)")
	}
}

func TestWaitForDecisionTimeout(t *testing.T) {
	b := newTestBroker(t)
	requestID := b.CreateOperationRequest("ACC1001", OpTransfer, 999999, "ACC1002", "")

	start := time.Now()
	result := b.WaitForDecision(OperationQueue, requestID, 200*time.Millisecond)
	if result {
		t.Error("expected timeout to resolve as false")
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("returned too early: %v", elapsed)
	}
	if got := len(b.ListOperations()); got != 0 {
		t.Errorf("expected request removed from queue after timeout, got %d entries", got)
	}
}

func TestCreateVerificationRequestDedup(t *testing.T) {
	b := newTestBroker(t)
	first := b.CreateVerificationRequest("ACC2001", "Name: Jane Doe")
	second := b.CreateVerificationRequest("ACC2001", "Name: Jane Doe")
	if first != second {
		t.Errorf("expected duplicate verification request to return same id, got %q and %q", first, second)
	}
	if got := len(b.ListVerifications()); got != 1 {
		t.Errorf("expected exactly one queued verification, got %d", got)
	}
}

func TestVerificationQueuePersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	spoolPath := filepath.Join(dir, "verification_queue.dat")

	b1, err := New(spoolPath, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b1.CreateVerificationRequest("ACC3001", "Name: John Roe")
	b1.Close()

	b2, err := New(spoolPath, zap.NewNop())
	if err != nil {
		t.Fatalf("New (reload) failed: %v", err)
	}
	defer b2.Close()

	pending := b2.ListVerifications()
	if len(pending) != 1 || pending[0].ClientAccountID != "ACC3001" {
		t.Fatalf("expected verification request to survive restart, got %+v", pending)
	}
}

func TestCompleteVerificationRemovesAndPersists(t *testing.T) {
	dir := t.TempDir()
	spoolPath := filepath.Join(dir, "verification_queue.dat")
	b, err := New(spoolPath, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer b.Close()

	requestID := b.CreateVerificationRequest("ACC4001", "Name: A B")
	if err := b.CompleteVerification(requestID); err != nil {
		t.Fatalf("CompleteVerification failed: %v", err)
	}
	if got := len(b.ListVerifications()); got != 0 {
		t.Errorf("expected verification queue empty, got %d", got)
	}

	reloaded, err := New(spoolPath, zap.NewNop())
	if err != nil {
		t.Fatalf("New (reload) failed: %v", err)
	}
	defer reloaded.Close()
	if got := len(reloaded.ListVerifications()); got != 0 {
		t.Errorf("expected spool to reflect completion, got %d pending", got)
	}
}

func TestCleanupVerificationQueue(t *testing.T) {
	b := newTestBroker(t)
	b.CreateVerificationRequest("ACC5001", "Name: Stale")
	b.CreateVerificationRequest("ACC5002", "Name: Fresh")

	b.CleanupVerificationQueue(func(clientAccountID string) bool {
		return clientAccountID == "ACC5002"
	})

	pending := b.ListVerifications()
	if len(pending) != 1 || pending[0].ClientAccountID != "ACC5002" {
		t.Fatalf("expected only ACC5002 to survive cleanup, got %+v", pending)
	}
}

func TestPeekVerificationOutOfRange(t *testing.T) {
	b := newTestBroker(t)
	if _, err := b.PeekVerification(0); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDecideOperationOutOfRange(t *testing.T) {
	b := newTestBroker(t)
	if _, err := b.DecideOperation(5, Approved); err != ErrIndexOutOfRange {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
