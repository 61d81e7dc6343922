package bankserver

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFailRecordsMetricByKind(t *testing.T) {
	s := newTestServer(t)

	resp := s.fail(KindFunds, "insufficient funds for %s", "ACC1000")
	if resp != "ERROR: insufficient funds for ACC1000" {
		t.Fatalf("unexpected wire text: %q", resp)
	}

	count := testutil.ToFloat64(s.metrics.errorsTotal.WithLabelValues(string(KindFunds)))
	if count != 1 {
		t.Fatalf("errorsTotal[funds] = %v, want 1", count)
	}
}

func TestDispatchUnverifiedWithdrawCeilingCountsPolicyError(t *testing.T) {
	s := newTestServer(t)
	accountID := registerClient(t, s, "Error Counter", "1990-01-01", "6060606060", "password1")
	sess := login(t, s, accountID, "password1")
	s.dispatch(sess, "DEPOSIT", []string{"100000"})

	before := testutil.ToFloat64(s.metrics.errorsTotal.WithLabelValues(string(KindPolicy)))
	resp, _ := s.dispatch(sess, "WITHDRAW", []string{"50000"})
	if !containsAny(resp, "ERROR") {
		t.Fatalf("expected error response, got: %s", resp)
	}
	after := testutil.ToFloat64(s.metrics.errorsTotal.WithLabelValues(string(KindPolicy)))
	if after != before+1 {
		t.Fatalf("errorsTotal[policy] did not increment: before=%v after=%v", before, after)
	}
}
