package auditsink

import (
	"testing"
	"time"
)

func TestNilSinkRecordIsNoop(t *testing.T) {
	var s *Sink
	s.Record("ACC1000", "ACC1000_SAV_1", "TXN1", "DEPOSIT", 100, "test", "", time.Now())
}

func TestNilSinkCloseIsNoop(t *testing.T) {
	var s *Sink
	if err := s.Close(); err != nil {
		t.Fatalf("expected nil error from nil sink Close, got %v", err)
	}
}
