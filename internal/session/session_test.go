package session

import (
	"testing"

	"github.com/withobsrvr/bank-server/internal/store"
)

func TestIsSuperUser(t *testing.T) {
	if !IsSuperUser("SUPER001") {
		t.Error("SUPER001 should be the super user")
	}
	if IsSuperUser("ACC1001") {
		t.Error("an ordinary account id should not be the super user")
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	s := &Session{}
	client := &store.Client{AccountID: "ACC1001"}

	s.Authenticate(client)
	if !s.IsAuthenticated || s.AccountID != "ACC1001" || s.Client != client {
		t.Fatalf("unexpected session state after Authenticate: %+v", s)
	}

	s.Logout()
	if s.IsAuthenticated || s.AccountID != "" || s.Client != nil {
		t.Fatalf("unexpected session state after Logout: %+v", s)
	}
}

func TestAnnounceWithoutNotifyIsNoop(t *testing.T) {
	s := &Session{}
	s.Announce("NOTICE: should not panic")
}

func TestAnnounceCallsNotify(t *testing.T) {
	var got string
	s := &Session{Notify: func(msg string) { got = msg }}
	s.Announce("NOTICE: please wait")
	if got != "NOTICE: please wait" {
		t.Fatalf("Notify not invoked with expected message, got %q", got)
	}
}
