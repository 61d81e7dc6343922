// Package session holds per-connection state: the authenticated client
// bound to a socket and the command-line tokenizer shared by every
// connection handler.
package session

import (
	"time"

	"github.com/withobsrvr/bank-server/internal/store"
)

// Session tracks one connected client's authentication state for the
// lifetime of a TCP connection.
type Session struct {
	AccountID       string
	Client          *store.Client
	LoginTime       time.Time
	IsAuthenticated bool

	// Notify, if set, writes an interim message to the connection ahead of
	// the final dispatch response. Large operations awaiting approval use
	// this to tell the client to wait before the handler blocks.
	Notify func(string)
}

// Announce writes msg immediately if the session has a notifier attached.
func (s *Session) Announce(msg string) {
	if s.Notify != nil {
		s.Notify(msg)
	}
}

// SuperUserAccountID is the single built-in operator identity. There is no
// role field: an account is an operator iff its id is this constant.
const SuperUserAccountID = "SUPER001"

// IsSuperUser reports whether accountID identifies the built-in operator.
func IsSuperUser(accountID string) bool {
	return accountID == SuperUserAccountID
}

// Authenticate binds client to the session as of now.
func (s *Session) Authenticate(client *store.Client) {
	s.AccountID = client.AccountID
	s.Client = client
	s.LoginTime = time.Now()
	s.IsAuthenticated = true
}

// Logout clears authentication state, leaving the connection open for a
// fresh LOGIN/SUPERLOGIN.
func (s *Session) Logout() {
	s.AccountID = ""
	s.Client = nil
	s.IsAuthenticated = false
}
