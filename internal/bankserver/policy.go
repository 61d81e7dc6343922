package bankserver

import (
	"github.com/withobsrvr/bank-server/internal/session"
	"github.com/withobsrvr/bank-server/internal/store"
)

func isClientVerified(sess *session.Session) bool {
	return sess.Client != nil && sess.Client.Status == store.Verified
}

// canPerformOperation enforces the unverified-client ceiling. Operators and
// verified clients are unrestricted here; the large-operation approval gate
// for verified clients is applied separately by the caller.
func canPerformOperation(sess *session.Session, settings store.Settings, operationType string, amount float64) bool {
	if sess.Client == nil {
		return false
	}
	if sess.Client.Status == store.Verified {
		return true
	}

	switch operationType {
	case "CREATE_ACCOUNT":
		return true
	case "TRANSFER", "WITHDRAW":
		return amount <= settings.LargeOperationThreshold/10
	case "CREDIT_OPERATION":
		return false
	}
	return true
}
