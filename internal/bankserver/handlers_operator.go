package bankserver

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/broker"
	"github.com/withobsrvr/bank-server/internal/session"
	"github.com/withobsrvr/bank-server/internal/store"
)

func (s *Server) isPendingVerification(accountID string) bool {
	client := s.store.FindClient(accountID)
	return client != nil && client.Status != store.Verified
}

func (s *Server) handlePendingRequests(sess *session.Session) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}

	requests := s.broker.ListOperations()
	s.metrics.SetPendingOperations(len(requests))
	if len(requests) == 0 {
		return "No pending operation requests"
	}

	var b strings.Builder
	b.WriteString("Pending operation requests:\n")
	for i, req := range requests {
		fmt.Fprintf(&b, "[%d] %s: %s $%s", i, req.ClientAccountID, req.OperationType, formatRate(req.Amount))
		if req.TargetAccount != "" {
			fmt.Fprintf(&b, " -> %s", req.TargetAccount)
		}
		if req.Description != "" {
			fmt.Fprintf(&b, " (%s)", req.Description)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) handlePendingVerifications(sess *session.Session) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}

	s.broker.CleanupVerificationQueue(s.isPendingVerification)
	requests := s.broker.ListVerifications()
	s.metrics.SetPendingVerifications(len(requests))
	if len(requests) == 0 {
		return "No pending verification requests"
	}

	var b strings.Builder
	b.WriteString("Pending verification requests:\n")
	for i, req := range requests {
		fmt.Fprintf(&b, "[%d] %s: %s\n", i, req.ClientAccountID, req.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) handleApprove(sess *session.Session, args []string) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}
	return s.decide(args, broker.Approved)
}

func (s *Server) handleReject(sess *session.Session, args []string) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}
	return s.decide(args, broker.Rejected)
}

func (s *Server) decide(args []string, outcome broker.Outcome) string {
	if len(args) < 1 {
		return s.fail(KindParse, "Usage: APPROVE|REJECT <request_index>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return s.fail(KindParse, "Invalid request index")
	}
	req, err := s.broker.DecideOperation(index, outcome)
	if err != nil {
		return s.fail(KindParse, "Invalid request index")
	}
	if outcome == broker.Rejected {
		s.metrics.RecordRejection()
	}
	return fmt.Sprintf("Request %s for %s %s", req.RequestID, req.ClientAccountID, strings.ToLower(string(outcome)))
}

func (s *Server) handleVerify(sess *session.Session, args []string) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}
	if len(args) < 1 {
		return s.fail(KindParse, "Usage: VERIFY <verification_index>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return s.fail(KindParse, "Invalid verification index")
	}

	req, err := s.broker.PeekVerification(index)
	if err != nil {
		return s.fail(KindParse, "Invalid verification index")
	}
	if err := s.store.VerifyClient(req.ClientAccountID); err != nil {
		return s.fail(KindIO, "Failed to verify client")
	}
	if err := s.broker.CompleteVerification(req.RequestID); err != nil {
		s.logger.Warn("failed to persist verification queue after completion", zap.Error(err))
	}
	s.logger.Info("client verified", zap.String("accountId", req.ClientAccountID))
	return fmt.Sprintf("SUCCESS: Client %s verified", req.ClientAccountID)
}

func (s *Server) handleSetRates(sess *session.Session, args []string) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}
	if len(args) < 2 {
		return s.fail(KindParse, "Usage: SET_RATES <credit_rate> <deposit_rate>")
	}
	creditRate, err1 := strconv.ParseFloat(args[0], 64)
	depositRate, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil || creditRate < 0 || depositRate < 0 {
		return s.fail(KindParse, "Invalid rate values")
	}

	settings := s.store.GetSettings()
	settings.CreditInterestRate = creditRate
	settings.DepositInterestRate = depositRate
	if err := s.store.SaveSettings(settings); err != nil {
		return s.fail(KindIO, "Failed to update rates")
	}
	s.logger.Info("interest rates updated", zap.Float64("creditRate", creditRate), zap.Float64("depositRate", depositRate))
	return fmt.Sprintf("SUCCESS: Rates updated. Credit: %s%%, Deposit: %s%%", formatRate(creditRate), formatRate(depositRate))
}

func (s *Server) handleSettings(sess *session.Session) string {
	if !session.IsSuperUser(sess.AccountID) {
		return s.fail(KindAuth, "Access denied. Security officer privileges required.")
	}
	settings := s.store.GetSettings()
	return fmt.Sprintf(
		"Current Bank Settings:\n"+
			"Credit Interest Rate: %s%%\n"+
			"Deposit Interest Rate: %s%%\n"+
			"Large Operation Threshold: $%s\n"+
			"Large Loan Threshold: $%s\n"+
			"Clients: %d\n"+
			"Total accounts: %d\n"+
			"Total balance: $%s",
		formatRate(settings.CreditInterestRate),
		formatRate(settings.DepositInterestRate),
		formatRate(settings.LargeOperationThreshold),
		formatRate(settings.LargeLoanThreshold),
		s.store.ClientCount(),
		s.store.TotalAccountsCount(),
		formatRate(s.store.TotalBalance()),
	)
}
