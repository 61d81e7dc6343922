package bankserver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/withobsrvr/bank-server/internal/broker"
	"github.com/withobsrvr/bank-server/internal/session"
	"github.com/withobsrvr/bank-server/internal/store"
)

func (s *Server) handleAccounts(sess *session.Session) string {
	client := s.store.FindClient(sess.AccountID)
	var b strings.Builder
	b.WriteString("Your accounts:\n")
	for i, account := range client.Accounts {
		fmt.Fprintf(&b, "[%d] %s (%s): $%s", i, account.Number, account.Type.String(), formatRate(account.Balance))
		if account.CreditLimit > 0 {
			fmt.Fprintf(&b, " (Credit limit: $%s)", formatRate(account.CreditLimit))
		}
		b.WriteByte('\n')
	}
	if len(client.Accounts) == 0 {
		b.WriteString("No accounts yet.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) handleDeposit(sess *session.Session, args []string) string {
	if len(args) < 1 {
		return s.fail(KindParse, "Usage: DEPOSIT <amount> [description]")
	}
	return s.deposit(sess, 0, args[0], argOrEmpty(args, 1))
}

func (s *Server) handleDepositTo(sess *session.Session, args []string) string {
	if len(args) < 2 {
		return s.fail(KindParse, "Usage: DEPOSIT_TO <account_index> <amount> [description]")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return s.fail(KindParse, "Invalid amount or account index")
	}
	return s.deposit(sess, idx, args[1], argOrEmpty(args, 2))
}

func (s *Server) deposit(sess *session.Session, accountIndex int, amountStr, description string) string {
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return s.fail(KindParse, "Invalid amount")
	}
	client := sess.Client
	if len(client.Accounts) == 0 {
		return s.fail(KindState, "No accounts available")
	}
	if accountIndex < 0 || accountIndex >= len(client.Accounts) {
		return s.fail(KindState, "Invalid account index")
	}
	settings := s.store.GetSettings()
	if !canPerformOperation(sess, settings, "DEPOSIT", amount) {
		return s.fail(KindPolicy, "Operation not allowed for unverified accounts")
	}

	accountNumber := client.Accounts[accountIndex].Number
	if err := s.store.Deposit(accountNumber, amount, description); err != nil {
		return s.fail(KindIO, "Deposit failed")
	}
	s.metrics.RecordDeposit()
	s.recordAudit(sess.AccountID, accountNumber)
	if accountIndex == 0 {
		return "DEPOSIT successful"
	}
	return "DEPOSIT successful to account " + accountNumber
}

func (s *Server) handleWithdraw(sess *session.Session, args []string) string {
	if len(args) < 1 {
		return s.fail(KindParse, "Usage: WITHDRAW <amount> [description]")
	}
	return s.withdraw(sess, 0, args[0], argOrEmpty(args, 1))
}

func (s *Server) handleWithdrawFrom(sess *session.Session, args []string) string {
	if len(args) < 2 {
		return s.fail(KindParse, "Usage: WITHDRAW_FROM <account_index> <amount> [description]")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return s.fail(KindParse, "Invalid amount or account index")
	}
	return s.withdraw(sess, idx, args[1], argOrEmpty(args, 2))
}

func (s *Server) withdraw(sess *session.Session, accountIndex int, amountStr, description string) string {
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return s.fail(KindParse, "Invalid amount")
	}
	client := sess.Client
	if len(client.Accounts) == 0 {
		return s.fail(KindState, "No accounts available")
	}
	if accountIndex < 0 || accountIndex >= len(client.Accounts) {
		return s.fail(KindState, "Invalid account index")
	}
	settings := s.store.GetSettings()
	if !canPerformOperation(sess, settings, "WITHDRAW", amount) {
		return s.fail(KindPolicy, "Operation not allowed for unverified accounts or amount too large")
	}

	if isClientVerified(sess) && amount > settings.LargeOperationThreshold {
		sess.Announce("NOTICE: Large withdrawal requires security approval.\nRequest sent to security department. Please wait...")
		requestID := s.broker.CreateOperationRequest(sess.AccountID, broker.OpWithdraw, amount, "", description)
		if !s.broker.WaitForDecision(broker.OperationQueue, requestID, s.approvalTimeout) {
			s.metrics.RecordApprovalTimeout()
			return s.fail(KindPolicy, "Operation rejected by security or timeout exceeded")
		}
		s.metrics.RecordApproval()
	}

	accountNumber := client.Accounts[accountIndex].Number
	if err := s.store.Withdraw(accountNumber, amount, description); err != nil {
		return s.fail(KindFunds, "Withdrawal failed - insufficient funds")
	}
	s.metrics.RecordWithdraw()
	s.recordAudit(sess.AccountID, accountNumber)
	if accountIndex == 0 {
		return "WITHDRAW successful"
	}
	return "WITHDRAW successful from account " + accountNumber
}

func (s *Server) handleTransfer(sess *session.Session, args []string) string {
	if len(args) < 2 {
		return s.fail(KindParse, "Usage: TRANSFER <target_accountID> <amount> [description]")
	}
	return s.transfer(sess, 0, args[0], args[1], argOrEmpty(args, 2))
}

func (s *Server) handleTransferFrom(sess *session.Session, args []string) string {
	if len(args) < 3 {
		return s.fail(KindParse, "Usage: TRANSFER_FROM <account_index> <target_accountID> <amount> [description]")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return s.fail(KindParse, "Invalid amount or account index")
	}
	return s.transfer(sess, idx, args[1], args[2], argOrEmpty(args, 3))
}

func (s *Server) transfer(sess *session.Session, accountIndex int, targetAccountID, amountStr, description string) string {
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return s.fail(KindParse, "Invalid amount")
	}
	client := sess.Client
	if len(client.Accounts) == 0 {
		return s.fail(KindState, "No accounts available")
	}
	if accountIndex < 0 || accountIndex >= len(client.Accounts) {
		return s.fail(KindState, "Invalid account index")
	}
	settings := s.store.GetSettings()
	if !canPerformOperation(sess, settings, "TRANSFER", amount) {
		return s.fail(KindPolicy, "Operation not allowed for unverified accounts or amount too large")
	}

	targetClient := s.store.FindClient(targetAccountID)
	if targetClient == nil || len(targetClient.Accounts) == 0 {
		return s.fail(KindState, "Target account not found")
	}
	targetAccountNumber := targetClient.Accounts[0].Number

	if isClientVerified(sess) && amount > settings.LargeOperationThreshold {
		sess.Announce("NOTICE: Large transfer requires security approval.\nRequest sent to security department. Please wait...")
		requestID := s.broker.CreateOperationRequest(sess.AccountID, broker.OpTransfer, amount, targetAccountID, description)
		if !s.broker.WaitForDecision(broker.OperationQueue, requestID, s.approvalTimeout) {
			s.metrics.RecordApprovalTimeout()
			return s.fail(KindPolicy, "Operation rejected by security or timeout exceeded")
		}
		s.metrics.RecordApproval()
	}

	sourceAccountNumber := client.Accounts[accountIndex].Number
	if err := s.store.Transfer(sourceAccountNumber, targetAccountNumber, amount, description); err != nil {
		return s.fail(KindFunds, "Transfer failed - insufficient funds")
	}
	s.metrics.RecordTransfer()
	s.recordAudit(sess.AccountID, sourceAccountNumber)
	s.recordAudit(targetAccountID, targetAccountNumber)
	if accountIndex == 0 {
		return "TRANSFER successful"
	}
	return "TRANSFER successful from account " + sourceAccountNumber
}

func (s *Server) handleHistory(sess *session.Session, args []string) string {
	accountIndex := 0
	if len(args) > 0 {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return s.fail(KindParse, "Invalid account index")
		}
		accountIndex = idx
	}

	client := sess.Client
	if accountIndex < 0 || accountIndex >= len(client.Accounts) {
		return s.fail(KindState, "Invalid account index")
	}

	account := client.Accounts[accountIndex]
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction history for %s:\n", account.Number)
	for _, txn := range account.Transactions {
		fmt.Fprintf(&b, "%s: %s $%s", txn.ID, txn.Type, formatRate(txn.Amount))
		if txn.Description != "" {
			fmt.Fprintf(&b, " (%s)", txn.Description)
		}
		if txn.TargetAccount != "" {
			fmt.Fprintf(&b, " -> %s", txn.TargetAccount)
		}
		b.WriteByte('\n')
	}
	if len(account.Transactions) == 0 {
		b.WriteString("No transactions found")
		return b.String()
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) handleCreateAccount(sess *session.Session, args []string) string {
	if len(args) < 1 {
		return s.fail(KindParse, "Usage: CREATE_ACCOUNT <type>")
	}
	typeInt, err := strconv.Atoi(args[0])
	if err != nil || typeInt < 0 || typeInt > 3 {
		return s.fail(KindParse, "Invalid account type. Use: 0=Savings, 1=Checking, 2=Credit, 3=Deposit")
	}
	accountType := store.AccountType(typeInt)

	if !isClientVerified(sess) && (accountType == store.Credit || accountType == store.Deposit) {
		return s.fail(KindPolicy, "Credit and Deposit accounts require account verification")
	}
	settings := s.store.GetSettings()
	if !canPerformOperation(sess, settings, "CREATE_ACCOUNT", 0) {
		return s.fail(KindPolicy, "Cannot create accounts at this time")
	}

	var creditLimit float64
	if accountType == store.Credit {
		creditLimit = settings.LargeLoanThreshold
	}
	account, err := s.store.CreateAccount(sess.AccountID, accountType, creditLimit)
	if err != nil {
		return s.fail(KindIO, "Invalid account type")
	}

	response := fmt.Sprintf("SUCCESS: New %s account created: %s", account.Type.String(), account.Number)
	if accountType == store.Credit {
		response += fmt.Sprintf(" with credit limit: $%s", formatRate(account.CreditLimit))
	}
	return response
}

func (s *Server) handleInfo(sess *session.Session) string {
	client := sess.Client
	statusText := "PENDING VERIFICATION"
	if client.Status == store.Verified {
		statusText = "VERIFIED"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Client Information:\nAccount ID: %s\nFull Name: %s\nBirth Date: %s\nStatus: %s\nNumber of accounts: %d\n",
		client.AccountID, client.FullName, client.BirthDate, statusText, len(client.Accounts))

	if client.Status != store.Verified {
		settings := s.store.GetSettings()
		fmt.Fprintf(&b, "\nUNVERIFIED ACCOUNT LIMITATIONS:\n- Max transaction: $%s\n- No credit accounts\n- No deposit accounts\n- Awaiting security verification",
			formatRate(settings.LargeOperationThreshold/10))
	}
	return b.String()
}

// recordAudit mirrors the most recently appended transaction on
// accountNumber into the audit sink. It is a best-effort read-after-write:
// the transaction was already committed by the Store call that preceded it.
func (s *Server) recordAudit(clientAccountID, accountNumber string) {
	if s.audit == nil {
		return
	}
	client, idx, ok := s.store.FindAccount(accountNumber)
	if !ok {
		return
	}
	account := client.Accounts[idx]
	if len(account.Transactions) == 0 {
		return
	}
	txn := account.Transactions[len(account.Transactions)-1]
	s.audit.Record(clientAccountID, accountNumber, txn.ID, txn.Type, txn.Amount, txn.Description, txn.TargetAccount, txn.Timestamp)
}

func argOrEmpty(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}
