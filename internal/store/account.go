package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deposit credits amount to the account and records the transaction. It
// fails for non-positive amounts.
func (a *Account) Deposit(amount float64, description string) bool {
	if amount <= 0 || a.Status == Closed {
		return false
	}
	a.Balance += amount
	a.addTransaction("DEPOSIT", amount, description, "")
	return true
}

// Withdraw debits amount from the account if balance plus creditLimit can
// cover it.
func (a *Account) Withdraw(amount float64, description string) bool {
	if amount <= 0 || a.Status == Closed {
		return false
	}
	available := a.Balance + a.CreditLimit
	if amount > available {
		return false
	}
	a.Balance -= amount
	a.addTransaction("WITHDRAW", -amount, description, "")
	return true
}

// Transfer moves amount from a to target, recording a withdraw leg on a and
// a deposit leg on target. If the deposit leg fails after the withdraw leg
// already succeeded, both legs are undone: the balance is restored and both
// the withdraw and deposit transaction records (if one was appended) are
// dropped. The original implementation only undid the withdraw leg, which
// could leave a stray deposit record on the target account; this removes
// both.
func (a *Account) Transfer(target *Account, amount float64, description string) bool {
	withdrawDescription := description
	if withdrawDescription == "" {
		withdrawDescription = "Transfer to " + target.Number
	}

	if !a.Withdraw(amount, withdrawDescription) {
		return false
	}

	depositDescription := "Transfer from " + a.Number
	if target.Deposit(amount, depositDescription) {
		return true
	}

	// Roll back both legs symmetrically.
	a.Balance += amount
	if n := len(a.Transactions); n > 0 {
		a.Transactions = a.Transactions[:n-1]
	}
	if n := len(target.Transactions); n > 0 && target.Transactions[n-1].Description == depositDescription {
		target.Transactions = target.Transactions[:n-1]
	}
	return false
}

func (a *Account) addTransaction(txnType string, amount float64, description, targetAccount string) {
	a.Transactions = append(a.Transactions, Transaction{
		ID:            newTransactionID(),
		Timestamp:     time.Now(),
		Type:          txnType,
		Amount:        amount,
		Description:   description,
		TargetAccount: targetAccount,
	})
}

func newTransactionID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN" + id[:12]
}
