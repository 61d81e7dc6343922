package store

import "time"

// AccountType distinguishes the four kinds of account a client may hold.
type AccountType int

const (
	Savings AccountType = iota
	Checking
	Credit
	Deposit
)

// String renders the account type the way it appears in wire responses.
func (t AccountType) String() string {
	switch t {
	case Savings:
		return "Savings"
	case Checking:
		return "Checking"
	case Credit:
		return "Credit"
	case Deposit:
		return "Deposit"
	default:
		return "Unknown"
	}
}

// Prefix returns the account-number segment used by CREATE_ACCOUNT.
func (t AccountType) Prefix() string {
	switch t {
	case Savings:
		return "SAV"
	case Checking:
		return "CHK"
	case Credit:
		return "CRD"
	case Deposit:
		return "DEP"
	default:
		return "UNK"
	}
}

// AccountStatus tracks whether an account can still be operated on.
type AccountStatus int

const (
	Active AccountStatus = iota
	Blocked
	Closed
)

// ClientStatus tracks a client's verification state.
type ClientStatus int

const (
	PendingVerification ClientStatus = iota
	Verified
	ClientBlocked
)

// Transaction is one append-only entry in an account's history.
type Transaction struct {
	ID            string
	Timestamp     time.Time
	Type          string // "DEPOSIT" or "WITHDRAW"
	Amount        float64
	Description   string
	TargetAccount string
}

// Account holds a single balance and its transaction history.
type Account struct {
	Number       string
	Type         AccountType
	Balance      float64
	CreditLimit  float64
	Status       AccountStatus
	Transactions []Transaction
}

// Client is a registered bank customer (or the SUPER001 operator) with one
// or more accounts.
type Client struct {
	AccountID    string
	FullName     string
	BirthDate    string
	PassportData string
	PasswordHash string
	Status       ClientStatus
	Accounts     []Account
}

// Settings holds the rate and threshold knobs an operator can change at
// runtime.
type Settings struct {
	CreditInterestRate      float64
	DepositInterestRate     float64
	LargeOperationThreshold float64
	LargeLoanThreshold      float64
}

// DefaultSettings mirrors the bank's factory configuration.
func DefaultSettings() Settings {
	return Settings{
		CreditInterestRate:      12.0,
		DepositInterestRate:     6.5,
		LargeOperationThreshold: 150000.0,
		LargeLoanThreshold:      50000.0,
	}
}
