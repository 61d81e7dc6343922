package store

import "errors"

var (
	// ErrClientExists is returned by AddClient when the account id is
	// already taken.
	ErrClientExists = errors.New("client already exists")
	// ErrClientNotFound is returned when an accountId does not resolve to
	// a client record.
	ErrClientNotFound = errors.New("client not found")
	// ErrAccountExists is returned by AddAccountToClient on a duplicate
	// account number.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound is returned by FindAccount when no client owns
	// the given account number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPersist wraps a snapshot write failure; callers roll back the
	// in-memory mutation that triggered the write.
	ErrPersist = errors.New("failed to persist store")
	// ErrInvalidAmount is returned by Deposit for a non-positive amount or
	// a deposit into a closed account.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned by Withdraw/Transfer when the
	// requested amount exceeds balance plus creditLimit, or the target
	// account cannot accept the deposit leg of a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
