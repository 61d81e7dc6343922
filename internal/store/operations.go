package store

import "fmt"

func (s *Store) findAccountUnlocked(accountNumber string) (*Client, int, bool) {
	for _, c := range s.clients {
		for i := range c.Accounts {
			if c.Accounts[i].Number == accountNumber {
				return c, i, true
			}
		}
	}
	return nil, 0, false
}

// Deposit credits amount to accountNumber and persists the store. The
// mutation and the snapshot write happen under the same lock acquisition,
// so a concurrent reader never observes a balance change that was not also
// written to disk.
func (s *Store) Deposit(accountNumber string, amount float64, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, idx, ok := s.findAccountUnlocked(accountNumber)
	if !ok {
		return ErrAccountNotFound
	}
	account := &client.Accounts[idx]

	if !account.Deposit(amount, description) {
		return ErrInvalidAmount
	}
	if err := s.saveLocked(); err != nil {
		account.Balance -= amount
		if n := len(account.Transactions); n > 0 {
			account.Transactions = account.Transactions[:n-1]
		}
		return err
	}
	return nil
}

// Withdraw debits amount from accountNumber and persists the store.
func (s *Store) Withdraw(accountNumber string, amount float64, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, idx, ok := s.findAccountUnlocked(accountNumber)
	if !ok {
		return ErrAccountNotFound
	}
	account := &client.Accounts[idx]

	if !account.Withdraw(amount, description) {
		return ErrInsufficientFunds
	}
	if err := s.saveLocked(); err != nil {
		account.Balance += amount
		if n := len(account.Transactions); n > 0 {
			account.Transactions = account.Transactions[:n-1]
		}
		return err
	}
	return nil
}

// Transfer moves amount from sourceAccountNumber to targetAccountNumber and
// persists the store. On a snapshot-write failure both legs are undone,
// mirroring the same both-legs rollback Account.Transfer performs when the
// deposit leg itself fails.
func (s *Store) Transfer(sourceAccountNumber, targetAccountNumber string, amount float64, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcClient, srcIdx, ok := s.findAccountUnlocked(sourceAccountNumber)
	if !ok {
		return ErrAccountNotFound
	}
	dstClient, dstIdx, ok := s.findAccountUnlocked(targetAccountNumber)
	if !ok {
		return ErrAccountNotFound
	}
	src := &srcClient.Accounts[srcIdx]
	dst := &dstClient.Accounts[dstIdx]

	depositDescription := "Transfer from " + src.Number
	if !src.Transfer(dst, amount, description) {
		return ErrInsufficientFunds
	}
	if err := s.saveLocked(); err != nil {
		src.Balance += amount
		if n := len(src.Transactions); n > 0 {
			src.Transactions = src.Transactions[:n-1]
		}
		if n := len(dst.Transactions); n > 0 && dst.Transactions[n-1].Description == depositDescription {
			dst.Transactions = dst.Transactions[:n-1]
		}
		return err
	}
	return nil
}

// CreateAccount appends a new, auto-numbered account to clientAccountID's
// account list and persists the store. Credit accounts are opened with
// creditLimit.
func (s *Store) CreateAccount(clientAccountID string, accountType AccountType, creditLimit float64) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientAccountID]
	if !ok {
		return Account{}, ErrClientNotFound
	}

	number := fmt.Sprintf("%s_%s_%d", clientAccountID, accountType.Prefix(), len(client.Accounts)+1)
	account := Account{Number: number, Type: accountType}
	if accountType == Credit {
		account.CreditLimit = creditLimit
	}

	client.Accounts = append(client.Accounts, account)
	if err := s.saveLocked(); err != nil {
		client.Accounts = client.Accounts[:len(client.Accounts)-1]
		return Account{}, err
	}
	return account, nil
}
