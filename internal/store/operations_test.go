package store

import "testing"

func TestStoreDeposit(t *testing.T) {
	s := newTestStore(t)
	client := sampleClient("ACC6001", "6666666666")
	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	if err := s.Deposit("ACC6001_SAV_1", 250, "bonus"); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	found := s.FindClient("ACC6001")
	if found.Accounts[0].Balance != 1250 {
		t.Errorf("balance = %v, want 1250", found.Accounts[0].Balance)
	}

	if err := s.Deposit("ACC6001_SAV_1", -5, ""); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if err := s.Deposit("NOSUCH", 10, ""); err != ErrAccountNotFound {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStoreWithdraw(t *testing.T) {
	s := newTestStore(t)
	client := sampleClient("ACC6002", "7777777777")
	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	if err := s.Withdraw("ACC6002_SAV_1", 400, "rent"); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if found := s.FindClient("ACC6002"); found.Accounts[0].Balance != 600 {
		t.Errorf("balance = %v, want 600", found.Accounts[0].Balance)
	}

	if err := s.Withdraw("ACC6002_SAV_1", 10000, ""); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestStoreTransfer(t *testing.T) {
	s := newTestStore(t)
	src := sampleClient("ACC6003", "8888888888")
	dst := sampleClient("ACC6004", "9999999999")
	if err := s.AddClient(src); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if err := s.AddClient(dst); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	if err := s.Transfer("ACC6003_SAV_1", "ACC6004_SAV_1", 300, "payment"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if found := s.FindClient("ACC6003"); found.Accounts[0].Balance != 700 {
		t.Errorf("source balance = %v, want 700", found.Accounts[0].Balance)
	}
	if found := s.FindClient("ACC6004"); found.Accounts[0].Balance != 1300 {
		t.Errorf("target balance = %v, want 1300", found.Accounts[0].Balance)
	}

	if err := s.Transfer("ACC6003_SAV_1", "NOSUCH", 1, ""); err != ErrAccountNotFound {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	if err := s.Transfer("ACC6003_SAV_1", "ACC6004_SAV_1", 999999, ""); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestStoreCreateAccount(t *testing.T) {
	s := newTestStore(t)
	client := sampleClient("ACC6005", "1212121212")
	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	account, err := s.CreateAccount("ACC6005", Credit, 150000)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if account.Number != "ACC6005_CRD_2" {
		t.Errorf("account number = %q, want ACC6005_CRD_2", account.Number)
	}
	if account.CreditLimit != 150000 {
		t.Errorf("credit limit = %v, want 150000", account.CreditLimit)
	}

	if _, err := s.CreateAccount("NOSUCH", Savings, 0); err != ErrClientNotFound {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}
