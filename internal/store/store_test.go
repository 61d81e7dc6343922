package store

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/codec"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "accounts.dat"), zap.NewNop())
}

func sampleClient(accountID, passport string) *Client {
	return &Client{
		AccountID:    accountID,
		FullName:     "Ivanov Ivan Ivanovich",
		BirthDate:    "1990-05-15",
		PassportData: passport,
		PasswordHash: codec.HashPassword("password123"),
		Status:       Verified,
		Accounts: []Account{
			{Number: accountID + "_SAV_1", Type: Savings, Balance: 1000},
		},
	}
}

func TestStoreAddFindAuthenticate(t *testing.T) {
	s := newTestStore(t)
	client := sampleClient("ACC1001", "4510123456")

	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if err := s.AddClient(client); err != ErrClientExists {
		t.Errorf("expected ErrClientExists on duplicate add, got %v", err)
	}

	found := s.FindClient("ACC1001")
	if found == nil || found.FullName != client.FullName {
		t.Fatalf("FindClient returned %+v", found)
	}

	if auth := s.AuthenticateClient("ACC1001", "password123"); auth == nil {
		t.Error("authentication with correct password should succeed")
	}
	if auth := s.AuthenticateClient("ACC1001", "wrongpassword"); auth != nil {
		t.Error("authentication with wrong password should fail")
	}
}

func TestStoreDuplicatePassport(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddClient(sampleClient("ACC1001", "4510123456")); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if !s.IsPassportExists("4510123456") {
		t.Error("expected passport to be registered")
	}
	if s.IsPassportExists("0000000000") {
		t.Error("unregistered passport should not be found")
	}
}

func TestStorePersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.dat")

	s := New(path, zap.NewNop())
	client := sampleClient("ACC1002", "4510654321")
	client.Accounts[0].Deposit(500, "extra")
	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	reloaded := New(path, zap.NewNop())
	found := reloaded.FindClient("ACC1002")
	if found == nil {
		t.Fatal("expected client to survive reload")
	}
	if found.FullName != client.FullName || found.PassportData != client.PassportData {
		t.Errorf("reloaded client mismatch: %+v", found)
	}
	if len(found.Accounts) != 1 || found.Accounts[0].Balance != 1500 {
		t.Fatalf("reloaded account mismatch: %+v", found.Accounts)
	}
	if len(found.Accounts[0].Transactions) != 2 {
		t.Errorf("expected 2 transactions to survive reload, got %d", len(found.Accounts[0].Transactions))
	}
}

func TestStoreVerifyClient(t *testing.T) {
	s := newTestStore(t)
	client := sampleClient("ACC1003", "4510789123")
	client.Status = PendingVerification
	if err := s.AddClient(client); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if err := s.VerifyClient("ACC1003"); err != nil {
		t.Fatalf("VerifyClient failed: %v", err)
	}
	if found := s.FindClient("ACC1003"); found.Status != Verified {
		t.Errorf("expected status Verified, got %v", found.Status)
	}
	if err := s.VerifyClient("NOSUCH"); err != ErrClientNotFound {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestStoreFindAccount(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddClient(sampleClient("ACC1004", "1111111111")); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	client, idx, ok := s.FindAccount("ACC1004_SAV_1")
	if !ok {
		t.Fatal("expected to find account")
	}
	if client.AccountID != "ACC1004" || idx != 0 {
		t.Errorf("unexpected owner/index: %s/%d", client.AccountID, idx)
	}
	if _, _, ok := s.FindAccount("NOSUCH_ACC"); ok {
		t.Error("expected FindAccount to fail for unknown number")
	}
}

func TestStoreSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.dat")

	s := New(path, zap.NewNop())
	settings := Settings{CreditInterestRate: 15, DepositInterestRate: 8, LargeOperationThreshold: 200000, LargeLoanThreshold: 60000}
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reloaded := New(path, zap.NewNop())
	got := reloaded.GetSettings()
	if got != settings {
		t.Errorf("settings mismatch after reload: got %+v, want %+v", got, settings)
	}
}

func TestStoreDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	got := s.GetSettings()
	want := DefaultSettings()
	if got != want {
		t.Errorf("default settings = %+v, want %+v", got, want)
	}
}

func TestStoreBackupRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.dat")
	backupPath := filepath.Join(dir, "backup", "accounts.bak")

	s := New(path, zap.NewNop())
	if err := s.AddClient(sampleClient("ACC1005", "2222222222")); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if err := s.BackupDatabase(backupPath); err != nil {
		t.Fatalf("BackupDatabase failed: %v", err)
	}

	if err := s.AddClient(sampleClient("ACC1006", "3333333333")); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if s.ClientCount() != 2 {
		t.Fatalf("expected 2 clients before restore, got %d", s.ClientCount())
	}

	if err := s.RestoreFromBackup(backupPath); err != nil {
		t.Fatalf("RestoreFromBackup failed: %v", err)
	}
	if s.ClientCount() != 1 {
		t.Errorf("expected 1 client after restore, got %d", s.ClientCount())
	}
	if s.FindClient("ACC1005") == nil {
		t.Error("expected ACC1005 to survive restore")
	}
}

func TestStoreTotals(t *testing.T) {
	s := newTestStore(t)
	_ = s.AddClient(sampleClient("ACC1007", "4444444444"))
	_ = s.AddClient(sampleClient("ACC1008", "5555555555"))

	if s.ClientCount() != 2 {
		t.Errorf("ClientCount = %d, want 2", s.ClientCount())
	}
	if s.TotalAccountsCount() != 2 {
		t.Errorf("TotalAccountsCount = %d, want 2", s.TotalAccountsCount())
	}
	if s.TotalBalance() != 2000 {
		t.Errorf("TotalBalance = %v, want 2000", s.TotalBalance())
	}
}
