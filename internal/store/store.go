// Package store is the authoritative in-memory record of every client,
// account, and transaction. Every mutating method takes the store's mutex
// for the duration of the mutation and the snapshot write that follows it,
// so the on-disk file is always a serialization of some point in the
// mutation history. Reads of a client's accounts should go through
// FindClient/FindAccount rather than caching a pointer across a suspension
// point in a caller.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/codec"
)

const encryptionKey = "bank-system-key-2024"

// Store owns the client/account/transaction data and the bank-wide rate
// settings, both backed by flat encrypted snapshot files.
type Store struct {
	mu       sync.Mutex
	filename string
	clients  map[string]*Client
	settings Settings
	logger   *zap.Logger
}

// New constructs a Store and loads any existing snapshot at filename. A
// missing file is not an error; the store starts empty.
func New(filename string, logger *zap.Logger) *Store {
	s := &Store{
		filename: filename,
		clients:  make(map[string]*Client),
		settings: DefaultSettings(),
		logger:   logger,
	}
	if err := s.LoadFromFile(); err != nil {
		logger.Warn("initial load failed, starting with an empty store", zap.Error(err))
	}
	if err := s.LoadSettings(); err != nil {
		logger.Info("settings file not found or unreadable, using defaults", zap.Error(err))
	}
	return s
}

func (s *Store) settingsFilename() string {
	return s.filename + ".settings"
}

// LoadFromFile reads and decrypts the snapshot, replacing the in-memory
// client set. Malformed records are skipped; a missing or empty file leaves
// the store empty without error.
func (s *Store) LoadFromFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("database file not found, starting fresh", zap.String("file", s.filename))
			s.clients = make(map[string]*Client)
			return nil
		}
		return fmt.Errorf("reading %s: %w", s.filename, err)
	}
	if len(raw) == 0 {
		s.clients = make(map[string]*Client)
		return nil
	}

	plaintext, err := codec.Decrypt(string(raw), encryptionKey)
	if err != nil {
		return fmt.Errorf("decrypting %s: %w", s.filename, err)
	}
	if len(plaintext) == 0 {
		s.clients = make(map[string]*Client)
		return nil
	}

	s.clients = deserializeClients(string(plaintext))
	s.logger.Info("loaded database",
		zap.Int("clients", len(s.clients)),
		zap.Int("accounts", s.totalAccountsLocked()))
	return nil
}

// SaveToFile writes the encrypted snapshot for the current in-memory state,
// then the settings file alongside it.
func (s *Store) SaveToFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	plaintext := serializeClients(s.clients)
	ciphertext := codec.Encrypt([]byte(plaintext), encryptionKey)

	if dir := filepath.Dir(s.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	if err := os.WriteFile(s.filename, []byte(ciphertext), 0o644); err != nil {
		s.logger.Error("failed to write database file", zap.String("file", s.filename), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	return s.saveSettingsLocked(s.settings)
}

// AddClient inserts a new client record and persists the store. If the
// write fails the insert is rolled back.
func (s *Store) AddClient(client *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[client.AccountID]; exists {
		return ErrClientExists
	}

	s.clients[client.AccountID] = client
	if err := s.saveLocked(); err != nil {
		delete(s.clients, client.AccountID)
		return err
	}
	s.logger.Info("client added", zap.String("accountId", client.AccountID))
	return nil
}

// RemoveClient deletes a client record and persists the store.
func (s *Store) RemoveClient(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, exists := s.clients[accountID]
	if !exists {
		return ErrClientNotFound
	}
	delete(s.clients, accountID)
	if err := s.saveLocked(); err != nil {
		s.clients[accountID] = client
		return err
	}
	return nil
}

// FindClient returns the live client record for accountID, or nil.
// Callers must hold no suspension points between this call and using the
// returned pointer's mutable fields without re-acquiring the store's
// coordination (use the mutating methods below instead of writing through
// this pointer directly where persistence matters).
func (s *Store) FindClient(accountID string) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[accountID]
}

// AuthenticateClient returns the client record if accountID/password match.
func (s *Store) AuthenticateClient(accountID, password string) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[accountID]
	if !ok || !codec.VerifyPassword(password, client.PasswordHash) {
		return nil
	}
	return client
}

// IsPassportExists reports whether any client already holds passportData.
func (s *Store) IsPassportExists(passportData string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.PassportData == passportData {
			return true
		}
	}
	return false
}

// VerifyClient flips a client's status to Verified and persists the store.
func (s *Store) VerifyClient(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[accountID]
	if !ok {
		return ErrClientNotFound
	}
	previous := client.Status
	client.Status = Verified
	if err := s.saveLocked(); err != nil {
		client.Status = previous
		return err
	}
	return nil
}

// AddAccountToClient appends account to the client's account list and
// persists the store. Fails if the account number already exists anywhere
// under that client.
func (s *Store) AddAccountToClient(accountID string, account Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[accountID]
	if !ok {
		return ErrClientNotFound
	}
	for _, existing := range client.Accounts {
		if existing.Number == account.Number {
			return ErrAccountExists
		}
	}
	client.Accounts = append(client.Accounts, account)
	if err := s.saveLocked(); err != nil {
		client.Accounts = client.Accounts[:len(client.Accounts)-1]
		return err
	}
	return nil
}

// FindAccount looks up an account by its number across every client,
// returning the owning client and the account's index within it.
func (s *Store) FindAccount(accountNumber string) (client *Client, index int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		for i := range c.Accounts {
			if c.Accounts[i].Number == accountNumber {
				return c, i, true
			}
		}
	}
	return nil, 0, false
}

// Persist re-saves the store. Handlers call this after mutating an account
// reached via FindClient/FindAccount so the change is durable; on failure
// the supplied rollback function is invoked to undo the in-memory change.
func (s *Store) Persist(rollback func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(); err != nil {
		if rollback != nil {
			rollback()
		}
		return err
	}
	return nil
}

// GetAllClients returns every client record.
func (s *Store) GetAllClients() []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// GetClientsByStatus returns every client with the given status.
func (s *Store) GetClientsByStatus(status ClientStatus) []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Client
	for _, c := range s.clients {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// ClientCount returns the number of client records.
func (s *Store) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// TotalAccountsCount returns the number of accounts across every client.
func (s *Store) TotalAccountsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAccountsLocked()
}

func (s *Store) totalAccountsLocked() int {
	count := 0
	for _, c := range s.clients {
		count += len(c.Accounts)
	}
	return count
}

// TotalBalance sums the balance of every account across every client.
func (s *Store) TotalBalance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, c := range s.clients {
		for _, a := range c.Accounts {
			total += a.Balance
		}
	}
	return total
}

// LoadSettings reads the settings file if present, overwriting in-memory
// settings on success; otherwise the existing (default) settings are kept.
func (s *Store) LoadSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.settingsFilename())
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("settings file %s is empty", s.settingsFilename())
	}
	plaintext, err := codec.Decrypt(string(raw), encryptionKey)
	if err != nil {
		return fmt.Errorf("decrypting settings: %w", err)
	}
	settings, ok := deserializeSettings(string(plaintext))
	if !ok {
		return fmt.Errorf("malformed settings file %s", s.settingsFilename())
	}
	s.settings = settings
	return nil
}

// SaveSettings updates the in-memory settings and writes the settings file.
func (s *Store) SaveSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSettingsLocked(settings)
}

func (s *Store) saveSettingsLocked(settings Settings) error {
	s.settings = settings
	plaintext := serializeSettings(settings)
	ciphertext := codec.Encrypt([]byte(plaintext), encryptionKey)

	if dir := filepath.Dir(s.settingsFilename()); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.settingsFilename(), []byte(ciphertext), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// GetSettings returns the current bank-wide settings.
func (s *Store) GetSettings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// BackupDatabase copies the current snapshot and settings files to
// backupPath (and backupPath+".settings").
func (s *Store) BackupDatabase(backupPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := copyFile(s.filename, backupPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	_ = copyFile(s.settingsFilename(), backupPath+".settings")
	s.logger.Info("database backup created", zap.String("path", backupPath))
	return nil
}

// RestoreFromBackup overwrites the snapshot and settings files from
// backupPath and reloads the in-memory state.
func (s *Store) RestoreFromBackup(backupPath string) error {
	if err := copyFile(backupPath, s.filename); err != nil {
		return fmt.Errorf("restoring database: %w", err)
	}
	_ = copyFile(backupPath+".settings", s.settingsFilename())

	if err := s.LoadFromFile(); err != nil {
		return err
	}
	if err := s.LoadSettings(); err != nil {
		s.logger.Info("no settings to restore alongside backup", zap.Error(err))
	}
	s.logger.Info("database restored from backup", zap.String("path", backupPath))
	return nil
}

// ClearDatabase empties the store and persists the (now empty) snapshot.
func (s *Store) ClearDatabase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = make(map[string]*Client)
	return s.saveLocked()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(dst, data, 0o644)
}
