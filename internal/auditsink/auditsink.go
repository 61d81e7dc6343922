// Package auditsink mirrors committed account transactions into an
// external PostgreSQL table for reporting. It is never part of the
// transaction boundary the Store enforces: a write failure here is logged
// and counted, never propagated back to the caller that moved money.
package auditsink

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

// Sink mirrors transactions into PostgreSQL. A nil *Sink is valid and
// treats every Record call as a no-op, so callers don't need to branch on
// whether an audit DSN was configured.
type Sink struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens a connection pool to dsn and ensures the audit schema exists.
func New(dsn string, logger *zap.Logger) (*Sink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	logger.Info("audit sink ready")
	return &Sink{db: db, logger: logger}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions_audit (
			id SERIAL PRIMARY KEY,
			transaction_id VARCHAR(32) NOT NULL,
			account_number VARCHAR(64) NOT NULL,
			client_account_id VARCHAR(32) NOT NULL,
			transaction_type VARCHAR(16) NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			description TEXT,
			target_account VARCHAR(64),
			occurred_at TIMESTAMPTZ NOT NULL,
			inserted_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_audit_account ON transactions_audit(account_number);
		CREATE INDEX IF NOT EXISTS idx_transactions_audit_client ON transactions_audit(client_account_id);
		CREATE INDEX IF NOT EXISTS idx_transactions_audit_occurred_at ON transactions_audit(occurred_at);
	`)
	return err
}

// Record mirrors one transaction leg. Errors are logged, not returned,
// since a reporting-surface write must never roll back the Store mutation
// that already committed.
func (s *Sink) Record(clientAccountID, accountNumber, transactionID, transactionType string, amount float64, description, targetAccount string, occurredAt time.Time) {
	if s == nil {
		return
	}
	_, err := s.db.Exec(`
		INSERT INTO transactions_audit
			(transaction_id, account_number, client_account_id, transaction_type, amount, description, target_account, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transactionID, accountNumber, clientAccountID, transactionType, amount, description, targetAccount, occurredAt,
	)
	if err != nil {
		s.logger.Warn("failed to write audit record",
			zap.String("transactionId", transactionID),
			zap.Error(err))
	}
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
