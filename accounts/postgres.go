package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/toxin"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PoolConfig sizes the connection pool opened by [OpenPostgres].
type PoolConfig struct {
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	Timeout     time.Duration
}

// DefaultPoolConfig returns the pool settings used by the server.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:    25,
		MinConns:    5,
		MaxLifetime: time.Hour,
		MaxIdleTime: 10 * time.Minute,
		Timeout:     5 * time.Second,
	}
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxConns)
	db.SetMaxIdleConns(pool.MinConns)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// PostgresStore keeps accounts in a single table of JSONB documents:
//
//	account(id TEXT PRIMARY KEY, doc JSONB, created_at TIMESTAMPTZ)
//
// A unique expression index on doc->>'username' enforces username
// uniqueness.
type PostgresStore struct {
	db *sql.DB
}

// document is the JSONB body stored per account.
type document struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewPostgresStore wraps db. Call Migrate before first use.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the account table and its username index if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS account (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS account_username_key ON account ((doc->>'username'))`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate account table: %w", err)
		}
	}
	return nil
}

// FindByUsername looks the account up through the username index.
//
//	Performance: 1 indexed SELECT.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*toxin.Account, error) {
	query := `SELECT id, doc FROM account WHERE doc->>'username' = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, username))
}

// FindByID returns the account with id, or [toxin.ErrAccountNotFound].
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*toxin.Account, error) {
	query := `SELECT id, doc FROM account WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// List returns every account ordered by creation time.
func (s *PostgresStore) List(ctx context.Context) ([]toxin.Account, error) {
	query := `SELECT id, doc FROM account ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []toxin.Account
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return out, nil
}

// Insert writes a new account document. A unique violation on the id or the
// username index yields [toxin.ErrAccountExists].
func (s *PostgresStore) Insert(ctx context.Context, account *toxin.Account) error {
	doc, err := encodeDocument(account)
	if err != nil {
		return err
	}

	query := `INSERT INTO account (id, doc) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, account.ID, doc); err != nil {
		if isUniqueViolation(err) {
			return toxin.ErrAccountExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// Update replaces the stored document. It returns [toxin.ErrAccountNotFound]
// when no row matched and [toxin.ErrAccountExists] on a username clash.
func (s *PostgresStore) Update(ctx context.Context, account *toxin.Account) error {
	doc, err := encodeDocument(account)
	if err != nil {
		return err
	}

	query := `UPDATE account SET doc = $2 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, account.ID, doc)
	if err != nil {
		if isUniqueViolation(err) {
			return toxin.ErrAccountExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRow(result)
}

// Delete removes the account row, or returns [toxin.ErrAccountNotFound].
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM account WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) scanOne(row *sql.Row) (*toxin.Account, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, toxin.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return decodeDocument(id, raw)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return toxin.ErrAccountNotFound
	}
	return nil
}

func encodeDocument(account *toxin.Account) ([]byte, error) {
	doc, err := json.Marshal(document{
		Username: account.Username,
		Password: account.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	return doc, nil
}

func decodeDocument(id string, raw []byte) (*toxin.Account, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", id, err)
	}
	return &toxin.Account{
		ID:       id,
		Username: doc.Username,
		Password: doc.Password,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
