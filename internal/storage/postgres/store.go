package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pq "github.com/lib/pq"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// Conn is the subset of *pgxpool.Pool the store uses.
type Conn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	loadQuery = `SELECT value::text FROM vitalflow_snapshots WHERE key = $1`
	saveQuery = `INSERT INTO vitalflow_snapshots (key, value, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type Store struct {
	connStr  string
	password string
	conn     Conn
	pool     *pgxpool.Pool
}

func New(connStr string) *Store {
	return &Store{connStr: connStr}
}

// NewWithConn wraps an existing connection. Init then only ensures the schema.
func NewWithConn(conn Conn) *Store {
	return &Store{conn: conn}
}

// WithPassword supplies a password kept outside the connection string, such
// as one read from the OS keyring.
func (s *Store) WithPassword(password string) *Store {
	s.password = password
	return s
}

func (s *Store) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.PostgresTimeout)
	defer cancel()

	if s.conn == nil {
		cfg, err := pgxpool.ParseConfig(s.connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if s.password != "" {
			cfg.ConnConfig.Password = s.password
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		s.pool = pool
		s.conn = pool
	}

	if err := s.conn.Ping(ctx); err != nil {
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	schema, err := migrations.FS.ReadFile("postgres/001_snapshots.sql")
	if err != nil {
		return fmt.Errorf("failed to read postgres schema: %w", err)
	}
	if _, err := s.conn.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Debug("Postgres snapshot store ready")
	return nil
}

func (s *Store) Load(key string) ([]byte, error) {
	if s.conn == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.PostgresTimeout)
	defer cancel()

	var value string
	if err := s.conn.QueryRow(ctx, loadQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Save(key string, data []byte) error {
	if s.conn == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.PostgresTimeout)
	defer cancel()

	if _, err := s.conn.Exec(ctx, saveQuery, key, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	s.conn = nil
	return nil
}

func (s *Store) GetConfigPath() string {
	// Return a non-sensitive identifier instead of the full connection string
	return "postgresql"
}

// IsConnString reports whether a store location names a Postgres database.
func IsConnString(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// hasSSLMode checks if the connection string contains an sslmode parameter key (case-insensitive).
// It supports both URL-style and DSN-style connection strings.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}

	for _, part := range strings.Fields(connStr) {
		key, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(key, "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks that a connection string is a valid PostgreSQL
// URI or DSN and that it does not embed a password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	for _, pair := range strings.Fields(connStr) {
		key, _, ok := strings.Cut(pair, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "password") {
			return false, ErrEmbeddedCredentials
		}
	}
	return true, nil
}
