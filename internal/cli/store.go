package cli

import (
	"errors"
	"path/filepath"
	"strings"

	apperrors "github.com/julianstephens/vitalflow/internal/errors"
	"github.com/julianstephens/vitalflow/internal/keyring"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/internal/storage/postgres"
	"github.com/julianstephens/vitalflow/internal/storage/sqlite"
)

// NewProvider picks a provider for a store location. It returns the local
// data file path for JSON and SQLite stores, and "" otherwise.
//
//   - ephemeral: in-memory, nothing is persisted
//   - postgres:// or postgresql://: Postgres, password from the OS keyring
//   - *.json: a single JSON document
//   - anything else: SQLite
func NewProvider(location string, ephemeral bool) (storage.Provider, string, error) {
	switch {
	case ephemeral:
		return storage.NewMemoryStore(), "", nil
	case postgres.IsConnString(location):
		if _, err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", apperrors.WithHint(err, "remove the password and store it with `vitalflow keyring set postgres-password`")
			}
			return nil, "", err
		}
		store := postgres.New(location)
		password, err := keyring.Get(keyring.PostgresPassword)
		switch {
		case err == nil:
			store.WithPassword(password)
		case errors.Is(err, keyring.ErrNotFound):
			logger.Debug("No Postgres password in keyring, relying on PGPASSWORD or .pgpass")
		default:
			logger.Warn("Keyring lookup failed", "secret", keyring.PostgresPassword, "error", err)
		}
		return store, "", nil
	case strings.EqualFold(filepath.Ext(location), ".json"):
		return storage.NewJSONStore(location), location, nil
	default:
		return sqlite.NewStore(location), location, nil
	}
}
