// Package migration brings the SQLite snapshot database up to the schema
// embedded in the binary. The applied version lives in PRAGMA user_version,
// so a database carries no bookkeeping table of its own.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/migrations"
)

// ErrSchemaTooNew is returned when the database was written by a newer vitalflow.
var ErrSchemaTooNew = errors.New("database schema is newer than this vitalflow supports")

// Step is one numbered schema file, NNN_name.sql.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies steps in version order, one transaction per step.
type Runner struct {
	db    *sql.DB
	steps []Step
}

// New parses the steps found at the root of files.
func New(db *sql.DB, files fs.FS) (*Runner, error) {
	steps, err := parseSteps(files)
	if err != nil {
		return nil, err
	}
	return &Runner{db: db, steps: steps}, nil
}

// ForSQLite returns a runner over the embedded SQLite schema.
func ForSQLite(db *sql.DB) (*Runner, error) {
	files, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return New(db, files)
}

// Steps returns the parsed steps, lowest version first.
func (r *Runner) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Latest is the highest version the binary knows, 0 without steps.
func (r *Runner) Latest() int {
	if len(r.steps) == 0 {
		return 0
	}
	return r.steps[len(r.steps)-1].Version
}

// Version reads the applied schema version. A fresh database reports 0.
func (r *Runner) Version() (int, error) {
	var v int
	if err := r.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Check fails with ErrSchemaTooNew when the database is ahead of the binary.
func (r *Runner) Check() error {
	v, err := r.Version()
	if err != nil {
		return err
	}
	if v > r.Latest() {
		return fmt.Errorf("%w: database at version %d, binary at %d - please upgrade vitalflow", ErrSchemaTooNew, v, r.Latest())
	}
	return nil
}

// Up applies every pending step and returns how many ran. A failing step is
// rolled back together with its version bump.
func (r *Runner) Up() (int, error) {
	if err := r.Check(); err != nil {
		return 0, err
	}
	current, err := r.Version()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, step := range r.steps {
		if step.Version <= current {
			continue
		}
		if err := r.apply(step); err != nil {
			return applied, err
		}
		logger.Info("Applied schema step", "version", step.Version, "name", step.Name)
		applied++
	}
	return applied, nil
}

func (r *Runner) apply(step Step) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("step %d: failed to begin transaction: %w", step.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.SQL); err != nil {
		return fmt.Errorf("step %d (%s) failed: %w", step.Version, step.Name, err)
	}
	// PRAGMA does not take bound parameters; Version is an int.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", step.Version)); err != nil {
		return fmt.Errorf("step %d: failed to record version: %w", step.Version, err)
	}
	return tx.Commit()
}

func parseSteps(files fs.FS) ([]Step, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var steps []Step
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if !ok || rest == "" {
			return nil, fmt.Errorf("migration %s: name must look like NNN_name.sql", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("migration %s: version must be a positive number", name)
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		steps = append(steps, Step{Version: version, Name: rest, SQL: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("migration version %d is used twice", steps[i].Version)
		}
	}
	return steps, nil
}
