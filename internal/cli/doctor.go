package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/vitalflow/internal/keyring"
	"github.com/julianstephens/vitalflow/internal/migration"
	"github.com/julianstephens/vitalflow/internal/session"
	"github.com/julianstephens/vitalflow/internal/storage/sqlite"
	"github.com/julianstephens/vitalflow/internal/utils"
)

type DoctorCmd struct{}

type doctorCheck struct {
	name string
	run  func(ctx *Context) error
	// warnOnly checks print a warning instead of failing the run.
	warnOnly bool
	// needsStore checks are skipped when the store cannot be opened.
	needsStore bool
	// note returns an informational line printed after a passing check.
	note func(ctx *Context) string
}

var doctorChecks = []doctorCheck{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Data consistency", run: checkConsistency, needsStore: true, note: consistencyNote},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	storeReachable := true
	for _, check := range doctorChecks {
		if check.needsStore && !storeReachable {
			ctx.printf("⊘ %s: SKIPPED (store not reachable)\n", check.name)
			continue
		}
		err := check.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", check.name)
			if check.note != nil {
				if note := check.note(ctx); note != "" {
					ctx.printf("   ℹ %s\n", note)
				}
			}
		case check.warnOnly:
			ctx.printf("⚠ %s: WARNING\n", check.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", check.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			if check.name == "Store reachable" {
				storeReachable = false
			}
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.OpenStore(); err != nil {
		return err
	}
	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// Only SQLite stores carry a versioned schema
		return nil
	}
	runner, err := migration.ForSQLite(store.GetDB())
	if err != nil {
		return err
	}
	if err := runner.Check(); err != nil {
		return err
	}
	current, err := runner.Version()
	if err != nil {
		return err
	}
	if current < runner.Latest() {
		return fmt.Errorf("schema at version %d, latest is %d - reopen the store to migrate", current, runner.Latest())
	}
	return nil
}

func checkConsistency(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	return describeReport(sess.Doctor())
}

func consistencyNote(ctx *Context) string {
	sess, err := ctx.Session()
	if err != nil {
		return ""
	}
	r := sess.Doctor()
	if surplus := r.SurplusPoints(); surplus > 0 {
		return fmt.Sprintf("stored points %d exceed ledger replay %d by %d; the stored total is kept", r.StoredPoints, r.ReplayedPoints, surplus)
	}
	return ""
}

// describeReport turns a doctor report into an error listing every problem.
func describeReport(r session.DoctorReport) error {
	var problems []string
	if len(r.DuplicateIDs) > 0 {
		problems = append(problems, "duplicate entry ids: "+strings.Join(r.DuplicateIDs, ", "))
	}
	if len(r.InvalidEntries) > 0 {
		problems = append(problems, "invalid entries: "+strings.Join(r.InvalidEntries, ", "))
	}
	if r.StoredPoints < r.ReplayedPoints {
		problems = append(problems, fmt.Sprintf("stored points %d, ledger replay gives %d", r.StoredPoints, r.ReplayedPoints))
	}
	for _, id := range r.MissingBadges {
		problems = append(problems, fmt.Sprintf("badge %s earned but not marked achieved", id))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "\n   "))
}

func checkBackupsPresent(ctx *Context) error {
	if ctx.DataPath == "" {
		return nil
	}
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'vitalflow backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
