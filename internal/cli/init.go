package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/vitalflow/internal/config"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing data file before initialization. A backup is taken first."`
	Source string `help:"Store path or PostgreSQL connection string to copy snapshots from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force && ctx.DataPath != "" {
		if c.Source != "" && samePath(c.Source, ctx.DataPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", ctx.DataPath)
		}
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.OpenStore(); err != nil {
		return err
	}
	ctx.printf("Initialized vitalflow storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.printf("Copying data from: %s\n", c.Source)
		copied, err := copySnapshots(config.ExpandPath(c.Source), ctx.Store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.printf("Copied %d snapshot(s).\n", copied)
	}
	return nil
}

func (c *InitCmd) reset(ctx *Context) error {
	if _, err := os.Stat(ctx.DataPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing data file: %w", err)
	}
	ctx.PerformAutomaticBackup()
	if err := os.Remove(ctx.DataPath); err != nil {
		return fmt.Errorf("failed to delete existing data file: %w", err)
	}
	ctx.printf("Deleted existing data file at: %s\n", ctx.DataPath)
	return nil
}

// copySnapshots copies every snapshot key that exists in the source store.
func copySnapshots(source string, dst storage.Provider) (int, error) {
	src, _, err := NewProvider(source, false)
	if err != nil {
		return 0, err
	}
	if err := src.Init(); err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	copied := 0
	for _, key := range []string{constants.KeyLedger, constants.KeyPointsAndBadges, constants.KeyUserProfile} {
		data, err := src.Load(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Save(key, data); err != nil {
			return copied, fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(config.ExpandPath(a))
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
