package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/vitalflow/internal/backup"
	"github.com/julianstephens/vitalflow/internal/constants"
	apperrors "github.com/julianstephens/vitalflow/internal/errors"
	"github.com/julianstephens/vitalflow/internal/storage"
)

func (c *Context) backupManager() (*backup.Manager, error) {
	if c.DataPath == "" {
		return nil, apperrors.WithHint(backup.ErrUnsupported, "use pg_dump for PostgreSQL stores")
	}
	return backup.NewManager(c.DataPath)
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	// Opening the store creates the data file on first use.
	if err := ctx.OpenStore(); err != nil {
		return err
	}

	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.Dir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	ctx.println("⚠️  WARNING: This will replace your current data with the backup.")
	ctx.println("A backup of your current data will be created before restoring.")
	ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
	ok, err := ctx.confirm("Continue?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Restore cancelled.")
		return nil
	}

	// Close the current store connection before restoring
	if err := ctx.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	lock, err := storage.AcquireLock(ctx.DataPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.println("✓ Data restored successfully!")
	if previous != "" {
		ctx.printf("Previous data saved as: %s\n", filepath.Base(previous))
	}
	return nil
}
