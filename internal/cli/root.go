package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/vitalflow/internal/backup"
	"github.com/julianstephens/vitalflow/internal/coach"
	"github.com/julianstephens/vitalflow/internal/config"
	"github.com/julianstephens/vitalflow/internal/keyring"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/session"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// Context is shared by every command. The store is opened lazily so that
// commands such as keyring and debug path never touch it.
type Context struct {
	Config *config.Config
	Store  storage.Provider
	// DataPath is the local data file. Empty for Postgres and in-memory stores.
	DataPath string
	Clock    utils.Clock
	Out      io.Writer
	In       io.Reader
	// Interactive enables spinners and forms.
	Interactive bool
	// NewCoach replaces the Gemini-backed coach, mainly in tests.
	NewCoach func(ctx context.Context) (*coach.Coach, error)

	sess      *session.Session
	lock      *storage.Lock
	storeOpen bool
	closers   []func() error
}

// NewContext selects the store for cfg and resolves the clock.
func NewContext(cfg *config.Config, ephemeral bool) (*Context, error) {
	store, dataPath, err := NewProvider(cfg.Store, ephemeral)
	if err != nil {
		return nil, err
	}
	clock, err := utils.NewSystemClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:   cfg,
		Store:    store,
		DataPath: dataPath,
		Clock:    clock,
		Out:      os.Stdout,
		In:       os.Stdin,
	}, nil
}

// OpenStore takes the lock on file stores and initializes the provider.
func (c *Context) OpenStore() error {
	if c.storeOpen {
		return nil
	}
	if c.DataPath != "" {
		lock, err := storage.AcquireLock(c.DataPath)
		if err != nil {
			if errors.Is(err, storage.ErrLocked) {
				return fmt.Errorf("%w: close the TUI or MCP server using %s", err, c.DataPath)
			}
			return err
		}
		c.lock = lock
	}
	if err := c.Store.Init(); err != nil {
		_ = c.releaseLock()
		return fmt.Errorf("failed to open store: %w", err)
	}
	c.storeOpen = true
	return nil
}

// Session opens the store and the session on first use.
func (c *Context) Session() (*session.Session, error) {
	if c.sess != nil {
		return c.sess, nil
	}
	if err := c.OpenStore(); err != nil {
		return nil, err
	}
	sess, err := session.Open(c.Store, session.Options{Clock: c.Clock, IDScheme: c.Config.IDScheme})
	if err != nil {
		return nil, err
	}
	c.sess = sess
	return sess, nil
}

// Close releases everything the command opened.
func (c *Context) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	if c.storeOpen {
		errs = append(errs, c.Store.Close())
		c.storeOpen = false
		c.sess = nil
	}
	errs = append(errs, c.releaseLock())
	return errors.Join(errs...)
}

func (c *Context) releaseLock() error {
	if c.lock == nil {
		return nil
	}
	err := c.lock.Release()
	c.lock = nil
	return err
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.DataPath == "" {
		return
	}
	mgr, err := backup.NewManager(c.DataPath)
	if err != nil {
		logger.Warn("Automatic backup skipped", "error", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Coach builds the AI coach. Without an API key the coach is returned but
// unavailable, so callers fall back to the canned text.
func (c *Context) Coach(ctx context.Context) (*coach.Coach, error) {
	if c.NewCoach != nil {
		return c.NewCoach(ctx)
	}
	timeout := c.Config.Coach.Timeout
	key := c.Config.Coach.APIKey
	if key == "" {
		stored, err := keyring.Get(keyring.GeminiAPIKey)
		switch {
		case err == nil:
			key = stored
		case errors.Is(err, keyring.ErrNotFound):
		default:
			logger.Debug("Keyring lookup failed", "secret", keyring.GeminiAPIKey, "error", err)
		}
	}
	if key == "" {
		return coach.New(nil, timeout), nil
	}

	gen, err := coach.NewGemini(ctx, key, c.Config.Coach.Model)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, gen.Close)
	return coach.New(gen, timeout), nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// printJSON writes v as indented, machine-readable JSON.
func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(c.Out, string(jsonBytes))
	return nil
}

// resolveDate accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func (c *Context) resolveDate(input string) (string, error) {
	today := c.Clock.Today()
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.PreviousDay(today)
	}
	if !utils.IsValidDate(input) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", input)
	}
	return input, nil
}

// confirm asks a yes/no question on In unless assumeYes is set.
func (c *Context) confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
