package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/vitalflow/internal/storage"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show the store location."`
	DumpKey   *DebugDumpKeyCmd   `cmd:"" help:"Dump a raw snapshot as JSON."`
	DumpEntry *DebugDumpEntryCmd `cmd:"" help:"Dump one ledger entry as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	return ctx.printJSON(map[string]string{
		"path":     ctx.Store.GetConfigPath(),
		"dataFile": ctx.DataPath,
	})
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" enum:"ledger,pointsAndBadges,userProfile" help:"Snapshot key: ledger, pointsAndBadges or userProfile."`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *Context) error {
	if err := ctx.OpenStore(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	data, err := ctx.Store.Load(cmd.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no %s snapshot stored", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cmd.Key, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("stored %s is not valid JSON: %w", cmd.Key, err)
	}
	ctx.println(out.String())
	return nil
}

type DebugDumpEntryCmd struct {
	ID string `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	for _, e := range sess.Entries() {
		if e.ID == cmd.ID {
			return ctx.printJSON(e)
		}
	}
	return fmt.Errorf("entry not found: %s", cmd.ID)
}
