package cli

import (
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/mcp"
)

// McpCmd serves the session over MCP on stdin/stdout. Logs go to the log
// file only, since stdout carries the protocol.
type McpCmd struct{}

func (c *McpCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	logger.Info("Starting MCP server", "store", ctx.Store.GetConfigPath())
	return mcp.New(sess).Start()
}
