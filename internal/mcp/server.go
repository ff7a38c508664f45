// Package mcp exposes the session as a stdio MCP server so AI agents can
// log habits and read progress.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/session"
)

const serverName = "VitalFlow MCP Server"

type Server struct {
	mcpServer *server.MCPServer
	sess      *session.Session
}

// New builds the server and registers every tool.
func New(sess *session.Session) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			serverName,
			constants.Version,
			server.WithLogging(),
			server.WithRecovery(),
		),
		sess: sess,
	}
	s.registerTools()
	return s
}

// Start runs the stdio event loop until stdin closes.
func (s *Server) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the underlying mcp-go server.
func (s *Server) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
