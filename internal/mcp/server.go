// Package mcp exposes the library over the Model Context Protocol so
// agent clients can search, ask, and browse sources.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/manifest"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Answerer turns retrieved results into a cited answer.
type Answerer interface {
	Synthesize(ctx context.Context, question string, results []index.Result, language string) *synthesis.Result
}

// Server wraps an MCP server that exposes library search tools.
type Server struct {
	idx      index.Index
	answerer Answerer
	store    *manifest.Store
	language string
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(idx index.Index, answerer Answerer, store *manifest.Store, language string) *Server {
	s := &Server{
		idx:      idx,
		answerer: answerer,
		store:    store,
		language: language,
	}

	s.mcp = server.NewMCPServer(
		"mediarag",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchLibraryTool, s.handleSearchLibrary)
	s.mcp.AddTool(askLibraryTool, s.handleAskLibrary)
	s.mcp.AddTool(listSourcesTool, s.handleListSources)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
