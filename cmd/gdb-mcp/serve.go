package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/xhd2015/gdb-mcp/config"
	"github.com/xhd2015/gdb-mcp/gdb"
	"github.com/xhd2015/gdb-mcp/logging"
	gdbtools "github.com/xhd2015/gdb-mcp/tools/gdb"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio, or over SSE with --listen",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")

	settings, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(os.Getenv("GDB_MCP_LOG_LEVEL")),
		Output: logFile,
	})

	manager := gdb.NewManager()
	defer manager.Shutdown()

	// Kill leftover gdb processes when the client disconnects us with a
	// signal rather than closing stdin.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		manager.Shutdown()
		os.Exit(0)
	}()

	s := server.NewMCPServer(
		"GDB Debugger MCP",
		serverVersion,
		server.WithToolCapabilities(true),
	)
	if err := gdbtools.RegisterTools(s, gdbtools.ToolOptions{
		Manager:  manager,
		Settings: settings,
	}); err != nil {
		return err
	}

	if listen == "" {
		logging.Logger.Info().Str("mode", string(settings.Mode)).Msg("serving MCP on stdio")
		return server.ServeStdio(s)
	}
	logging.Logger.Info().Str("listen", listen).Str("mode", string(settings.Mode)).Msg("serving MCP over SSE")
	sseServer := server.NewSSEServer(s)
	return sseServer.Start(listen)
}

// openLogFile opens the append-only server log under the config directory.
// Stdout and stderr belong to the MCP transport, so logs go to a file.
func openLogFile() (*os.File, error) {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, "gdb-mcp.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
