package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xhd2015/gdb-mcp/logging"
)

const serverVersion = "1.0.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "gdb-mcp",
		Short:   "MCP server exposing interactive GDB sessions as tools",
		Version: serverVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation serves stdio, which is how MCP clients
			// spawn the binary.
			return runServe(cmd, args)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Log to stderr for every command; serve swaps the output
			// to the log file so stdio stays clean for MCP framing.
			logging.Init(logging.Config{
				Level:  logging.ParseLevel(os.Getenv("GDB_MCP_LOG_LEVEL")),
				Output: os.Stderr,
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("listen", "", "serve MCP over SSE on this address instead of stdio")

	root.AddCommand(newServeCmd())
	root.AddCommand(newInstallCmd())
	root.AddCommand(newUninstallCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newDoctorCmd())
	return root
}
