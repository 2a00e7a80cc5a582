package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhd2015/gdb-mcp/install"
)

func newConfigCmd() *cobra.Command {
	var serverName string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print manual MCP client configuration snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(install.RenderManualConfig(serverName))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverName, "server-name", "gdb", "server entry name used in the snippets")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local environment for gdb and known MCP clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := install.DetectEnvironment()
			out, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			if gdbPath, _ := env["gdb"].(string); gdbPath == "" {
				return fmt.Errorf("gdb not found in PATH")
			}
			return nil
		},
	}
}
