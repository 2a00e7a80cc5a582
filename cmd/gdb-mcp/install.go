package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhd2015/gdb-mcp/install"
)

func newInstallCmd() *cobra.Command {
	var serverName string
	var quiet bool
	var clients []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register this server in MCP client config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := install.Install(serverName, quiet, clients)
			if err != nil {
				return err
			}
			printResults(results, quiet)
			return nil
		},
	}
	cmd.Flags().StringVar(&serverName, "server-name", "gdb", "server entry name to write into client configs")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-client progress output")
	cmd.Flags().StringArrayVar(&clients, "client", nil, "limit to specific clients (repeatable); default is all detected")
	return cmd
}

func newUninstallCmd() *cobra.Command {
	var serverName string
	var quiet bool
	var clients []string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove this server from MCP client config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := install.Uninstall(serverName, quiet, clients)
			if err != nil {
				return err
			}
			printResults(results, quiet)
			return nil
		},
	}
	cmd.Flags().StringVar(&serverName, "server-name", "gdb", "server entry name to remove from client configs")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-client progress output")
	cmd.Flags().StringArrayVar(&clients, "client", nil, "limit to specific clients (repeatable); default is all detected")
	return cmd
}

func printResults(results []install.Result, quiet bool) {
	if quiet {
		return
	}
	for _, result := range results {
		line := fmt.Sprintf("%-12s %-10s %s", result.Client, result.Status, result.Path)
		if result.Reason != "" {
			line += " (" + result.Reason + ")"
		}
		fmt.Println(line)
	}
}
