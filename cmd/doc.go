// Package cmd implements the command-line interface for driveretriever.
//
// This package provides the following commands:
//   - retrieve: Print the documents of the configured Drive folder
//   - list: List the files of the configured Drive folder
//   - check: Inspect the stored Google credential
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The retrieve command is the default command when no subcommand is specified.
package cmd
