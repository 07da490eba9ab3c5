// Package common provides helpers shared by the MCP tool packages: the
// instrumentation wrapper, argument parsing and result construction.
package common
