package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/driveretriever/internal/google"
)

// QueryArg returns the optional "query" argument. A non-string value is
// treated as absent.
func QueryArg(request mcp.CallToolRequest) string {
	query, _ := request.GetArguments()["query"].(string)
	return query
}

// ErrorResult turns err into a tool error result, adding a remediation hint
// for credential and Drive access errors.
func ErrorResult(msg string, err error) *mcp.CallToolResult {
	text := fmt.Sprintf("%s: %v", msg, err)
	if hint := google.Hint(err); hint != "" {
		text += "\n\nHint: " + hint
	}
	return mcp.NewToolResultError(text)
}

// JSONResult marshals v as indented JSON into a text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
