package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/driveretriever/internal/instrumentation"
	"github.com/teemow/driveretriever/internal/logging"
	"github.com/teemow/driveretriever/internal/server"
)

// ToolHandler is the signature of an MCP tool handler. It is an alias so
// handlers can be passed to mcpserver.MCPServer.AddTool directly.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and a
// completion log line. A result with IsError set counts as an error.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
		default:
			instrumentation.SetSpanSuccess(span)
		}

		// Metrics is nil-safe
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)

		sc.Logger().Debug("tool invocation completed",
			logging.Tool(toolName),
			logging.Status(status),
			logging.Duration(duration),
			logging.Err(err))

		return result, err
	}
}
