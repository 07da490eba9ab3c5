// Package instrumentation provides OpenTelemetry metrics and tracing for the
// Drive retriever.
//
// # Metrics
//
// Drive API Metrics:
//   - drive_api_operations_total: Counter of Drive API operations by operation and status
//   - drive_api_operation_duration_seconds: Histogram of Drive API operation durations
//   - drive_downloaded_bytes_total: Counter of bytes transferred by operation
//
// Retriever Metrics:
//   - documents_retrieved_total: Counter of listed files by outcome (text, empty, unsupported, failed)
//   - retrievals_total: Counter of retriever invocations by status
//   - retrieval_duration_seconds: Histogram of retriever invocation durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - retriever invocations (retriever.invoke)
//   - Drive API calls (drive.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: driveretriever)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordDriveAPIOperation(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
//	recorder.RecordDocument(ctx, instrumentation.OutcomeText, "application/pdf")
package instrumentation
