package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrOutcome   = "outcome"
	attrMimeType  = "mime_type"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
// A nil *Metrics and a zero Metrics are both valid no-op recorders.
type Metrics struct {
	// Drive API metrics
	driveAPIOperationsTotal   metric.Int64Counter
	driveAPIOperationDuration metric.Float64Histogram
	driveDownloadedBytesTotal metric.Int64Counter

	// Retriever metrics
	documentsRetrievedTotal metric.Int64Counter
	retrievalsTotal         metric.Int64Counter
	retrievalDuration       metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether the MIME type label is included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Drive API Metrics
	m.driveAPIOperationsTotal, err = meter.Int64Counter(
		"drive_api_operations_total",
		metric.WithDescription("Total number of Google Drive API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operations_total counter: %w", err)
	}

	m.driveAPIOperationDuration, err = meter.Float64Histogram(
		"drive_api_operation_duration_seconds",
		metric.WithDescription("Google Drive API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operation_duration_seconds histogram: %w", err)
	}

	m.driveDownloadedBytesTotal, err = meter.Int64Counter(
		"drive_downloaded_bytes_total",
		metric.WithDescription("Total number of bytes downloaded or exported from Google Drive"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_downloaded_bytes_total counter: %w", err)
	}

	// Retriever Metrics
	m.documentsRetrievedTotal, err = meter.Int64Counter(
		"documents_retrieved_total",
		metric.WithDescription("Total number of listed files by retrieval outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create documents_retrieved_total counter: %w", err)
	}

	m.retrievalsTotal, err = meter.Int64Counter(
		"retrievals_total",
		metric.WithDescription("Total number of retriever invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retrievals_total counter: %w", err)
	}

	m.retrievalDuration, err = meter.Float64Histogram(
		"retrieval_duration_seconds",
		metric.WithDescription("Retriever invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieval_duration_seconds histogram: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordDriveAPIOperation records a Drive API operation with operation,
// status, and duration.
//
// Parameters:
//   - operation: Operation type (list, download, read, export)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordDriveAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.driveAPIOperationsTotal == nil || m.driveAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.driveAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.driveAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDownloadedBytes adds n bytes transferred by the given operation.
func (m *Metrics) RecordDownloadedBytes(ctx context.Context, operation string, n int64) {
	if m == nil || m.driveDownloadedBytesTotal == nil || n <= 0 {
		return
	}

	m.driveDownloadedBytesTotal.Add(ctx, n, metric.WithAttributes(attribute.String(attrOperation, operation)))
}

// RecordDocument records the outcome of processing one listed file.
// Outcome should be one of: "text", "empty", "unsupported", "failed".
func (m *Metrics) RecordDocument(ctx context.Context, outcome, mimeType string) {
	if m == nil || m.documentsRetrievedTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOutcome, outcome),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && mimeType != "" {
		attrs = append(attrs, attribute.String(attrMimeType, mimeType))
	}

	m.documentsRetrievedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRetrieval records a complete retriever invocation.
func (m *Metrics) RecordRetrieval(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.retrievalsTotal == nil || m.retrievalDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.retrievalsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.retrievalDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "drive_retrieve_documents")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
