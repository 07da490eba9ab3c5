package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the driveretriever packages.
const TracerName = "github.com/teemow/driveretriever"

// Span attribute keys for operations.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrOperation is the Drive operation type attribute.
	SpanAttrOperation = "drive.operation"

	// SpanAttrFolderID is the folder being listed.
	SpanAttrFolderID = "drive.folder_id"

	// SpanAttrFileID is the file being downloaded or exported.
	SpanAttrFileID = "drive.file_id"

	// SpanAttrMimeType is the MIME type of the file.
	SpanAttrMimeType = "drive.mime_type"

	// SpanAttrQuery reports whether a full-text term was given, never the term itself.
	SpanAttrQuery = "retriever.has_query"

	// SpanAttrDocuments is the number of documents returned.
	SpanAttrDocuments = "retriever.documents"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithFolder adds the folder attribute.
func (b *SpanAttributeBuilder) WithFolder(folderID string) *SpanAttributeBuilder {
	if folderID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrFolderID, folderID))
	}
	return b
}

// WithFile adds file attributes.
func (b *SpanAttributeBuilder) WithFile(fileID, mimeType string) *SpanAttributeBuilder {
	if fileID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrFileID, fileID))
	}
	if mimeType != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrMimeType, mimeType))
	}
	return b
}

// WithQuery records whether a full-text term is present.
func (b *SpanAttributeBuilder) WithQuery(query string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrQuery, query != ""))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartDriveSpan starts a client span for a Drive API operation.
func StartDriveSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "drive."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
