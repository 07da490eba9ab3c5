package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/driveretriever/internal/google"
	"github.com/teemow/driveretriever/internal/instrumentation"
)

const listFields googleapi.Field = "files(id, name, mimeType, webViewLink, size)"

// Client wraps the Google Drive API service
type Client struct {
	service   *drive.Service
	chunkSize int64
	metrics   *instrumentation.Metrics
}

type clientOptions struct {
	chunkSize  int64
	metrics    *instrumentation.Metrics
	clientOpts []option.ClientOption
}

// Option configures a Client.
type Option func(*clientOptions)

// WithChunkSize sets the size of each ranged request made by DownloadFile.
// Non-positive values keep DefaultChunkSize.
func WithChunkSize(n int64) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithMetrics records Drive API operations on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithClientOptions passes additional options to the Drive service, e.g.
// option.WithEndpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *clientOptions) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// NewClient creates a Drive client that sends its requests through
// httpClient, which must already authorize them.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	o := clientOptions{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, o.clientOpts...)
	service, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service:   service,
		chunkSize: o.chunkSize,
		metrics:   o.metrics,
	}, nil
}

// NewClientFromCredential loads the stored credential at path and creates a
// Drive client authorized by it.
func NewClientFromCredential(ctx context.Context, path string, opts ...Option) (*Client, *google.Credential, error) {
	httpClient, cred, err := google.HTTPClientFromFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	client, err := NewClient(ctx, httpClient, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cred, nil
}

// ListFolder returns the first page of non-trashed files in a folder.
// Files are returned in the order the API lists them.
func (c *Client) ListFolder(ctx context.Context, opts ListOptions) (files []*FileInfo, err error) {
	if opts.FolderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}
	if opts.MaxResults < 1 || opts.MaxResults > MaxPageSize {
		return nil, fmt.Errorf("max results must be between 1 and %d, got %d", MaxPageSize, opts.MaxResults)
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationList,
		instrumentation.NewSpanAttributeBuilder().WithFolder(opts.FolderID).WithQuery(opts.FullText).Build()...)
	defer span.End()
	start := time.Now()
	defer func() { c.observe(ctx, span, instrumentation.OperationList, start, err) }()

	resp, err := c.service.Files.List().
		Context(ctx).
		Q(BuildFolderQuery(opts.FolderID, opts.FullText)).
		PageSize(int64(opts.MaxResults)).
		Fields(listFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", opts.FolderID, err)
	}

	files = make([]*FileInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		info, err := convertToFileInfo(f)
		if err != nil {
			return nil, err
		}
		files = append(files, info)
	}

	span.SetAttributes(attribute.Int("drive.files", len(files)))
	return files, nil
}

// DownloadFile downloads the content of a binary file in chunks of the
// configured size.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (data []byte, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationDownload,
		attribute.String(instrumentation.SpanAttrFileID, fileID))
	defer span.End()
	start := time.Now()
	defer func() { c.observe(ctx, span, instrumentation.OperationDownload, start, err) }()

	d := c.NewDownloader(fileID)
	for {
		progress, done, err := d.NextChunk(ctx)
		if err != nil {
			return nil, err
		}
		instrumentation.AddSpanEvent(span, "chunk",
			attribute.Int64("drive.received_bytes", progress.Received),
			attribute.Int64("drive.total_bytes", progress.Total))
		if done {
			break
		}
	}

	data = d.Bytes()
	c.metrics.RecordDownloadedBytes(ctx, instrumentation.OperationDownload, int64(len(data)))
	return data, nil
}

// ReadFile downloads the content of a file with a single request.
func (c *Client) ReadFile(ctx context.Context, fileID string) (data []byte, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationRead,
		attribute.String(instrumentation.SpanAttrFileID, fileID))
	defer span.End()
	start := time.Now()
	defer func() { c.observe(ctx, span, instrumentation.OperationRead, start, err) }()

	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}

	c.metrics.RecordDownloadedBytes(ctx, instrumentation.OperationRead, int64(len(data)))
	return data, nil
}

// ExportFile exports a native Google Workspace file to mimeType.
func (c *Client) ExportFile(ctx context.Context, fileID, mimeType string) (data []byte, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if mimeType == "" {
		return nil, fmt.Errorf("export MIME type is required")
	}

	ctx, span := instrumentation.StartDriveSpan(ctx, instrumentation.OperationExport,
		instrumentation.NewSpanAttributeBuilder().WithFile(fileID, mimeType).Build()...)
	defer span.End()
	start := time.Now()
	defer func() { c.observe(ctx, span, instrumentation.OperationExport, start, err) }()

	resp, err := c.service.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export file %s as %s: %w", fileID, mimeType, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export of file %s: %w", fileID, err)
	}

	c.metrics.RecordDownloadedBytes(ctx, instrumentation.OperationExport, int64(len(data)))
	return data, nil
}

func (c *Client) observe(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordDriveAPIOperation(ctx, operation, status, time.Since(start))
}

// convertToFileInfo converts a Drive API file to FileInfo, rejecting records
// that lack the fields every listed file must have.
func convertToFileInfo(f *drive.File) (*FileInfo, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: empty record", ErrMalformedFile)
	}
	switch {
	case f.Id == "":
		return nil, fmt.Errorf("%w: missing id (name %q)", ErrMalformedFile, f.Name)
	case f.Name == "":
		return nil, fmt.Errorf("%w: file %s has no name", ErrMalformedFile, f.Id)
	case f.MimeType == "":
		return nil, fmt.Errorf("%w: file %s has no mimeType", ErrMalformedFile, f.Id)
	}

	return &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
		Size:        f.Size,
	}, nil
}
