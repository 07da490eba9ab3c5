package retriever

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/driveretriever/internal/config"
	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/instrumentation"
	"github.com/teemow/driveretriever/internal/logging"
	"github.com/teemow/driveretriever/internal/pdftext"
)

// DefaultNumResults is the number of files listed per invocation when
// Options.NumResults is zero.
const DefaultNumResults = 10

// Storage is the part of the Drive client the retriever depends on.
type Storage interface {
	ListFolder(ctx context.Context, opts drive.ListOptions) ([]*drive.FileInfo, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	ReadFile(ctx context.Context, fileID string) ([]byte, error)
	ExportFile(ctx context.Context, fileID, mimeType string) ([]byte, error)
}

// Options configures a Retriever.
type Options struct {
	// FolderID is the folder to search (default: drive.RootFolderID)
	FolderID string

	// NumResults is the maximum number of files per invocation (default: DefaultNumResults)
	NumResults int

	// Logger receives per-file warnings and invocation summaries (default: discard)
	Logger logging.Logger

	// Metrics records document outcomes and invocation durations (optional)
	Metrics *instrumentation.Metrics
}

// Retriever turns the files of a Drive folder into Documents.
// Invocations run sequentially; a Retriever may be reused but must not be
// invoked concurrently.
type Retriever struct {
	storage    Storage
	folderID   string
	numResults int
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	extract    func([]byte) (string, error)
}

// New creates a Retriever over storage.
func New(storage Storage, opts Options) (*Retriever, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}

	if opts.FolderID == "" {
		opts.FolderID = drive.RootFolderID
	}
	if opts.NumResults == 0 {
		opts.NumResults = DefaultNumResults
	}
	if opts.NumResults < 1 || opts.NumResults > drive.MaxPageSize {
		return nil, fmt.Errorf("number of results must be between 1 and %d, got %d", drive.MaxPageSize, opts.NumResults)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &Retriever{
		storage:    storage,
		folderID:   opts.FolderID,
		numResults: opts.NumResults,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		extract:    pdftext.Extract,
	}, nil
}

// NewFromConfig loads the stored credential named by cfg and creates a
// Retriever backed by the Drive API.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *instrumentation.Metrics) (*Retriever, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	client, cred, err := drive.NewClientFromCredential(ctx, cfg.TokenPath,
		drive.WithChunkSize(cfg.ChunkSize),
		drive.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded Google credential",
		"path", cred.Path,
		"refreshable", cred.CanRefresh(),
		"access_token", logging.SanitizeToken(cred.AccessToken))

	return New(client, Options{
		FolderID:   cfg.FolderID,
		NumResults: cfg.NumResults,
		Logger:     logger,
		Metrics:    metrics,
	})
}

// FolderID returns the folder the retriever searches.
func (r *Retriever) FolderID() string {
	return r.folderID
}

// NumResults returns the maximum number of files listed per invocation.
func (r *Retriever) NumResults() int {
	return r.numResults
}

// ListFiles lists the files an invocation with the same query would process.
func (r *Retriever) ListFiles(ctx context.Context, query string) ([]*drive.FileInfo, error) {
	files, err := r.storage.ListFolder(ctx, drive.ListOptions{
		FolderID:   r.folderID,
		FullText:   query,
		MaxResults: r.numResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", r.folderID, err)
	}
	return files, nil
}

// Invoke lists the folder, optionally filtered by query, and returns one
// Document per supported file in listing order. Files of unsupported types
// are skipped. Files that cannot be downloaded or parsed produce a Document
// with empty content. Only a listing failure fails the invocation.
func (r *Retriever) Invoke(ctx context.Context, query string) (docs []Document, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "retriever.invoke",
		instrumentation.NewSpanAttributeBuilder().WithFolder(r.folderID).WithQuery(query).Build()...)
	defer span.End()

	start := time.Now()
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		r.metrics.RecordRetrieval(ctx, status, time.Since(start))
	}()

	files, err := r.ListFiles(ctx, query)
	if err != nil {
		r.logger.Error("failed to list folder", logging.FolderID(r.folderID), logging.Err(err))
		return nil, err
	}
	r.logger.Debug("listed folder", logging.FolderID(r.folderID), "files", len(files))

	docs = make([]Document, 0, len(files))
	counts := make(map[contentKind]int)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("retrieval interrupted: %w", err)
		}

		c := r.fetchContent(ctx, f)
		counts[c.kind]++
		r.metrics.RecordDocument(ctx, c.kind.outcome(), f.MimeType)

		if c.kind == contentUnsupported {
			r.logger.Debug("skipping unsupported file",
				logging.FileID(f.ID),
				logging.FileName(f.Name),
				logging.MimeType(f.MimeType))
			continue
		}
		docs = append(docs, newDocument(f, c.text))
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrDocuments, len(docs)))
	r.logger.Info("retrieved documents",
		logging.FolderID(r.folderID),
		"files", len(files),
		"documents", len(docs),
		"empty", counts[contentEmpty],
		"failed", counts[contentFailed],
		"unsupported", counts[contentUnsupported],
		logging.Status(logging.StatusSuccess),
		logging.Duration(time.Since(start)))

	return docs, nil
}
