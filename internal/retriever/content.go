package retriever

import (
	"context"

	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/instrumentation"
	"github.com/teemow/driveretriever/internal/logging"
)

// contentKind classifies the result of fetching one file's text.
type contentKind int

const (
	contentText contentKind = iota
	contentEmpty
	contentUnsupported
	contentFailed
)

func (k contentKind) outcome() string {
	switch k {
	case contentText:
		return instrumentation.OutcomeText
	case contentEmpty:
		return instrumentation.OutcomeEmpty
	case contentUnsupported:
		return instrumentation.OutcomeUnsupported
	default:
		return instrumentation.OutcomeFailed
	}
}

type content struct {
	kind contentKind
	text string
	err  error
}

func textContent(text string) content {
	if text == "" {
		return content{kind: contentEmpty}
	}
	return content{kind: contentText, text: text}
}

// fetchContent downloads or exports a file according to its MIME type and
// returns its text. It never returns an error: failures are reported as
// contentFailed.
func (r *Retriever) fetchContent(ctx context.Context, f *drive.FileInfo) content {
	switch f.MimeType {
	case drive.PDFMimeType:
		data, err := r.storage.DownloadFile(ctx, f.ID)
		if err != nil {
			return r.failed(f, "failed to download file", err)
		}
		return r.extractPDF(f, data)

	case drive.PlainTextMimeType:
		data, err := r.storage.ReadFile(ctx, f.ID)
		if err != nil {
			return r.failed(f, "failed to download file", err)
		}
		return textContent(decodeText(data))

	case drive.GoogleDocMimeType:
		data, err := r.storage.ExportFile(ctx, f.ID, drive.PlainTextMimeType)
		if err != nil {
			return r.failed(f, "failed to export file", err)
		}
		return textContent(decodeText(data))

	default:
		return content{kind: contentUnsupported}
	}
}

// extractPDF returns the text of a downloaded PDF. Extraction errors yield
// an empty document rather than failing the invocation.
func (r *Retriever) extractPDF(f *drive.FileInfo, data []byte) content {
	text, err := r.extract(data)
	if err != nil {
		return r.failed(f, "failed to extract PDF text", err)
	}
	return textContent(text)
}

func (r *Retriever) failed(f *drive.FileInfo, msg string, err error) content {
	r.logger.Warn(msg,
		logging.FileID(f.ID),
		logging.FileName(f.Name),
		logging.MimeType(f.MimeType),
		logging.Err(err))
	return content{kind: contentFailed, err: err}
}
