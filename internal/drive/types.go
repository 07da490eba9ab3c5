package drive

import "errors"

const (
	// RootFolderID refers to the top level of the authenticated user's Drive.
	RootFolderID = "root"

	// MaxPageSize is the largest page size the Drive API accepts for files.list.
	MaxPageSize = 1000

	// DefaultChunkSize is the size of each ranged request issued by a Downloader.
	DefaultChunkSize int64 = 10 * 1024 * 1024
)

// MIME types with dedicated handling.
const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// GoogleDocMimeType is the MIME type of native Google Docs documents
	GoogleDocMimeType = "application/vnd.google-apps.document"

	PDFMimeType       = "application/pdf"
	PlainTextMimeType = "text/plain"
)

// ErrMalformedFile is returned when the Drive API returns a file record
// without an id, name or MIME type.
var ErrMalformedFile = errors.New("drive: malformed file record")

// FileInfo describes a file listed in a Drive folder.
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// WebViewLink is a link for opening the file in a relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// Size is the size of the file in bytes (not populated for native Google files)
	Size int64 `json:"size,omitempty"`
}

// ListOptions contains options for listing a folder
type ListOptions struct {
	// FolderID is the folder to list. Use RootFolderID for the top level.
	FolderID string

	// FullText is an optional term matched against file names and content.
	FullText string

	// MaxResults is the page size; only the first page is returned (1..MaxPageSize)
	MaxResults int
}

// Progress reports how far a chunked download has advanced.
type Progress struct {
	// Received is the number of bytes downloaded so far
	Received int64

	// Total is the size of the file, or -1 while it is unknown
	Total int64
}

// Fraction returns the completed share of the download in [0, 1], or 0 when
// the total size is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Received) / float64(p.Total)
}
