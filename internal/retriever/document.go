package retriever

import (
	"strings"

	"github.com/teemow/driveretriever/internal/drive"
)

// Metadata keys set on every Document.
const (
	MetadataTitle    = "title"
	MetadataSource   = "source"
	MetadataMimeType = "mime_type"
	MetadataFileID   = "file_id"
)

// Document is the text of one Drive file with its metadata.
type Document struct {
	PageContent string            `json:"page_content"`
	Metadata    map[string]string `json:"metadata"`
}

// Title returns the file name the document was built from.
func (d Document) Title() string {
	return d.Metadata[MetadataTitle]
}

// FileID returns the Drive id of the source file.
func (d Document) FileID() string {
	return d.Metadata[MetadataFileID]
}

func newDocument(f *drive.FileInfo, text string) Document {
	return Document{
		PageContent: text,
		Metadata: map[string]string{
			MetadataTitle:    f.Name,
			MetadataSource:   f.WebViewLink,
			MetadataMimeType: f.MimeType,
			MetadataFileID:   f.ID,
		},
	}
}

// decodeText converts downloaded bytes to a valid UTF-8 string. Invalid
// sequences become U+FFFD and a leading byte order mark is dropped, so an
// exported Google Doc and a text file with the same content compare equal.
func decodeText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "\uFFFD")
	return strings.TrimPrefix(s, "\uFEFF")
}
