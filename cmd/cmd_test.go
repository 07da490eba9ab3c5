package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveretriever/internal/config"
	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/retriever"
)

func TestPreviewText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "hello", n: 10, want: "hello"},
		{name: "truncated", in: "hello world", n: 5, want: "hello..."},
		{name: "whitespace collapsed", in: "a\n\nb\tc", n: 10, want: "a b c"},
		{name: "multibyte", in: "ääää", n: 2, want: "ää..."},
		{name: "disabled", in: "hello", n: 0, want: ""},
		{name: "empty", in: "", n: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, previewText(tt.in, tt.n))
		})
	}
}

func TestPrintDocuments(t *testing.T) {
	docs := []retriever.Document{
		{
			PageContent: "first document text",
			Metadata: map[string]string{
				retriever.MetadataTitle:    "report.pdf",
				retriever.MetadataSource:   "https://drive.google.com/file/d/1",
				retriever.MetadataMimeType: drive.PDFMimeType,
				retriever.MetadataFileID:   "1",
			},
		},
		{
			PageContent: "",
			Metadata: map[string]string{
				retriever.MetadataTitle:    "broken.txt",
				retriever.MetadataSource:   "",
				retriever.MetadataMimeType: drive.PlainTextMimeType,
				retriever.MetadataFileID:   "2",
			},
		},
	}

	var buf bytes.Buffer
	printDocuments(&buf, docs, 5)
	out := buf.String()

	assert.Contains(t, out, "Retrieved 2 documents")
	assert.Contains(t, out, "[1] report.pdf")
	assert.Contains(t, out, "Source: https://drive.google.com/file/d/1")
	assert.Contains(t, out, "Length: 19 characters")
	assert.Contains(t, out, "Preview: first...")
	assert.Contains(t, out, "[2] broken.txt")
	assert.Equal(t, 1, strings.Count(out, "Source:"))
	assert.Equal(t, 1, strings.Count(out, "Preview:"))
}

func TestPrintFiles(t *testing.T) {
	var buf bytes.Buffer
	printFiles(&buf, "folder-1", []*drive.FileInfo{
		{ID: "a", Name: "a.pdf", MimeType: drive.PDFMimeType, Size: 3 * 1024 * 1024},
		{ID: "b", Name: "Doc", MimeType: drive.GoogleDocMimeType},
	})
	out := buf.String()

	assert.Contains(t, out, "Found 2 files in folder folder-1")
	assert.Contains(t, out, "3.00 MB")
	assert.Contains(t, out, drive.GoogleDocMimeType)

	buf.Reset()
	printFiles(&buf, "folder-1", nil)
	assert.Equal(t, "No files found in folder folder-1\n", buf.String())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "-", formatSize(0))
	assert.Equal(t, "0.50 MB", formatSize(512*1024))
}

func writeCredential(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunCheck(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		credential string
		missing    bool
		wantErr    bool
		wantOutput []string
	}{
		{
			name: "valid refreshable credential",
			credential: `{"token":"abc","refresh_token":"r","client_id":"c","client_secret":"s",
				"scopes":["https://www.googleapis.com/auth/drive.readonly"],"expiry":"2099-01-01T00:00:00Z"}`,
			wantOutput: []string{"exists: yes", "drive.readonly", "access token valid: yes", "refreshable: yes", "drive read access: yes", "Credential OK"},
		},
		{
			name:       "metadata only scope",
			credential: `{"token":"abc","scopes":["https://www.googleapis.com/auth/drive.metadata.readonly"]}`,
			wantErr:    true,
			wantOutput: []string{"drive read access: no", "missing scopes: https://www.googleapis.com/auth/drive.readonly"},
		},
		{
			name:       "malformed",
			credential: `not json`,
			wantErr:    true,
			wantOutput: []string{"exists: yes", "Error:", "Hint:"},
		},
		{
			name:       "missing file",
			missing:    true,
			wantErr:    true,
			wantOutput: []string{"exists: no", "Hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.missing {
				cfg.TokenPath = filepath.Join(t.TempDir(), "absent.json")
			} else {
				cfg.TokenPath = writeCredential(t, tt.credential)
			}

			var buf bytes.Buffer
			err := runCheck(context.Background(), &buf, cfg, false, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, errCheckFailed)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	saved := flags
	t.Cleanup(func() { flags = saved })

	c := &cobra.Command{}
	c.Flags().StringVar(&flags.tokenPath, "token", "", "")
	c.Flags().StringVar(&flags.folderID, "folder", "", "")
	c.Flags().IntVar(&flags.numResults, "num-results", 0, "")
	c.Flags().Int64Var(&flags.chunkSize, "chunk-size", 0, "")
	c.Flags().BoolVar(&flags.debug, "debug", false, "")
	c.Flags().BoolVar(&flags.logJSON, "log-json", false, "")

	require.NoError(t, c.Flags().Set("folder", "folder-x"))
	require.NoError(t, c.Flags().Set("num-results", "3"))

	cfg := config.Default()
	cfg.TokenPath = "from-env.json"
	applyFlags(c, cfg)

	assert.Equal(t, "from-env.json", cfg.TokenPath)
	assert.Equal(t, "folder-x", cfg.FolderID)
	assert.Equal(t, 3, cfg.NumResults)
	assert.Equal(t, int64(0), cfg.ChunkSize)
	assert.True(t, flagsChanged(c))
}

func TestToolsDocumentation(t *testing.T) {
	markdown, err := toolsDocumentation(context.Background())
	require.NoError(t, err)

	assert.Contains(t, markdown, "# MCP Tools Reference")
	assert.Contains(t, markdown, "### drive_list_folder")
	assert.Contains(t, markdown, "### drive_retrieve_documents")
	assert.Contains(t, markdown, "- `query` (string, optional)")
	assert.Less(t, strings.Index(markdown, "drive_list_folder"), strings.Index(markdown, "drive_retrieve_documents"))
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	c := newVersionCmd()
	c.SetOut(&buf)
	c.Run(c, nil)

	assert.Equal(t, "driveretriever version "+version+"\n", buf.String())
}
