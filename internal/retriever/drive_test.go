package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/teemow/driveretriever/internal/drive"
)

func TestInvoke_DriveClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "'folder-1' in parents and trashed=false", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{"files": []map[string]any{
			{"id": "txt", "name": "notes.txt", "mimeType": drive.PlainTextMimeType, "webViewLink": "https://drive.google.com/file/d/txt/view"},
			{"id": "img", "name": "photo.png", "mimeType": "image/png"},
			{"id": "doc", "name": "Plan", "mimeType": drive.GoogleDocMimeType},
		}})
	})
	mux.HandleFunc("/files/txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("/files/doc/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, drive.PlainTextMimeType, r.URL.Query().Get("mimeType"))
		_, _ = w.Write([]byte("\uFEFFhello"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := drive.NewClient(context.Background(), srv.Client(),
		drive.WithClientOptions(option.WithEndpoint(srv.URL+"/")))
	require.NoError(t, err)

	r, err := New(client, Options{FolderID: "folder-1", NumResults: 5})
	require.NoError(t, err)

	docs, err := r.Invoke(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"txt", "doc"}, ids(docs))
	assert.Equal(t, "hello", docs[0].PageContent)
	assert.Equal(t, docs[0].PageContent, docs[1].PageContent)
	assert.Equal(t, "https://drive.google.com/file/d/txt/view", docs[0].Metadata[MetadataSource])
	assert.Equal(t, "", docs[1].Metadata[MetadataSource])
}

func TestInvoke_DriveClientChunkFailure(t *testing.T) {
	var pdfRequests atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"files": []map[string]any{
			{"id": "pdf", "name": "report.pdf", "mimeType": drive.PDFMimeType},
			{"id": "txt", "name": "notes.txt", "mimeType": drive.PlainTextMimeType},
		}})
	})
	mux.HandleFunc("/files/pdf", func(w http.ResponseWriter, r *http.Request) {
		if pdfRequests.Add(1) == 1 {
			assert.Equal(t, "bytes=0-3", r.Header.Get("Range"))
			w.Header().Set("Content-Range", "bytes 0-3/10")
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte("%PDF"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"Backend Error"}}`))
	})
	mux.HandleFunc("/files/txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := drive.NewClient(context.Background(), srv.Client(),
		drive.WithChunkSize(4),
		drive.WithClientOptions(option.WithEndpoint(srv.URL+"/")))
	require.NoError(t, err)

	r, err := New(client, Options{FolderID: "folder-1", NumResults: 5})
	require.NoError(t, err)

	docs, err := r.Invoke(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"pdf", "txt"}, ids(docs))
	assert.Equal(t, "", docs[0].PageContent)
	assert.Equal(t, "report.pdf", docs[0].Title())
	assert.Equal(t, "hi", docs[1].PageContent)
	assert.GreaterOrEqual(t, pdfRequests.Load(), int32(2))
}
