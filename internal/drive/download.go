package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
)

// Downloader fetches a file's content with successive ranged requests.
// It is not safe for concurrent use.
type Downloader struct {
	client    *Client
	fileID    string
	chunkSize int64

	buf      bytes.Buffer
	received int64
	total    int64
	done     bool
}

// NewDownloader returns a Downloader for fileID using the client's chunk size.
func (c *Client) NewDownloader(fileID string) *Downloader {
	return &Downloader{
		client:    c,
		fileID:    fileID,
		chunkSize: c.chunkSize,
		total:     -1,
	}
}

// NextChunk requests the next chunk of the file. done is true once the whole
// file has been received; further calls are no-ops.
func (d *Downloader) NextChunk(ctx context.Context) (Progress, bool, error) {
	if d.done {
		return d.progress(), true, nil
	}

	resp, err := d.fetch(ctx, d.received, d.received+d.chunkSize-1)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusRequestedRangeNotSatisfiable && d.received == 0 {
			// An empty file cannot satisfy any range.
			d.total = 0
			d.done = true
			return d.progress(), true, nil
		}
		return d.progress(), false, fmt.Errorf("failed to download file %s at offset %d: %w", d.fileID, d.received, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(&d.buf, resp.Body)
	d.received += n
	if err != nil {
		return d.progress(), false, fmt.Errorf("failed to read chunk of file %s at offset %d: %w", d.fileID, d.received-n, err)
	}

	if resp.StatusCode != http.StatusPartialContent {
		// The range was ignored and the body holds the whole file.
		d.total = d.received
		d.done = true
		return d.progress(), true, nil
	}

	if total, ok := parseContentRangeTotal(resp.Header.Get("Content-Range")); ok {
		d.total = total
	}

	switch {
	case d.total >= 0:
		d.done = d.received >= d.total
	default:
		d.done = n < d.chunkSize
	}

	if !d.done && n == 0 {
		return d.progress(), false, fmt.Errorf("failed to download file %s: empty chunk at offset %d: %w", d.fileID, d.received, io.ErrUnexpectedEOF)
	}

	return d.progress(), d.done, nil
}

// Bytes returns the content received so far.
func (d *Downloader) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Downloader) progress() Progress {
	return Progress{Received: d.received, Total: d.total}
}

func (d *Downloader) fetch(ctx context.Context, start, end int64) (*http.Response, error) {
	call := d.client.service.Files.Get(d.fileID).Context(ctx)
	call.Header().Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	return call.Download()
}

// parseContentRangeTotal extracts the complete length from a Content-Range
// header such as "bytes 0-99/1234".
func parseContentRangeTotal(header string) (int64, bool) {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return 0, false
	}
	total, err := strconv.ParseInt(strings.TrimSpace(header[i+1:]), 10, 64)
	if err != nil || total < 0 {
		return 0, false
	}
	return total, true
}
