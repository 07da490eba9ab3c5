// Package retriever turns the files of a Google Drive folder into text
// documents for a retrieval pipeline.
//
// Each invocation lists one page of the configured folder, optionally
// filtered by a full-text query, and fetches every file by MIME type:
//
//	application/pdf                       chunked download, then PDF text extraction
//	text/plain                            single download
//	application/vnd.google-apps.document  export as text/plain
//
// Other types are skipped. A file that cannot be downloaded or parsed still
// yields a Document, with empty PageContent, so callers see every supported
// file the listing returned. Only a listing failure fails the invocation.
package retriever
