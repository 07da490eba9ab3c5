// Package drive provides a read-only client for the Google Drive API.
//
// The client lists the files of a single folder, optionally filtered by a
// full-text term, and fetches file content in one of three ways:
//   - DownloadFile: chunked download with ranged requests (binary files such as PDFs)
//   - ReadFile: single get-media request (small text files)
//   - ExportFile: export of native Google Workspace files to another MIME type
//
// Every API call is traced and, when metrics are configured, recorded in the
// drive_api_operations_total and drive_api_operation_duration_seconds metrics.
//
// Example usage:
//
//	client, cred, err := drive.NewClientFromCredential(ctx, "token.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	files, err := client.ListFolder(ctx, drive.ListOptions{
//	    FolderID:   drive.RootFolderID,
//	    FullText:   "quarterly report",
//	    MaxResults: 10,
//	})
package drive
