// Package retriever_tools exposes the Drive document retriever as MCP tools.
//
// Available tools:
//   - drive_retrieve_documents: list the configured folder and return the text of every supported file
//   - drive_list_folder: list the configured folder without downloading content
//
// Both tools accept an optional full-text "query". The folder and the result
// limit are fixed when the server starts.
package retriever_tools
