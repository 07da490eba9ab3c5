package retriever_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/retriever"
	"github.com/teemow/driveretriever/internal/server"
	"github.com/teemow/driveretriever/internal/tools/common"
)

// Tool names.
const (
	RetrieveDocumentsToolName = "drive_retrieve_documents"
	ListFolderToolName        = "drive_list_folder"
)

const queryDescription = "Optional full-text search term. Only files whose content or name matches are returned."

// RegisterRetrieverTools registers the retriever tools with the MCP server.
func RegisterRetrieverTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("MCP server and server context are required")
	}

	retrieveTool := mcp.NewTool(RetrieveDocumentsToolName,
		mcp.WithDescription("Retrieve the text of the files in the configured Google Drive folder. "+
			"PDFs, plain-text files and Google Docs are returned as documents with title, source, mime_type and file_id metadata. "+
			"Other file types are skipped."),
		mcp.WithString("query", mcp.Description(queryDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(retrieveTool, common.InstrumentedToolHandler(RetrieveDocumentsToolName, sc, handleRetrieveDocuments(sc)))

	listTool := mcp.NewTool(ListFolderToolName,
		mcp.WithDescription("List the files in the configured Google Drive folder without downloading them."),
		mcp.WithString("query", mcp.Description(queryDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler(ListFolderToolName, sc, handleListFolder(sc)))

	return nil
}

func handleRetrieveDocuments(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := common.QueryArg(request)

		var docs []retriever.Document
		err := sc.WithRetriever(func(r *retriever.Retriever) error {
			var err error
			docs, err = r.Invoke(ctx, query)
			return err
		})
		if err != nil {
			return common.ErrorResult("failed to retrieve documents", err), nil
		}

		return common.JSONResult(docs)
	}
}

func handleListFolder(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := common.QueryArg(request)

		var files []*drive.FileInfo
		err := sc.WithRetriever(func(r *retriever.Retriever) error {
			var err error
			files, err = r.ListFiles(ctx, query)
			return err
		})
		if err != nil {
			return common.ErrorResult("failed to list folder", err), nil
		}
		if files == nil {
			files = []*drive.FileInfo{}
		}

		return common.JSONResult(files)
	}
}
