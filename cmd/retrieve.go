package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/driveretriever/internal/logging"
	"github.com/teemow/driveretriever/internal/retriever"
)

const defaultPreviewLength = 200

func newRetrieveCmd() *cobra.Command {
	var (
		jsonOutput    bool
		previewLength int
	)

	cmd := &cobra.Command{
		Use:   "retrieve [query]",
		Short: "Retrieve the documents of the configured Drive folder",
		Long: `Retrieve lists the configured Drive folder and prints one document per
supported file (PDF, plain text, Google Docs). An optional query restricts the
listing to files whose content matches the term.

This is the default command when no subcommand is specified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := setupLogging(cfg)

			r, err := retriever.NewFromConfig(cmd.Context(), cfg, logging.NewSlogAdapter(logger), nil)
			if err != nil {
				return withHint(err)
			}

			docs, err := r.Invoke(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return withHint(err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), docs)
			}
			printDocuments(cmd.OutOrStdout(), docs, previewLength)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the documents as JSON")
	cmd.Flags().IntVar(&previewLength, "preview", defaultPreviewLength, "Number of characters of content to preview per document")

	return cmd
}

func printDocuments(w io.Writer, docs []retriever.Document, previewLength int) {
	fmt.Fprintf(w, "Retrieved %d documents\n", len(docs))

	for i, doc := range docs {
		fmt.Fprintf(w, "\n[%d] %s\n", i+1, doc.Title())
		if source := doc.Metadata[retriever.MetadataSource]; source != "" {
			fmt.Fprintf(w, "    Source: %s\n", source)
		}
		fmt.Fprintf(w, "    Type:   %s\n", doc.Metadata[retriever.MetadataMimeType])
		fmt.Fprintf(w, "    Length: %d characters\n", len([]rune(doc.PageContent)))
		if preview := previewText(doc.PageContent, previewLength); preview != "" {
			fmt.Fprintf(w, "    Preview: %s\n", preview)
		}
	}
}

// previewText returns the first n runes of s on a single line.
func previewText(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
