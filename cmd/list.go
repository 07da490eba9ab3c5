package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/logging"
	"github.com/teemow/driveretriever/internal/retriever"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List the files of the configured Drive folder",
		Long: `List prints the files a retrieval with the same query would process,
without downloading their content.`,
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

			files, err := r.ListFiles(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return withHint(err)
			}

			if jsonOutput {
				if files == nil {
					files = []*drive.FileInfo{}
				}
				return writeJSON(cmd.OutOrStdout(), files)
			}
			printFiles(cmd.OutOrStdout(), r.FolderID(), files)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the files as JSON")

	return cmd
}

func printFiles(w io.Writer, folderID string, files []*drive.FileInfo) {
	if len(files) == 0 {
		fmt.Fprintf(w, "No files found in folder %s\n", folderID)
		return
	}

	fmt.Fprintf(w, "Found %d files in folder %s\n\n", len(files), folderID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.MimeType, formatSize(f.Size))
	}
	_ = tw.Flush()
}

// formatSize renders a byte count in megabytes. Native Google files carry
// no size.
func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
