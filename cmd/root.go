package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/driveretriever/internal/config"
	"github.com/teemow/driveretriever/internal/google"
	"github.com/teemow/driveretriever/internal/logging"
)

// rootCmd represents the base command for the driveretriever application
var rootCmd = &cobra.Command{
	Use:   "driveretriever",
	Short: "Retrieves documents from a Google Drive folder",
	Long: `driveretriever lists the files of a Google Drive folder, downloads PDFs and
plain-text files, exports Google Docs as text and returns their content as
documents for retrieval-augmented generation.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants

Configuration is read from the environment and an optional .env file:
  GOOGLE_TOKEN_FILE   stored OAuth credential (default: token.json)
  DRIVE_FOLDER_ID     folder to search (default: root)
  DRIVE_NUM_RESULTS   maximum files per retrieval (default: 10)
  DRIVE_CHUNK_SIZE    download chunk size in bytes`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// globalFlags override values loaded from the environment.
type globalFlags struct {
	envFile    string
	tokenPath  string
	folderID   string
	numResults int
	chunkSize  int64
	debug      bool
	logJSON    bool
}

var flags globalFlags

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "driveretriever version %s\n" .Version}}`)

	// If no subcommand is provided, run the retrieve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "retrieve")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Environment file to load before reading configuration (ignored if missing)")
	pf.StringVar(&flags.tokenPath, "token", "", "Path to the stored OAuth credential. Overrides "+config.EnvTokenFile+".")
	pf.StringVar(&flags.folderID, "folder", "", "Drive folder ID to search. Overrides "+config.EnvFolderID+".")
	pf.IntVar(&flags.numResults, "num-results", 0, "Maximum number of files per retrieval. Overrides "+config.EnvNumResults+".")
	pf.Int64Var(&flags.chunkSize, "chunk-size", 0, "Download chunk size in bytes. Overrides "+config.EnvChunkSize+".")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(newRetrieveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.FromEnv()
	if err != nil && !flagsChanged(cmd) {
		return nil, err
	}
	if cfg == nil {
		// Invalid environment values may still be fixed by flags.
		cfg = config.Default()
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"token", "folder", "num-results", "chunk-size"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("token") {
		cfg.TokenPath = flags.tokenPath
	}
	if f.Changed("folder") {
		cfg.FolderID = flags.folderID
	}
	if f.Changed("num-results") {
		cfg.NumResults = flags.numResults
	}
	if f.Changed("chunk-size") {
		cfg.ChunkSize = flags.chunkSize
	}
	if f.Changed("debug") {
		cfg.Debug = flags.debug
	}
	if f.Changed("log-json") {
		cfg.LogJSON = flags.logJSON
	}
}

// setupLogging installs the process logger. Logs go to stderr so stdout
// stays clean for command output and the MCP stdio stream.
func setupLogging(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.Debug, cfg.LogJSON)
	slog.SetDefault(logger)
	return logger
}

// withHint appends a remediation hint to credential and Drive access errors.
func withHint(err error) error {
	if hint := google.Hint(err); hint != "" {
		return fmt.Errorf("%w\n\nHint: %s", err, hint)
	}
	return err
}
