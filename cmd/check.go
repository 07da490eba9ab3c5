package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/driveretriever/internal/config"
	"github.com/teemow/driveretriever/internal/drive"
	"github.com/teemow/driveretriever/internal/google"
)

var errCheckFailed = errors.New("credential check failed")

func newCheckCmd() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the stored Google credential",
		Long: `Check inspects the stored OAuth credential: whether it exists, which
scopes it was granted, whether the access token is still valid and whether it
can be refreshed. With --live it also lists the configured folder to confirm
that the Drive API accepts the credential.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, live, time.Now())
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Also list the configured folder using the Drive API")

	return cmd
}

func runCheck(ctx context.Context, w io.Writer, cfg *config.Config, live bool, now time.Time) error {
	fmt.Fprintf(w, "Credential file: %s\n", cfg.TokenPath)

	if _, err := os.Stat(cfg.TokenPath); err != nil {
		fmt.Fprintf(w, "  exists: no\n")
		return reportCheckError(w, fmt.Errorf("%w: %s", google.ErrCredentialNotFound, cfg.TokenPath))
	}
	fmt.Fprintf(w, "  exists: yes\n")

	cred, err := google.LoadCredential(cfg.TokenPath)
	if err != nil {
		return reportCheckError(w, err)
	}

	scopes := "(not recorded)"
	if len(cred.Scopes) > 0 {
		scopes = strings.Join(cred.Scopes, ", ")
	}
	fmt.Fprintf(w, "  scopes: %s\n", scopes)

	expiry := "(none)"
	if !cred.Expiry.IsZero() {
		expiry = cred.Expiry.Format(time.RFC3339)
	}
	fmt.Fprintf(w, "  expiry: %s\n", expiry)
	fmt.Fprintf(w, "  access token valid: %s\n", yesNo(!cred.Expired(now)))
	fmt.Fprintf(w, "  refreshable: %s\n", yesNo(cred.CanRefresh()))
	fmt.Fprintf(w, "  drive read access: %s\n", yesNo(cred.HasDriveReadAccess()))

	if len(cred.Scopes) > 0 && !cred.HasDriveReadAccess() {
		fmt.Fprintf(w, "  missing scopes: %s\n", strings.Join(cred.MissingScopes(google.RequiredScopes), ", "))
		return reportCheckError(w, fmt.Errorf("credential does not grant read access to file content"))
	}

	if !live {
		fmt.Fprintln(w, "\nCredential OK")
		return nil
	}

	client, _, err := drive.NewClientFromCredential(ctx, cfg.TokenPath, drive.WithChunkSize(cfg.ChunkSize))
	if err != nil {
		return reportCheckError(w, err)
	}
	files, err := client.ListFolder(ctx, drive.ListOptions{FolderID: cfg.FolderID, MaxResults: 1})
	if err != nil {
		return reportCheckError(w, err)
	}

	fmt.Fprintf(w, "\nListed folder %s: %d file(s) visible\n", cfg.FolderID, len(files))
	fmt.Fprintln(w, "Credential OK")
	return nil
}

func reportCheckError(w io.Writer, err error) error {
	fmt.Fprintf(w, "\nError: %v\n", err)
	if hint := google.Hint(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
	return errCheckFailed
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
