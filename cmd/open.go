package cmd

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/prlink/internal/logger"
	"github.com/pders01/prlink/internal/prurl"
	"github.com/spf13/cobra"
)

// openBrowser is replaced in tests
var openBrowser = func(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return cmd.Process.Release()
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the new pull request page in the browser",
	Long: `Build the compare URL like "prlink url" and open it in the default browser.

Takes the same field flags as "prlink url". Nothing is opened while a
required field is missing.

Example:
  prlink open --title "Add feature" --body-file PR.md`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	addFormFlags(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	form, err := buildForm(cmd)
	if err != nil {
		return err
	}

	u, ok := prurl.Derive(form)
	if !ok {
		return fmt.Errorf("cannot open an incomplete pull request, missing %s", strings.Join(form.Missing(), ", "))
	}

	logger.Debug(ctx, "Opening browser", slog.String("url", u))
	if err := openBrowser(u); err != nil {
		return err
	}

	printerFor(cmd, effectiveScheme(ctx)).Success(fmt.Sprintf("Opened %s", u))
	return nil
}
