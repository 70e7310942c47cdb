package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pders01/prlink/internal/clipboard"
	"github.com/pders01/prlink/internal/config"
	"github.com/pders01/prlink/internal/git"
	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/prurl"
	"github.com/spf13/cobra"
)

var (
	urlOrg      string
	urlRepo     string
	urlBase     string
	urlHead     string
	urlTitle    string
	urlMode     string
	urlTemplate string
	urlBody     string
	urlBodyFile string
	urlCopy     bool
	urlNoInfer  bool
	urlJSON     bool
	urlToon     bool
)

// clipboardWriter is replaced in tests
var clipboardWriter clipboard.Writer = clipboard.System{}

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the pull request URL for the given fields",
	Long: `Build a GitHub compare URL from flags.

Inside a git repository with a GitHub remote, --org, --repo and --head
default to the remote's owner, repository and the current branch, and
--base defaults to the remote's default branch.

Examples:
  prlink url --org colinhacks --repo zod --base main --head dev --title "Add feature"
  prlink url --mode template --template custom_template.md
  prlink url --body-file PR.md --copy`,
	Args: cobra.NoArgs,
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)

	addFormFlags(urlCmd)
	urlCmd.Flags().BoolVar(&urlCopy, "copy", false, "Copy the URL to the clipboard")
	urlCmd.Flags().BoolVar(&urlJSON, "json", false, "Output as JSON")
	urlCmd.Flags().BoolVar(&urlToon, "toon", false, "Output as Toon")
}

// addFormFlags binds the form field flags shared by url and open
func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&urlOrg, "org", "", "Organization or username on GitHub")
	cmd.Flags().StringVar(&urlRepo, "repo", "", "Repository name on GitHub")
	cmd.Flags().StringVar(&urlBase, "base", "", "The branch you want to merge into")
	cmd.Flags().StringVar(&urlHead, "head", "", "The branch you want to merge from")
	cmd.Flags().StringVar(&urlTitle, "title", "", "Title of the pull request")
	cmd.Flags().StringVar(&urlMode, "mode", "", "Content mode: template|body (default from config)")
	cmd.Flags().StringVar(&urlTemplate, "template", "", "Markdown template file (template mode)")
	cmd.Flags().StringVar(&urlBody, "body", "", "Raw markdown body (body mode)")
	cmd.Flags().StringVar(&urlBodyFile, "body-file", "", "Read the body from a file, - for stdin")
	cmd.Flags().BoolVar(&urlNoInfer, "no-infer", false, "Do not fill missing fields from the git repository")
}

// urlResult is the machine-readable output of `prlink url`
type urlResult struct {
	URL      string           `json:"url,omitempty"`
	Complete bool             `json:"complete"`
	Missing  []string         `json:"missing,omitempty"`
	Form     models.FormState `json:"form"`
}

func runURL(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if urlJSON && urlToon {
		return fmt.Errorf("--json and --toon are mutually exclusive")
	}

	form, err := buildForm(cmd)
	if err != nil {
		return err
	}

	u, ok := prurl.Derive(form)
	result := urlResult{URL: u, Complete: ok, Missing: form.Missing(), Form: form}

	printer := printerFor(cmd, effectiveScheme(ctx))

	switch {
	case urlJSON:
		if err := printJSON(outOf(cmd), result); err != nil {
			return err
		}
	case urlToon:
		if err := printToon(outOf(cmd), result); err != nil {
			return err
		}
	case ok:
		printer.Result(u)
	default:
		printer.Warning(fmt.Sprintf("Incomplete: missing %s", strings.Join(result.Missing, ", ")))
	}

	if urlCopy {
		clipboard.Copy(ctx, clipboardWriter, printer, u, ok)
	}

	return nil
}

// buildForm assembles the form from flags, falling back to the git
// repository and then to config for anything left empty
func buildForm(cmd *cobra.Command) (models.FormState, error) {
	form := models.NewFormState()

	mode, err := config.GetDefaultMode()
	if err != nil {
		return form, fmt.Errorf("invalid defaults.mode in config: %w", err)
	}
	if urlMode != "" {
		if mode, err = models.ParseMode(urlMode); err != nil {
			return form, err
		}
	}

	body := urlBody
	if urlBodyFile != "" {
		if urlBody != "" {
			return form, fmt.Errorf("--body and --body-file are mutually exclusive")
		}
		if body, err = readBodyFile(cmd, urlBodyFile); err != nil {
			return form, err
		}
	}

	form.Org = urlOrg
	form.Repo = urlRepo
	form.BaseBranch = urlBase
	form.HeadBranch = urlHead
	form.Title = urlTitle
	form.Mode = mode
	form.Template = urlTemplate
	form.Body = body

	var info git.RepoInfo
	if !urlNoInfer {
		info = git.Inspect(config.GetRemote())
	}
	form = inferForm(form, info, config.GetDefaultBaseBranch())

	return form, nil
}

// inferForm fills empty endpoint fields from repository information, then
// from defaultBase. The current branch is never proposed as both ends.
func inferForm(form models.FormState, info git.RepoInfo, defaultBase string) models.FormState {
	if form.Org == "" {
		form.Org = info.Owner
	}
	if form.Repo == "" {
		form.Repo = info.Repo
	}
	if form.BaseBranch == "" {
		form.BaseBranch = info.DefaultBranch
	}
	if form.BaseBranch == "" {
		form.BaseBranch = defaultBase
	}
	if form.HeadBranch == "" && info.CurrentBranch != form.BaseBranch {
		form.HeadBranch = info.CurrentBranch
	}
	return form
}

func readBodyFile(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		in := io.Reader(os.Stdin)
		if cmd != nil {
			in = cmd.InOrStdin()
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(data), nil
}
