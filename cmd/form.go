package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/pders01/prlink/internal/clipboard"
	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/prurl"
	"github.com/pders01/prlink/internal/ui"
	"github.com/spf13/cobra"
)

var formNoInfer bool

// isInteractive is replaced in tests
var isInteractive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in the pull request fields interactively",
	Long: `Open an interactive form for the pull request fields.

Fields are pre-filled from the current git repository. The template
input is shown in template mode and the body editor in body mode.
When the URL is complete you are offered to copy it.`,
	Args: cobra.NoArgs,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)

	formCmd.Flags().BoolVar(&formNoInfer, "no-infer", false, "Do not pre-fill fields from the git repository")
}

func runForm(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return fmt.Errorf("prlink form needs an interactive terminal, use prlink url instead")
	}

	ctx := commandContext(cmd)

	state, err := prefilledForm(formNoInfer)
	if err != nil {
		return err
	}

	s := effectiveScheme(ctx)
	var copyURL bool

	form := newPullRequestForm(&state, &copyURL).WithTheme(ui.FormTheme(s))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form failed: %w", err)
	}

	printer := printerFor(cmd, s)
	u, ok := prurl.Derive(state)
	if !ok {
		printer.Warning(fmt.Sprintf("Incomplete: missing %s", strings.Join(state.Missing(), ", ")))
		return nil
	}

	printer.Box(prurl.BookmarkTitle(state), u)
	if copyURL {
		clipboard.Copy(ctx, clipboardWriter, printer, u, ok)
	}
	return nil
}

// newPullRequestForm binds every field of state. The template and body
// groups are shown only in their mode, and the copy prompt only once the
// required fields are filled.
func newPullRequestForm(state *models.FormState, copyURL *bool) *huh.Form {
	modeOptions := make([]huh.Option[models.Mode], 0, len(models.Modes()))
	for _, m := range models.Modes() {
		modeOptions = append(modeOptions, huh.NewOption(string(m), m))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Organization / Username").
				Description("Organization or username on GitHub.").
				Placeholder("colinhacks").
				Value(&state.Org),
			huh.NewInput().
				Title("Repository").
				Description("Repository name on GitHub.").
				Placeholder("zod").
				Value(&state.Repo),
			huh.NewInput().
				Title("Base Branch").
				Description("The branch you want to merge into").
				Placeholder("main").
				Value(&state.BaseBranch),
			huh.NewInput().
				Title("Head Branch").
				Description("The branch you want to merge from").
				Placeholder("dev").
				Value(&state.HeadBranch),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("PR title").
				Description("Title of the pull request.").
				Placeholder("Add a new feature").
				Value(&state.Title),
			huh.NewSelect[models.Mode]().
				Title("Mode").
				Options(modeOptions...).
				Value(&state.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Template file").
				Description("Markdown template file. Stored in PULL_REQUEST_TEMPLATE directory within the root, docs/ or .github/").
				Placeholder("custom_template.md").
				Value(&state.Template),
		).WithHideFunc(func() bool { return state.Mode != models.ModeTemplate }),
		huh.NewGroup(
			huh.NewText().
				Title("PR body").
				Description("Raw body of the pull request. Markdown is supported.").
				Placeholder("# Some cool PR\n\nThis is a **very** cool PR.").
				Lines(10).
				Value(&state.Body),
		).WithHideFunc(func() bool { return state.Mode != models.ModeBody }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Copy the URL to the clipboard?").
				Affirmative("Copy").
				Negative("No").
				Value(copyURL),
		).WithHideFunc(func() bool { return !state.Complete() }),
	)
}
