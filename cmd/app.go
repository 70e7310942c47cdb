package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/prlink/internal/config"
	"github.com/pders01/prlink/internal/git"
	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/prefs"
	"github.com/pders01/prlink/internal/scheme"
	"github.com/pders01/prlink/internal/storage"
	"github.com/pders01/prlink/internal/ui"
	"github.com/spf13/cobra"
)

// detectAmbient is replaced in tests so they never query the terminal
var detectAmbient scheme.Ambient = scheme.TerminalAmbient{}

// openStore opens the preference store configured by store.path
func openStore() (*storage.Badger, *prefs.Store[models.Preference], error) {
	kv, err := storage.Open(storage.DefaultConfig(config.GetStorePath()))
	if err != nil {
		return nil, nil, err
	}
	return kv, scheme.NewStore(kv), nil
}

// ambient returns the configured ambient signal source
func ambient() (scheme.Ambient, error) {
	return scheme.ParseAmbient(config.GetAmbient(), detectAmbient)
}

// effectiveScheme reads the stored preference and resolves it. Any storage
// problem degrades to the default preference.
func effectiveScheme(ctx context.Context) models.Scheme {
	pref := scheme.DefaultPreference
	if kv, store, err := openStore(); err == nil {
		pref = store.Get(ctx)
		kv.Close()
	}

	amb, err := ambient()
	if err != nil {
		amb = detectAmbient
	}
	return scheme.Resolve(pref, amb.PrefersDark())
}

// prefilledForm is an empty form in the configured mode with the endpoints
// inferred from the current repository unless noInfer is set
func prefilledForm(noInfer bool) (models.FormState, error) {
	form := models.NewFormState()

	mode, err := config.GetDefaultMode()
	if err != nil {
		return form, fmt.Errorf("invalid defaults.mode in config: %w", err)
	}
	form.Mode = mode

	var info git.RepoInfo
	if !noInfer {
		info = git.Inspect(config.GetRemote())
	}
	return inferForm(form, info, config.GetDefaultBaseBranch()), nil
}

// printerFor returns a printer writing to the command's streams
func printerFor(cmd *cobra.Command, s models.Scheme) *ui.Printer {
	return ui.NewPrinter(outOf(cmd), errOf(cmd), s)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func outOf(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

func errOf(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func printToon(w io.Writer, v any) error {
	output, err := gotoon.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode Toon: %w", err)
	}
	fmt.Fprintln(w, output)
	return nil
}
