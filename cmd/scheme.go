package cmd

import (
	"fmt"

	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/scheme"
	"github.com/spf13/cobra"
)

var schemeJSON bool

var schemeCmd = &cobra.Command{
	Use:   "scheme",
	Short: "Manage the color scheme preference",
	Long: `Show or change the persisted color scheme preference.

The preference is one of dark, light or system. With system, the
effective scheme follows the terminal background (or the "ambient"
config key when set to dark or light).

Examples:
  prlink scheme get
  prlink scheme set dark
  prlink scheme resolve
  prlink scheme reset`,
}

var schemeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored preference",
	Args:  cobra.NoArgs,
	RunE:  runSchemeGet,
}

var schemeSetCmd = &cobra.Command{
	Use:       "set <dark|light|system>",
	Short:     "Store a new preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light", "system"},
	RunE:      runSchemeSet,
}

var schemeResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the effective scheme",
	Args:  cobra.NoArgs,
	RunE:  runSchemeResolve,
}

var schemeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored preference",
	Args:  cobra.NoArgs,
	RunE:  runSchemeReset,
}

func init() {
	rootCmd.AddCommand(schemeCmd)
	schemeCmd.AddCommand(schemeGetCmd, schemeSetCmd, schemeResolveCmd, schemeResetCmd)

	schemeCmd.PersistentFlags().BoolVar(&schemeJSON, "json", false, "Output as JSON")
}

type schemeStatus struct {
	Preference models.Preference `json:"preference"`
	Effective  models.Scheme     `json:"effective"`
	Ambient    models.Scheme     `json:"ambient"`
}

// currentStatus reads the preference and resolves it against the ambient signal
func currentStatus(cmd *cobra.Command) (schemeStatus, error) {
	kv, store, err := openStore()
	if err != nil {
		return schemeStatus{}, err
	}
	defer kv.Close()

	amb, err := ambient()
	if err != nil {
		return schemeStatus{}, err
	}

	dark := amb.PrefersDark()
	pref := store.Get(commandContext(cmd))
	status := schemeStatus{
		Preference: pref,
		Effective:  scheme.Resolve(pref, dark),
		Ambient:    scheme.Resolve(models.PreferenceSystem, dark),
	}
	return status, nil
}

func runSchemeGet(cmd *cobra.Command, args []string) error {
	status, err := currentStatus(cmd)
	if err != nil {
		return err
	}
	if schemeJSON {
		return printJSON(outOf(cmd), status)
	}
	fmt.Fprintln(outOf(cmd), status.Preference)
	return nil
}

func runSchemeSet(cmd *cobra.Command, args []string) error {
	kv, store, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	pref := models.Preference(args[0])
	if err := store.Set(commandContext(cmd), pref); err != nil {
		return fmt.Errorf("failed to set color scheme: %w", err)
	}

	amb, err := ambient()
	if err != nil {
		return err
	}
	effective := scheme.Resolve(pref, amb.PrefersDark())
	printerFor(cmd, effective).Success(fmt.Sprintf("Color scheme set to %s (effective: %s)", pref, effective))
	return nil
}

func runSchemeResolve(cmd *cobra.Command, args []string) error {
	status, err := currentStatus(cmd)
	if err != nil {
		return err
	}
	if schemeJSON {
		return printJSON(outOf(cmd), status)
	}
	fmt.Fprintln(outOf(cmd), status.Effective)
	return nil
}

func runSchemeReset(cmd *cobra.Command, args []string) error {
	kv, store, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := store.Remove(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to reset color scheme: %w", err)
	}
	amb, err := ambient()
	if err != nil {
		return err
	}
	effective := scheme.Resolve(scheme.DefaultPreference, amb.PrefersDark())
	printerFor(cmd, effective).Success(fmt.Sprintf("Color scheme reset to %s (effective: %s)", scheme.DefaultPreference, effective))
	return nil
}
