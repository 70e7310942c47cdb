package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pders01/prlink/internal/config"
	"github.com/pders01/prlink/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "prlink",
	Short: "Build GitHub pull request URLs",
	Long: `prlink builds GitHub compare URLs that open the "new pull request"
page with the title and body (or a template) already filled in:

  https://github.com/<org>/<repo>/compare/<base>...<head>?expand=1&title=...

Nothing is sent to GitHub. Open the URL, copy it, or drag it to your
bookmarks.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/prlink/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log informational messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug messages")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.Dir())
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.AppName)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", slog.String("path", viper.ConfigFileUsed()))
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}

	logger.Initialize(level)
	return nil
}
