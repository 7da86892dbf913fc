package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/config"
	"github.com/ppiankov/chronos/internal/logging"
	"github.com/ppiankov/chronos/internal/model"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	// Populated by loadConfig before any subcommand runs
	appConfig *model.Config
	logger    = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chronos",
	Short: "Chronos - Reconstruct fragmentary internet slang into full text",
	Long: `Chronos reconstructs fragmentary, slang-heavy text snippets from old chat
rooms, forums and social feeds.

For each fragment it asks a generative model for the most likely full text,
alternative readings, the era and community it came from and a glossary of
the slang involved, then looks up corroborating web sources ranked by
credibility.

Run it as an HTTP service (chronos serve) or locally from the command line.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Chronos.`,
	// Skip config loading so version works with a broken config file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chronos %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.chronos/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads defaults, config file, .env and CHRONOS_* environment
// into appConfig and builds the logger
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper(), config.Options{ConfigFile: cfgFile})
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	appConfig = cfg
	logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}
