// Package cmd implements the hiervet command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venalab/hiervet/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hiervet",
	Short: "Hierarchy data-quality validation",
	Long: `Hiervet checks parent-child hierarchy files for the data-quality
defects that break imports into Vena: orphaned parent references, near-miss
parent names, duplicate members, whitespace noise, and names over the
platform length limit.

It can also convert a visual tree layout, where depth is encoded by column
position, into the flat parent-child format.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.hiervet.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hiervet")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("fuzzy.max-distance", 2)
	viper.SetDefault("limits.max-name-length", 80)
	viper.SetDefault("tree.levels", 10)
	viper.SetDefault("tree.alias-column", 10)
	viper.SetDefault("tree.operator-column", 11)

	_ = viper.ReadInConfig()
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// configureLogging applies the flag-driven log level. Explicit LOG_LEVEL
// wins; -v and -q are shortcuts, quiet winning when both are set.
func configureLogging() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		switch {
		case quiet:
			level = "warn"
		case verbose:
			level = "debug"
		default:
			level = "info"
		}
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "auto"
	}
	logging.Configure(&logging.Config{
		Level:  level,
		Format: format,
		Output: "stderr",
	})
}
