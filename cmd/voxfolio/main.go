package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voxfolio/internal/config"
)

// Version is stamped at build time.
var Version = "1.0.0-dev"

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "voxfolio",
	Short: "voxfolio - command-driven voice portfolio",
	Long: `voxfolio is a single-page portfolio you talk to.

Free text commands (typed or spoken) navigate a stack of screens:
projects, CV, a timeline walkthrough. A small rule set classifies
commands locally; anything it cannot place goes to a remote command
compiler and comes back as screen mutations.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode owns the terminal and uses the file logs only.
		if cmd.Use == "voxfolio" && cmd.CalledAs() == "voxfolio" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// runCmd resolves a single command and prints the result
var runCmd = &cobra.Command{
	Use:   "run [command text]",
	Short: "Resolve a single command without the interactive interface",
	Long: `Runs one command through the full pipeline and prints the resolved
screen and narration. Useful for scripting and for inspecting what a
phrase resolves to.

Example:
  voxfolio run "show me your go projects"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOnce,
}

// serveCmd runs the headless service with the metrics endpoint
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run headless with the metrics endpoint",
	Long: `Starts voxfolio without the terminal interface: the content pack
watcher and the metrics listener run until interrupted. Intended for
deployments where commands arrive over voice only.`,
	RunE: runServe,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the voxfolio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxfolio %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
