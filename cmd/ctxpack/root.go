// Package main provides the ctxpack CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/context-pack/ctxpack/pkg/config"
	"github.com/context-pack/ctxpack/pkg/version"
)

// rootFlags holds the persistent flags shared by all commands.
type rootFlags struct {
	configPath string
	logLevel   string
	noSession  bool
}

var rootOpts rootFlags

// rootCmd represents the base command. Called without a subcommand it opens
// the interactive picker on the given directory (default ".").
var rootCmd = &cobra.Command{
	Use:   "ctxpack [dir]",
	Short: "Pack project files into paste-sized context chunks",
	Long: `ctxpack assembles selected project files into a single context text
and partitions it into chunks sized for a model's input limit.

Run without arguments to open the interactive picker: a tri-state file
tree on the left, the assembled context on the right, and a chunk
cursor driving the copy-paste loop. Use "ctxpack pack" for
non-interactive assembly in scripts.`,
	Version:      version.FullString(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runTUI(dir)
	},
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.configPath, "config", "c", "", "Path to configuration file (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.noSession, "no-session", false, "Do not load or save session state")
}

// loadConfig resolves configuration for a project root, applying the
// persistent flag overrides on top of the file/env precedence chain.
func loadConfig(root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if rootOpts.configPath != "" {
		cfg, err = config.NewLoader().LoadFromPath(rootOpts.configPath)
	} else {
		cfg, err = config.NewLoader().WithProjectRoot(root).Load()
	}
	if err != nil {
		return nil, err
	}
	if rootOpts.logLevel != "" {
		cfg.Global.LogLevel = rootOpts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
