package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/joshuapare/resindex/pkg/resmgr"
	"github.com/joshuapare/resindex/resource"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configFile string

	// Set by the root pre-run
	settings *deviceSettings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "resctl",
	Short: "Inspect resource index files",
	Long: `resctl inspects compiled resource index files (v1 and v2 layouts) and
resolves resources the way a device with a given configuration would.

The device configuration comes from flags, RESCTL_* environment variables
and an optional config file, in that order of precedence.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = newLogger()
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&configFile, "config", "", "Device configuration file (yaml, toml or json)")
	addDeviceFlags(pf)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger routes library logging through a charm handler on stderr.
func newLogger() *slog.Logger {
	level := charmlog.WarnLevel
	switch {
	case quiet:
		level = charmlog.ErrorLevel
	case verbose:
		level = charmlog.DebugLevel
	}
	h := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:  level,
		Prefix: "resctl",
	})
	return slog.New(h)
}

// newRegistry returns a registry wired to the CLI logger.
func newRegistry() *resmgr.Registry {
	return resmgr.New(resmgr.Options{Source: resource.MappedFile{}, Logger: logger})
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
