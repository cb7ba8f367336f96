// =============================================================================
// Zotero to WXR Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called with two
// positional arguments it converts a Zotero export into a WXR file.
//
// COBRA CLI STRUCTURE:
//   rootCmd (zotero2wxr <input> <output>)
//   ├── checkCmd (zotero2wxr check <input>)
//   └── versionCmd (zotero2wxr version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Locating and loading the configuration file
//   3. Setting up logging
//
//   Without --config, a file named zotero2wxr.yaml is looked up in the
//   current directory and then in $HOME/.config/zotero2wxr. No environment
//   variables are read.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/zotero2wxr/internal/config"
	"github.com/ginjaninja78/zotero2wxr/internal/converter"
	"github.com/ginjaninja78/zotero2wxr/internal/logger"
	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path given with --config.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd converts one export file.
var rootCmd = &cobra.Command{
	Use:   "zotero2wxr <input.csv|input.xlsx> <output.xml>",
	Short: "Convert a Zotero citation export into a WordPress WXR import file",
	Long: `zotero2wxr reads a citation table exported from Zotero (CSV, or XLSX
saved from a spreadsheet program) and writes a WordPress eXtended RSS file
that imports every citation as a post, grouped by publication type.

Example Usage:
  zotero2wxr export.csv publications.xml
  zotero2wxr export.csv publications.xml --config ./zotero2wxr.yaml
  zotero2wxr check export.csv`,

	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: runConvert,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default: zotero2wxr.yaml in . or $HOME/.config/zotero2wxr)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// CONVERT
// =============================================================================

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	result, err := converter.New(cfg, log).Run(background(cmd), args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d publications to %s (%d bytes)\n",
		result.Stats.RecordsEmitted, result.OutputFile, result.BytesWritten)
	for _, line := range bucketLines(result.Stats.BucketCounts) {
		fmt.Fprintln(out, line)
	}
	if result.Stats.TitlesRenamed > 0 {
		fmt.Fprintf(out, "%d duplicate title(s) renamed; they can be changed back after import\n",
			result.Stats.TitlesRenamed)
	}
	if n := len(result.Stats.Issues); n > 0 {
		fmt.Fprintf(out, "%d validation issue(s); run 'zotero2wxr check %s' for details\n", n, args[0])
	}

	return nil
}

// bucketLines formats per-type counts in output order.
func bucketLines(counts map[types.PublicationType]int) []string {
	var lines []string
	for _, t := range types.CanonicalOrder() {
		if n := counts[t]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %-18s %d", t.Label(), n))
		}
	}
	return lines
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// setup loads the configuration and builds a logger writing to the
// command's stderr.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, err := locateConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level).With("command", cmd.Name())
	if verbose {
		log.SetLevel("debug")
	}
	if path != "" {
		log.Debug("using config file", "path", path)
	}

	return cfg, log, nil
}

// locateConfig returns the configuration file to load, or "" when no file
// was given and none was found.
func locateConfig(explicit string) (string, error) {
	v := viper.New()

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("zotero2wxr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "zotero2wxr"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}

	return v.ConfigFileUsed(), nil
}

// sortedRules returns the keys of a rule count map in order.
func sortedRules(counts map[string]int) []string {
	rules := make([]string, 0, len(counts))
	for r := range counts {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	return rules
}

// background returns the command's context, or a background context when
// the command runs outside Execute.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
