// Package main provides the CLI entry point for xlprint.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/javajack/xlprint"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputPath string
	configDir  string
	outputDir  string
	validate   bool
	describe   bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlprint",
		Short: "Generate print-ready xlsx workbooks from JSON or YAML layouts",
		Long: `xlprint turns a declarative description of a printable document
(titles, text, forms, tables, spacing) into a styled xlsx workbook.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.json", "Configuration file (.json, .yaml, .yml)")
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", "output.xlsx", "Output workbook")
	rootCmd.Flags().StringVar(&configDir, "config-dir", "", "Generate one workbook per configuration in this directory")
	rootCmd.Flags().StringVar(&outputDir, "out-dir", "out", "Output directory for --config-dir")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "Check the configuration and report issues instead of generating")
	rootCmd.Flags().BoolVar(&describe, "describe", false, "Print the normalized sheet and block structure instead of generating")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug events")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	opts := []xlprint.Option{xlprint.WithLogger(logger)}

	inputs := []string{configPath}
	if configDir != "" {
		found, err := configFiles(configDir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("no configuration files in %s", configDir)
		}
		inputs = found
	}

	var failed int
	for _, in := range inputs {
		cfg, err := xlprint.LoadConfig(in)
		if err != nil {
			return err
		}

		switch {
		case validate:
			issues := xlprint.Validate(cfg)
			for _, issue := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", in, issue)
				if issue.Severity == xlprint.SeverityError {
					failed++
				}
			}
			if len(issues) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", in)
			}
		case describe:
			fmt.Fprint(cmd.OutOrStdout(), xlprint.Describe(cfg))
		default:
			out := outputPath
			if configDir != "" {
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
				out = filepath.Join(outputDir, base+".xlsx")
			}
			if err := xlprint.NewGenerator(opts...).WriteFile(cfg, out); err != nil {
				return err
			}
			abs, err := filepath.Abs(out)
			if err != nil {
				abs = out
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", abs)
		}
	}

	if failed > 0 {
		return errors.New("configuration has errors")
	}
	return nil
}

// configFiles lists the JSON and YAML files of dir in name order.
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := xlprint.FormatOf(e.Name()); err == nil {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
