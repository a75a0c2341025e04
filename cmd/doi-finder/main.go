// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doi-finder CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-finder/internal/crossref"
	"github.com/pdiddy/doi-finder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Resolution (-i) and duplicate cleaning
// (-c) are flag-selected modes rather than subcommands.
var rootCmd = &cobra.Command{
	Use:   "doi-finder",
	Short: "Resolve free-text citations to DOIs via CrossRef",
	Long: `doi-finder reads academic citations from a text or BibTeX file, queries
the CrossRef API for each one, and appends the results to a CSV table
and a matching Excel workbook. DOIs already present in the table are
skipped, so the table grows incrementally across runs.

Modes are selected by flag: -i resolves an input file and merges the
results into the output table; -c removes duplicate DOIs from an
existing table. Successful lookups are cached locally so re-running
overlapping citation lists stays off the network.`,
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	clean, _ := cmd.Flags().GetString("clean")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	switch {
	case clean != "":
		return runClean(cmd, clean)
	case input != "":
		return runResolve(cmd, input, output)
	}
	return fmt.Errorf("no valid arguments provided: use -i <citations file> to resolve or -c <csv file> to remove duplicates")
}

// resolverConfig assembles CrossRef client settings from flags, the
// config file, and DOI_FINDER_* environment variables.
func resolverConfig() types.ResolverConfig {
	mailto := viper.GetString("mailto")
	return types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: crossref.UserAgent(version, mailto),
		},
		Mailto:            mailto,
		PlusToken:         viper.GetString("plus-token"),
		Rows:              viper.GetInt("rows"),
		RequestsPerSecond: viper.GetFloat64("rate"),
		MaxRetries:        viper.GetInt("max-retries"),
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doi-finder.yaml or ~/.config/doi-finder/config.yaml)")

	rootCmd.Flags().StringP("input", "i", "", "text or BibTeX file with citations")
	rootCmd.Flags().StringP("output", "o", "dois.csv", "output CSV path; the Excel workbook shares its base name")
	rootCmd.Flags().StringP("clean", "c", "", "CSV file to clean of duplicate DOIs")
	rootCmd.Flags().Bool("dry-run", false, "with -c, report duplicates without writing")

	// Client settings are persistent so subcommands inherit them, and
	// viper-bound so the config file and environment can set them.
	rootCmd.PersistentFlags().Int("rows", 5, "number of candidate works to request per query")
	rootCmd.PersistentFlags().String("mailto", "", "contact email for the CrossRef polite pool")
	rootCmd.PersistentFlags().String("plus-token", "", "CrossRef Plus API token")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().Float64("rate", 1, "maximum CrossRef requests per second")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the local lookup cache")
	rootCmd.PersistentFlags().String("cache-path", "", "lookup cache location (default: user cache dir)")

	for _, key := range []string{"rows", "mailto", "plus-token", "timeout", "rate", "no-cache", "cache-path"} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
	viper.SetDefault("max-retries", 3)
}

func initConfig() {
	// A .env file feeds the DOI_FINDER_* environment lookup below.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doi-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doi-finder"))
		}
	}

	viper.SetEnvPrefix("DOI_FINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
