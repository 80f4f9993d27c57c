// Package main provides the biovault command-line tool: ingest consumer
// genotyping exports into local variant stores and cross-reference them
// against a reference clinical-variant database.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "biovault",
		Short:   "Local genome store and clinical-variant matching",
		Long:    "biovault ingests consumer genotyping exports into indexed local variant stores and matches them against a reference clinical-variant database. All data stays on this device.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("data-dir", "", "Data directory (default ~/.biovault)")
	viper.BindPFlag("data.dir", cmd.PersistentFlags().Lookup("data-dir"))

	cmd.AddCommand(newIngestCmd(&verbose))
	cmd.AddCommand(newListCmd(&verbose))
	cmd.AddCommand(newDeleteCmd(&verbose))
	cmd.AddCommand(newAnalyzeCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper to ~/.biovault.yaml and environment overrides.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	viper.SetConfigName(".biovault")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.SetEnvPrefix("BIOVAULT")
	viper.AutomaticEnv()

	viper.SetDefault("data.dir", filepath.Join(home, ".biovault"))
	viper.SetDefault("clinvar.db", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// newLogger returns a development logger when verbose is set, a no-op
// logger otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func dataDir() string {
	return viper.GetString("data.dir")
}
