// Package main provides the genolite command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/genolite/genolite/internal/ancestry"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:     "genolite",
		Short:   "Convert consumer genotyping raw data and estimate ancestry",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Long: `genolite converts raw data exports from consumer genotyping services
(23andMe, AncestryDNA, MyHeritage, FamilyTreeDNA and generic CSV/Tab files)
into VCF, and estimates population ancestry against a reference panel such
as the 1000 Genomes sample panel.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.genolite.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newConvertCmd(&verbose))
	cmd.AddCommand(newAncestryCmd(&verbose))
	cmd.AddCommand(newStatsCmd(&verbose))
	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper to the config file and sets defaults.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".genolite")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("ancestry.members-per-population", ancestry.DefaultMembersPerPopulation)
	viper.SetDefault("convert.compress", false)
	viper.SetDefault("convert.store", "")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		// An explicitly named config file must be readable.
		if cfgFile != "" {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// newLogger builds the CLI logger. Debug level with --verbose, info
// otherwise. Output goes to stderr so data output stays clean on stdout.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
