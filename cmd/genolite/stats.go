package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genolite/genolite/internal/raw"
	"github.com/genolite/genolite/internal/vcf"
)

func newStatsCmd(verbose *bool) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "stats <input-file>",
		Short: "Show conversion statistics for a raw data file without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*verbose)
			defer logger.Sync()
			return runStats(args[0], formatName, logger)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "input format: auto, 23andme, ancestrydna, myheritage, familytreedna, csv, tab")

	return cmd
}

func runStats(inputPath, formatName string, logger *zap.Logger) error {
	format, err := raw.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == raw.FormatUnknown {
		format, err = raw.DetectFormat(inputPath)
		if err != nil {
			return err
		}
		logger.Info("detected input format", zap.Stringer("format", format))
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()

	_, stats, err := raw.ParseAll(file, format)
	if err != nil {
		return err
	}

	printConversionStats(inputPath, stats)
	return nil
}

func printConversionStats(inputPath string, stats *raw.Stats) {
	fmt.Printf("Input:          %s\n", inputPath)
	fmt.Printf("Format:         %s\n", stats.Format)
	fmt.Printf("Total records:  %d\n", stats.TotalRecords)
	fmt.Printf("Valid records:  %d\n", stats.ValidRecords)
	fmt.Printf("Success rate:   %.1f%%\n", stats.SuccessRate()*100)

	if len(stats.ChromosomeCounts) == 0 {
		return
	}
	fmt.Println("Records by chromosome:")
	chroms := make([]string, 0, len(stats.ChromosomeCounts))
	for c := range stats.ChromosomeCounts {
		chroms = append(chroms, c)
	}
	vcf.SortChromosomes(chroms)
	for _, c := range chroms {
		fmt.Printf("  chr %-3s %d\n", c, stats.ChromosomeCounts[c])
	}
}
