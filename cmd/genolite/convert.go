package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genolite/genolite/internal/duckdb"
	"github.com/genolite/genolite/internal/raw"
	"github.com/genolite/genolite/internal/vcf"
)

func newConvertCmd(verbose *bool) *cobra.Command {
	var (
		outputPath string
		sampleName string
		formatName string
		storePath  string
		compress   bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input-file>",
		Short: "Convert a raw genotyping data file to VCF",
		Example: `  genolite convert genome_data.txt -o sample.vcf
  genolite convert --format ancestrydna dna-data.txt -o sample.vcf --compress
  genolite convert raw.csv -o out.vcf --sample NA12878 --store runs.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("compress") {
				compress = viper.GetBool("convert.compress")
			}
			if !cmd.Flags().Changed("store") {
				storePath = viper.GetString("convert.store")
			}
			logger := newLogger(*verbose)
			defer logger.Sync()
			return runConvert(args[0], outputPath, sampleName, formatName,
				compress, storePath, logger)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output VCF file path (required)")
	cmd.Flags().StringVarP(&sampleName, "sample", "s", "", "sample name for the VCF column (default: input file name)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "input format: auto, 23andme, ancestrydna, myheritage, familytreedna, csv, tab")
	cmd.Flags().BoolVar(&compress, "compress", false, "gzip-compress the output VCF")
	cmd.Flags().StringVar(&storePath, "store", "", "DuckDB file to record conversion history in")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(inputPath, outputPath, sampleName, formatName string, compress bool, storePath string, logger *zap.Logger) error {
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

	snps, stats, err := raw.ParseAll(file, format)
	if err != nil {
		var formatErr *raw.FormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("%w (specify the layout with --format)", formatErr)
		}
		return err
	}

	if sampleName == "" {
		sampleName = defaultSampleName(inputPath)
	}

	written, err := vcf.WriteFile(outputPath, sampleName, snps, compress)
	if err != nil {
		return err
	}

	logger.Info("conversion complete",
		zap.String("output", written),
		zap.String("sample", sampleName),
		zap.Int("total_records", stats.TotalRecords),
		zap.Int("valid_records", stats.ValidRecords),
		zap.Float64("success_rate", stats.SuccessRate()))

	if storePath != "" {
		if err := recordRun(storePath, inputPath, written, sampleName, stats); err != nil {
			return err
		}
	}

	return nil
}

// recordRun appends this conversion to the DuckDB run history.
func recordRun(storePath, inputPath, outputPath, sampleName string, stats *raw.Stats) error {
	store, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(duckdb.Run{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     stats.Format.String(),
		SampleName: sampleName,
	}, stats)
	return err
}

// defaultSampleName derives a sample name from the input file name.
func defaultSampleName(inputPath string) string {
	base := filepath.Base(inputPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		return "SAMPLE"
	}
	return base
}
