package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genolite/genolite/internal/ancestry"
	"github.com/genolite/genolite/internal/panel"
)

func newAncestryCmd(verbose *bool) *cobra.Command {
	var (
		membersPerPop int
		workers       int
		describe      bool
	)

	cmd := &cobra.Command{
		Use:   "ancestry <vcf-file> <panel-file> <sample-id>",
		Short: "Estimate a sample's ancestry against a reference panel",
		Long: `Estimate per-superpopulation ancestry scores for a sample by genotype
similarity against reference panel populations. The VCF may be plain or
gzip-compressed; the panel is a tab-separated sample/population/
superpopulation/gender file such as the 1000 Genomes integrated call panel.`,
		Example: `  genolite ancestry chr22.vcf.gz integrated_call_samples.panel HG00096
  genolite ancestry --members-per-population 25 all.vcf.gz samples.panel NA12878`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("members-per-population") {
				membersPerPop = viper.GetInt("ancestry.members-per-population")
			}
			logger := newLogger(*verbose)
			defer logger.Sync()
			return runAncestry(args[0], args[1], args[2], membersPerPop, workers, describe, logger)
		},
	}

	cmd.Flags().IntVar(&membersPerPop, "members-per-population", ancestry.DefaultMembersPerPopulation,
		"how many members of each population to compare against")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines for scoring (0 = one per CPU)")
	cmd.Flags().BoolVar(&describe, "describe", false, "also print dataset statistics")

	return cmd
}

func runAncestry(vcfPath, panelPath, sampleID string, membersPerPop, workers int, describe bool, logger *zap.Logger) error {
	loader := ancestry.NewLoader()
	loader.SetLogger(logger)

	dataset, err := loader.Load(vcfPath, panelPath)
	if err != nil {
		return err
	}

	if describe {
		printDatasetStats(dataset)
	}

	// Estimator precondition: the queried sample must exist.
	if !dataset.HasSample(sampleID) {
		return fmt.Errorf("sample %q not found in VCF (%d samples loaded)",
			sampleID, len(dataset.Samples))
	}

	est := ancestry.NewEstimator(dataset)
	est.SetMembersPerPopulation(membersPerPop)
	est.SetWorkers(workers)
	est.SetLogger(logger)

	scores, err := est.EstimateAncestry(sampleID)
	if err != nil {
		return err
	}

	printScores(sampleID, scores)
	return nil
}

// printScores prints superpopulation scores sorted by score descending,
// ties broken by code.
func printScores(sampleID string, scores map[string]float64) {
	superpops := make([]string, 0, len(scores))
	for sp := range scores {
		superpops = append(superpops, sp)
	}
	sort.Slice(superpops, func(i, j int) bool {
		if scores[superpops[i]] != scores[superpops[j]] {
			return scores[superpops[i]] > scores[superpops[j]]
		}
		return superpops[i] < superpops[j]
	})

	fmt.Printf("Ancestry estimation for %s:\n", sampleID)
	for _, sp := range superpops {
		fmt.Printf("  %-4s %-12s %6.2f%%\n", sp, panel.Region(sp), scores[sp]*100)
	}
	if len(superpops) == 0 {
		fmt.Println("  no comparable populations found")
	}
}

func printDatasetStats(dataset *ancestry.Dataset) {
	stats := dataset.Stats()
	fmt.Printf("Dataset: %d variants, %d samples, %d populations\n",
		stats.Variants, stats.Samples, stats.Populations)

	chroms := make([]string, 0, len(stats.ChromosomeCounts))
	for c := range stats.ChromosomeCounts {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	for _, c := range chroms {
		fmt.Printf("  chr %-3s %d variants\n", c, stats.ChromosomeCounts[c])
	}
}
