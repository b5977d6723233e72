// Package ancestry estimates population ancestry from genotype similarity
// against a reference panel.
package ancestry

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/genolite/genolite/internal/panel"
	"github.com/genolite/genolite/internal/vcf"
)

// Dataset owns the variants, samples and populations for one loaded
// VCF + panel pair. It is immutable once built and safe for concurrent
// readers.
type Dataset struct {
	Variants    []vcf.Variant
	Samples     []string
	Populations map[string]*panel.Population

	sampleIndex map[string]int
}

// NewDataset builds a dataset from already-loaded components and derives
// the sample index from the sample order.
func NewDataset(variants []vcf.Variant, samples []string, populations map[string]*panel.Population) *Dataset {
	d := &Dataset{
		Variants:    variants,
		Samples:     samples,
		Populations: populations,
		sampleIndex: make(map[string]int, len(samples)),
	}
	for i, name := range samples {
		d.sampleIndex[name] = i
	}
	return d
}

// Loader builds a Dataset from a VCF file and a population panel file.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a dataset loader.
func NewLoader() *Loader {
	return &Loader{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads the VCF at vcfPath and the panel at panelPath into memory.
func (l *Loader) Load(vcfPath, panelPath string) (*Dataset, error) {
	parser, err := vcf.NewParser(vcfPath)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	var variants []vcf.Variant
	for {
		v, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			break
		}
		variants = append(variants, *v)
		if len(variants)%10000 == 0 {
			l.logger.Debug("loading variants", zap.Int("count", len(variants)))
		}
	}

	populations, err := panel.Load(panelPath)
	if err != nil {
		return nil, err
	}

	d := NewDataset(variants, parser.SampleNames(), populations)

	l.logger.Info("dataset loaded",
		zap.Int("variants", len(d.Variants)),
		zap.Int("samples", len(d.Samples)),
		zap.Int("populations", len(d.Populations)))

	return d, nil
}

// SampleIndex returns the column index of a sample name from the VCF
// header, and whether the sample exists.
func (d *Dataset) SampleIndex(name string) (int, bool) {
	idx, ok := d.sampleIndex[name]
	return idx, ok
}

// HasSample reports whether the sample appears in the VCF header.
func (d *Dataset) HasSample(name string) bool {
	_, ok := d.sampleIndex[name]
	return ok
}

// Stats summarizes a loaded dataset.
type Stats struct {
	Variants         int
	Samples          int
	Populations      int
	ChromosomeCounts map[string]int
}

// Stats computes summary counts over the dataset.
func (d *Dataset) Stats() Stats {
	s := Stats{
		Variants:         len(d.Variants),
		Samples:          len(d.Samples),
		Populations:      len(d.Populations),
		ChromosomeCounts: make(map[string]int),
	}
	for i := range d.Variants {
		s.ChromosomeCounts[d.Variants[i].Chrom]++
	}
	return s
}

// AlleleFrequency computes the alternate allele frequency of the variant at
// variantIndex across the members of one population. Genotype fields must
// be of the numeric "0|1" or "0/1" form; others are skipped. Returns false
// when the population is unknown, the index is out of range, or no alleles
// could be counted.
func (d *Dataset) AlleleFrequency(variantIndex int, popCode string) (float64, bool) {
	if variantIndex < 0 || variantIndex >= len(d.Variants) {
		return 0, false
	}
	pop, ok := d.Populations[popCode]
	if !ok {
		return 0, false
	}

	v := &d.Variants[variantIndex]
	altAlleles, totalAlleles := 0, 0
	for _, member := range pop.Members {
		idx, ok := d.sampleIndex[member]
		if !ok {
			continue
		}
		gt, ok := v.Genotype(idx)
		if !ok {
			continue
		}
		a1, a2, ok := parseDiploidGenotype(gt)
		if !ok {
			continue
		}
		totalAlleles += 2
		if a1 == 1 {
			altAlleles++
		}
		if a2 == 1 {
			altAlleles++
		}
	}

	if totalAlleles == 0 {
		return 0, false
	}
	return float64(altAlleles) / float64(totalAlleles), true
}

// parseDiploidGenotype splits a "0|1" or "0/1" style genotype field into
// its two allele indices.
func parseDiploidGenotype(gt string) (int, int, bool) {
	sep := "|"
	if !strings.Contains(gt, "|") {
		sep = "/"
	}
	parts := strings.Split(gt, sep)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a1, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	a2, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return a1, a2, true
}
