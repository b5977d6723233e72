// Package vcf provides VCF file reading and writing.
package vcf

// Variant represents a single data line from a VCF file. It is immutable
// after creation.
type Variant struct {
	Chrom     string   // chromosome token as written in the file
	Pos       uint64   // 1-based genomic position
	ID        string   // variant identifier (e.g., rs ID)
	Ref       string   // reference allele
	Alt       string   // alternate allele(s), comma-joined as written
	Qual      float64  // quality score, 0 when unparseable
	Genotypes []string // per-sample genotype fields, aligned with the header's sample order
}

// Genotype returns the genotype field for the given sample index and
// whether the index is within range. Datasets are not guaranteed to have
// uniform genotype column counts, so out-of-range lookups must fail safely
// instead of misreading another sample's data.
func (v *Variant) Genotype(sampleIdx int) (string, bool) {
	if sampleIdx < 0 || sampleIdx >= len(v.Genotypes) {
		return "", false
	}
	return v.Genotypes[sampleIdx], true
}
