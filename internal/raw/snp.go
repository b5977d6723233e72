// Package raw provides parsing of consumer genotyping raw data files.
package raw

// SNP represents a single genotyped marker from a raw data file.
type SNP struct {
	RSID       string // marker identifier (e.g., rs ID)
	Chromosome string // canonical chromosome token ("1".."22", "X", "Y", "MT")
	Position   uint64 // 1-based genomic position
	Genotype   string // raw genotype call (e.g., "AG", "A/G")
}

// Stats summarizes one parse of a raw data file.
type Stats struct {
	Format           Format
	TotalRecords     int            // data lines seen
	ValidRecords     int            // records kept after skip rules
	ChromosomeCounts map[string]int // kept records per canonical chromosome
}

// SuccessRate returns the fraction of data lines that survived the skip
// rules, or 0 if no data lines were seen.
func (s *Stats) SuccessRate() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.ValidRecords) / float64(s.TotalRecords)
}

func newStats(format Format) *Stats {
	return &Stats{
		Format:           format,
		ChromosomeCounts: make(map[string]int),
	}
}

func (s *Stats) keep(chrom string) {
	s.ValidRecords++
	s.ChromosomeCounts[chrom]++
}
