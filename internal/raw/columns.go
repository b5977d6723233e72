package raw

import (
	"fmt"
	"strings"
)

// columnIndices holds the resolved positions of the logical fields in a raw
// data file. Unresolved columns are -1.
type columnIndices struct {
	rsid     int
	chrom    int
	pos      int
	genotype int
	allele1  int
	allele2  int
}

// Synonym tables per logical field. These match real-world vendor exports
// by case-insensitive substring; changing them breaks compatibility.
var (
	rsidSynonyms     = []string{"rsid", "snp", "marker"}
	chromSynonyms    = []string{"chr", "chrom", "chromosome"}
	posSynonyms      = []string{"pos", "location", "position"}
	genotypeSynonyms = []string{"genotype", "result", "call"}
)

// findColumn returns the index of the first header cell whose lowercased
// text contains any of the given substrings, or -1.
func findColumn(headers []string, synonyms ...string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, syn := range synonyms {
			if strings.Contains(lower, syn) {
				return i
			}
		}
	}
	return -1
}

// findColumnExact returns the index of the header cell whose lowercased
// text equals name, or the fallback index when the cell is absent.
func findColumnExact(headers []string, name string, fallback int) int {
	for i, h := range headers {
		if strings.ToLower(h) == name {
			return i
		}
	}
	return fallback
}

// orDefault substitutes a positional fallback for an unresolved index.
func orDefault(idx, fallback int) int {
	if idx < 0 {
		return fallback
	}
	return idx
}

// FormatError reports that a generic CSV/Tab header did not contain all
// required logical columns. It is recoverable: the caller should report it
// and may retry with an explicit format.
type FormatError struct {
	Format  Format
	Missing []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s header missing required columns: %s",
		e.Format, strings.Join(e.Missing, ", "))
}

// field returns fields[idx], or "" when idx is out of range.
func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
