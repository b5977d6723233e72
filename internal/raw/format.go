package raw

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Format identifies the layout of a raw genotyping data file.
type Format int

const (
	// FormatUnknown means detection found nothing to classify (empty or
	// all-comment file). Downstream treats it as generic CSV.
	FormatUnknown Format = iota
	Format23AndMe
	FormatAncestryDNA
	FormatMyHeritage
	FormatFamilyTreeDNA
	FormatCSV
	FormatTab
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case Format23AndMe:
		return "23andMe"
	case FormatAncestryDNA:
		return "AncestryDNA"
	case FormatMyHeritage:
		return "MyHeritage"
	case FormatFamilyTreeDNA:
		return "FamilyTreeDNA"
	case FormatCSV:
		return "CSV"
	case FormatTab:
		return "Tab"
	default:
		return "unknown"
	}
}

// ParseFormat resolves a format name given on the command line.
// An empty string means auto-detection.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatUnknown, nil
	case "23andme":
		return Format23AndMe, nil
	case "ancestrydna", "ancestry":
		return FormatAncestryDNA, nil
	case "myheritage":
		return FormatMyHeritage, nil
	case "familytreedna", "ftdna":
		return FormatFamilyTreeDNA, nil
	case "csv":
		return FormatCSV, nil
	case "tab":
		return FormatTab, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown input format %q", name)
	}
}

// maxSniffLines is how many non-blank, non-comment lines detection reads.
const maxSniffLines = 10

// DetectFormat sniffs the header of a raw data file and classifies its
// vendor format. Detection itself never fails: a file with no classifiable
// content yields FormatUnknown. The only possible error is the file not
// being readable.
func DetectFormat(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open raw data file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(lines) < maxSniffLines {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return FormatUnknown, fmt.Errorf("read raw data file: %w", err)
	}

	if len(lines) == 0 {
		return FormatUnknown, nil
	}

	return detectFromHeader(lines[0]), nil
}

// detectFromHeader classifies a format from the first content line.
func detectFromHeader(line string) Format {
	header := strings.ToLower(line)

	has := func(tokens ...string) bool {
		for _, t := range tokens {
			if !strings.Contains(header, t) {
				return false
			}
		}
		return true
	}

	switch {
	case has("rsid", "chromosome", "position", "genotype"):
		return Format23AndMe
	case has("rsid", "chrom", "pos", "allele1"):
		return FormatAncestryDNA
	case has("rsid", "chr", "pos") && (has("result") || has("genotype")):
		return FormatMyHeritage
	case has("rsid", "chromosome", "position", "result"):
		return FormatFamilyTreeDNA
	}

	commas := strings.Count(line, ",")
	tabs := strings.Count(line, "\t")
	if commas > tabs && commas > 2 {
		return FormatCSV
	}
	if tabs > 2 {
		return FormatTab
	}

	return FormatCSV
}
