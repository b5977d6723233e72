package raw

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single raw data line. Vendor exports are short
// fixed-column lines, but the default scanner cap would abort mid-file on
// an unusually long one.
const maxLineBytes = 4 * 1024 * 1024

// Parser reads SNP records from a raw genotyping data file. One parser
// handles every supported vendor format; the format tag selects the
// delimiter, the column resolution rules and the per-record skip rules.
type Parser struct {
	scanner    *bufio.Scanner
	format     Format
	cols       columnIndices
	delimiter  string
	trimQuotes bool
	done       bool
	lineNumber int
	stats      *Stats
}

// NewParser creates a parser for the given format. FormatUnknown is treated
// as generic CSV. The header line is consumed and its columns resolved
// immediately; for the generic CSV/Tab formats an unresolvable header yields
// a *FormatError.
func NewParser(r io.Reader, format Format) (*Parser, error) {
	if format == FormatUnknown {
		format = FormatCSV
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	p := &Parser{
		scanner: scanner,
		format:  format,
		stats:   newStats(format),
	}

	header, ok := p.nextContentLine()
	if !ok {
		// Empty or all-comment input: nothing to parse.
		p.done = true
		return p, nil
	}

	if err := p.resolveColumns(header); err != nil {
		p.done = true
		return p, err
	}

	return p, nil
}

// resolveColumns picks the delimiter and column indices from the header line.
func (p *Parser) resolveColumns(header string) error {
	switch p.format {
	case Format23AndMe, FormatFamilyTreeDNA:
		p.delimiter = "\t"
		headers := strings.Split(header, p.delimiter)
		p.cols = columnIndices{
			rsid:     findColumnExact(headers, "rsid", 0),
			chrom:    findColumnExact(headers, "chromosome", 1),
			pos:      findColumnExact(headers, "position", 2),
			genotype: findColumnExact(headers, "genotype", 3),
			allele1:  -1,
			allele2:  -1,
		}

	case FormatAncestryDNA:
		p.delimiter = "\t"
		headers := strings.Split(header, p.delimiter)
		p.cols = columnIndices{
			rsid:     orDefault(findColumn(headers, "rsid"), 0),
			chrom:    orDefault(findColumn(headers, "chrom"), 1),
			pos:      orDefault(findColumn(headers, "pos"), 2),
			genotype: -1,
			allele1:  orDefault(findColumn(headers, "allele1"), 3),
			allele2:  orDefault(findColumn(headers, "allele2"), 4),
		}

	case FormatMyHeritage:
		// Mixed-delimiter vendor: the choice is made once from the header
		// and reused for every data line.
		p.delimiter = "\t"
		if strings.Contains(header, ",") {
			p.delimiter = ","
		}
		p.trimQuotes = true
		headers := strings.Split(header, p.delimiter)
		p.cols = columnIndices{
			rsid:     orDefault(findColumn(headers, "rsid"), 0),
			chrom:    orDefault(findColumn(headers, "chr"), 1),
			pos:      orDefault(findColumn(headers, "pos"), 2),
			genotype: orDefault(findColumn(headers, "result", "genotype"), 3),
			allele1:  -1,
			allele2:  -1,
		}

	case FormatCSV, FormatTab:
		p.delimiter = ","
		if p.format == FormatTab {
			p.delimiter = "\t"
		} else {
			p.trimQuotes = true
		}
		headers := strings.Split(header, p.delimiter)
		p.cols = columnIndices{
			rsid:     findColumn(headers, rsidSynonyms...),
			chrom:    findColumn(headers, chromSynonyms...),
			pos:      findColumn(headers, posSynonyms...),
			genotype: findColumn(headers, genotypeSynonyms...),
			allele1:  -1,
			allele2:  -1,
		}
		var missing []string
		if p.cols.rsid < 0 {
			missing = append(missing, "rsid")
		}
		if p.cols.chrom < 0 {
			missing = append(missing, "chromosome")
		}
		if p.cols.pos < 0 {
			missing = append(missing, "position")
		}
		if p.cols.genotype < 0 {
			missing = append(missing, "genotype")
		}
		if len(missing) > 0 {
			return &FormatError{Format: p.format, Missing: missing}
		}

	default:
		return fmt.Errorf("unsupported input format %q", p.format)
	}

	return nil
}

// Next reads the next SNP record, applying the per-format skip rules.
// Returns nil, nil when there are no more records. Skipped records are
// counted in Stats but never reported as errors.
func (p *Parser) Next() (*SNP, error) {
	for {
		line, ok := p.nextContentLine()
		if !ok {
			if err := p.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read raw data line: %w", err)
			}
			return nil, nil
		}

		p.stats.TotalRecords++

		snp, ok := p.parseLine(line)
		if !ok {
			continue
		}

		p.stats.keep(snp.Chromosome)
		return snp, nil
	}
}

// parseLine extracts one record from a data line. The second return value
// is false when the record is dropped by the skip rules.
func (p *Parser) parseLine(line string) (*SNP, bool) {
	fields := strings.Split(line, p.delimiter)

	chrom := NormalizeChromosome(p.trim(field(fields, p.cols.chrom)))
	if chrom == "0" {
		return nil, false
	}

	var genotype string
	if p.format == FormatAncestryDNA {
		a1 := field(fields, p.cols.allele1)
		a2 := field(fields, p.cols.allele2)
		if a1 == "0" || a2 == "0" {
			return nil, false
		}
		// Column-order concatenation, matching the vendor's export.
		genotype = a1 + a2
	} else {
		genotype = p.trim(field(fields, p.cols.genotype))
	}
	if genotype == "" || genotype == "--" || genotype == "0" {
		return nil, false
	}

	pos, err := strconv.ParseUint(p.trim(field(fields, p.cols.pos)), 10, 64)
	if err != nil {
		pos = 0
	}

	return &SNP{
		RSID:       p.trim(field(fields, p.cols.rsid)),
		Chromosome: chrom,
		Position:   pos,
		Genotype:   genotype,
	}, true
}

func (p *Parser) trim(s string) string {
	if p.trimQuotes {
		return strings.Trim(s, `"`)
	}
	return s
}

// nextContentLine advances past comment and blank lines.
func (p *Parser) nextContentLine() (string, bool) {
	if p.done {
		return "", false
	}
	for p.scanner.Scan() {
		p.lineNumber++
		line := p.scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	p.done = true
	return "", false
}

// Stats returns the running parse statistics. Totals are final once Next
// has returned nil.
func (p *Parser) Stats() *Stats {
	return p.stats
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// ParseAll reads every record from r in the given format.
// A *FormatError from header resolution is returned together with the empty
// record slice, so callers may treat it as an empty result or report it.
func ParseAll(r io.Reader, format Format) ([]SNP, *Stats, error) {
	p, err := NewParser(r, format)
	if err != nil {
		return nil, p.Stats(), err
	}

	var snps []SNP
	for {
		snp, err := p.Next()
		if err != nil {
			return snps, p.Stats(), err
		}
		if snp == nil {
			return snps, p.Stats(), nil
		}
		snps = append(snps, *snp)
	}
}
