package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser reads variants from a VCF file.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	headerSeen  bool
	sampleNames []string // sample names from the #CHROM header line
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	// Seek back to beginning
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants.
//
// Metadata lines (##) are ignored, the #CHROM line defines the sample
// order, data lines before the #CHROM line or with fewer than 9 fields are
// silently skipped. The one structural field that must parse is POS; a
// failure there is a fatal *ParseError.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		atEOF := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			p.lineNumber++
		}

		switch {
		case line == "":
			// fall through to EOF check

		case strings.HasPrefix(line, "##"):
			// metadata, ignored

		case strings.HasPrefix(line, "#CHROM"):
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				p.sampleNames = fields[9:]
			}
			p.headerSeen = true

		case strings.HasPrefix(line, "#"):
			// other comment, ignored

		case p.headerSeen:
			v, err := p.parseLine(line)
			if err != nil {
				return nil, err
			}
			if v != nil {
				return v, nil
			}
		}

		if atEOF {
			return nil, nil
		}
	}
}

// parseLine parses a single VCF data line into a Variant.
// Lines with fewer than 9 tab-separated fields yield nil, nil: a deliberate
// permissive policy, not an error.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, nil
	}

	pos, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	// QUAL is best-effort; anything unparseable becomes 0.
	qual, _ := strconv.ParseFloat(fields[5], 64)

	return &Variant{
		Chrom:     fields[0],
		Pos:       pos,
		ID:        fields[2],
		Ref:       fields[3],
		Alt:       fields[4],
		Qual:      qual,
		Genotypes: fields[9:],
	}, nil
}

// SampleNames returns sample names from the #CHROM header line, in column
// order. This order is authoritative for all genotype indexing.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
