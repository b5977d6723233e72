package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/pgzip"

	"github.com/genolite/genolite/internal/raw"
)

// Fixed values for converted genotyping-array calls. Array data carries no
// per-site quality, so every row gets the same QUAL and FILTER.
const (
	convertedQual   = "60"
	convertedFilter = "PASS"
	sourceTag       = "genolite raw-data converter"
)

// Writer serializes SNP records as a single-sample VCF 4.3 file.
type Writer struct {
	w          *bufio.Writer
	sampleName string
}

// NewWriter creates a VCF writer that emits one sample column with the
// given name.
func NewWriter(w io.Writer, sampleName string) *Writer {
	return &Writer{
		w:          bufio.NewWriter(w),
		sampleName: sampleName,
	}
}

// WriteHeader writes the fixed VCF meta-information block and the column
// header line.
func (w *Writer) WriteHeader() error {
	lines := []string{
		"##fileformat=VCFv4.3",
		"##fileDate=" + time.Now().UTC().Format("20060102"),
		"##source=" + sourceTag,
		"##reference=GRCh37",
		`##INFO=<ID=RS,Number=1,Type=String,Description="dbSNP RS identifier">`,
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t" + w.sampleName,
	}
	for _, line := range lines {
		if _, err := w.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every record, grouped by chromosome and sorted by
// position within each group. Records sharing a (chromosome, position) are
// deduplicated, keeping the first. Chromosome groups are ordered with
// numeric keys ascending and non-numeric keys (X, Y, MT) lexically after
// them; this is a compatibility choice, not the canonical VCF contig order.
func (w *Writer) WriteAll(snps []raw.SNP) error {
	byChrom := make(map[string][]raw.SNP)
	for _, snp := range snps {
		byChrom[snp.Chromosome] = append(byChrom[snp.Chromosome], snp)
	}

	chroms := make([]string, 0, len(byChrom))
	for c := range byChrom {
		chroms = append(chroms, c)
	}
	SortChromosomes(chroms)

	for _, chrom := range chroms {
		group := byChrom[chrom]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Position < group[j].Position
		})

		var lastPos uint64
		for i, snp := range group {
			if i > 0 && snp.Position == lastPos {
				continue
			}
			lastPos = snp.Position
			if err := w.writeRecord(snp); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeRecord writes one VCF data line.
func (w *Writer) writeRecord(snp raw.SNP) error {
	ref, alts := raw.EncodeGenotype(snp.Genotype)
	alt, gt := raw.ToVCFFields(ref, alts)

	id := snp.RSID
	info := "."
	if id == "" {
		id = "."
	} else {
		info = "RS=" + snp.RSID
	}

	var b strings.Builder
	b.Grow(64)
	b.WriteString(snp.Chromosome)
	b.WriteByte('\t')
	b.WriteString(strconv.FormatUint(snp.Position, 10))
	b.WriteByte('\t')
	b.WriteString(id)
	b.WriteByte('\t')
	b.WriteString(ref)
	b.WriteByte('\t')
	b.WriteString(alt)
	b.WriteByte('\t')
	b.WriteString(convertedQual)
	b.WriteByte('\t')
	b.WriteString(convertedFilter)
	b.WriteByte('\t')
	b.WriteString(info)
	b.WriteString("\tGT\t")
	b.WriteString(gt)
	b.WriteByte('\n')

	_, err := w.w.WriteString(b.String())
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// SortChromosomes orders chromosome keys numerically where both parse as
// integers, lexically where neither does, and numeric before non-numeric
// otherwise.
func SortChromosomes(chroms []string) {
	sort.Slice(chroms, func(i, j int) bool {
		ni, erri := strconv.Atoi(chroms[i])
		nj, errj := strconv.Atoi(chroms[j])
		switch {
		case erri == nil && errj == nil:
			return ni < nj
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return chroms[i] < chroms[j]
		}
	})
}

// WriteFile writes records to outputPath as a single-sample VCF. When
// compress is set the output is gzip-compressed with a parallel writer and
// ".gz" is appended to the path unless already present.
func WriteFile(outputPath, sampleName string, snps []raw.SNP, compress bool) (string, error) {
	if compress && !strings.HasSuffix(outputPath, ".gz") {
		outputPath += ".gz"
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	var out io.Writer = f
	var gz *pgzip.Writer
	if compress {
		gz = pgzip.NewWriter(f)
		out = gz
	}

	w := NewWriter(out, sampleName)
	err = w.WriteHeader()
	if err == nil {
		err = w.WriteAll(snps)
	}
	if err == nil {
		err = w.Flush()
	}
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if err != nil {
		f.Close()
		return "", fmt.Errorf("write vcf output: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	return outputPath, nil
}
