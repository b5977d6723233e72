package raw

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twentyThreeAndMeInput = `# This data file generated by 23andMe at: Mon Jan 01 00:00:00 2024
# rsid	chromosome	position	genotype
rsid	chromosome	position	genotype
rs1	1	100	AG
rs2	chr2	200	TT
rs3	0	300	CC
rs4	X	400	--
rs5	23	500	A/T
rs6	MT	600	G
`

func TestParser_23AndMe(t *testing.T) {
	p, err := NewParser(strings.NewReader(twentyThreeAndMeInput), Format23AndMe)
	require.NoError(t, err)

	var snps []SNP
	for {
		snp, err := p.Next()
		require.NoError(t, err)
		if snp == nil {
			break
		}
		snps = append(snps, *snp)
	}

	require.Len(t, snps, 4)
	assert.Equal(t, SNP{RSID: "rs1", Chromosome: "1", Position: 100, Genotype: "AG"}, snps[0])
	assert.Equal(t, SNP{RSID: "rs2", Chromosome: "2", Position: 200, Genotype: "TT"}, snps[1])
	assert.Equal(t, SNP{RSID: "rs5", Chromosome: "X", Position: 500, Genotype: "A/T"}, snps[2])
	assert.Equal(t, SNP{RSID: "rs6", Chromosome: "MT", Position: 600, Genotype: "G"}, snps[3])

	stats := p.Stats()
	assert.Equal(t, 6, stats.TotalRecords)
	assert.Equal(t, 4, stats.ValidRecords)
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "X": 1, "MT": 1}, stats.ChromosomeCounts)
}

func TestParser_AncestryDNA(t *testing.T) {
	input := `#AncestryDNA raw data download
rsid	chromosome	position	allele1	allele2
rs1	1	100	A	G
rs2	2	200	0	G
rs3	3	300	T	T
rs4	24	400	C	C
`
	snps, stats, err := ParseAll(strings.NewReader(input), FormatAncestryDNA)
	require.NoError(t, err)

	require.Len(t, snps, 3)
	assert.Equal(t, SNP{RSID: "rs1", Chromosome: "1", Position: 100, Genotype: "AG"}, snps[0])
	assert.Equal(t, SNP{RSID: "rs3", Chromosome: "3", Position: 300, Genotype: "TT"}, snps[1])
	assert.Equal(t, SNP{RSID: "rs4", Chromosome: "Y", Position: 400, Genotype: "CC"}, snps[2])

	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 3, stats.ValidRecords)
}

func TestParser_MyHeritage(t *testing.T) {
	input := `RSID,CHROMOSOME,POSITION,RESULT
"rs1","1","100","AG"
"rs2","2","200","--"
"rs3","X","300","TT"
`
	snps, _, err := ParseAll(strings.NewReader(input), FormatMyHeritage)
	require.NoError(t, err)

	require.Len(t, snps, 2)
	assert.Equal(t, SNP{RSID: "rs1", Chromosome: "1", Position: 100, Genotype: "AG"}, snps[0])
	assert.Equal(t, SNP{RSID: "rs3", Chromosome: "X", Position: 300, Genotype: "TT"}, snps[1])
}

// Quoted cells must be unquoted before chromosome normalization, or every
// non-numeric chromosome ("X", "Y", "MT") resolves to the "0" sentinel and
// the record is lost.
func TestParser_QuotedChromosomes(t *testing.T) {
	input := `RSID,CHROMOSOME,POSITION,RESULT
"rs1","X","100","AG"
"rs2","Y","200","TT"
"rs3","MT","300","CC"
"rs4","22","400","GG"
`
	snps, stats, err := ParseAll(strings.NewReader(input), FormatMyHeritage)
	require.NoError(t, err)

	require.Len(t, snps, 4)
	assert.Equal(t, "X", snps[0].Chromosome)
	assert.Equal(t, "Y", snps[1].Chromosome)
	assert.Equal(t, "MT", snps[2].Chromosome)
	assert.Equal(t, "22", snps[3].Chromosome)
	assert.Equal(t, 4, stats.ValidRecords)
}

func TestParser_MyHeritageTabDelimited(t *testing.T) {
	input := "RSID\tCHROMOSOME\tPOSITION\tRESULT\nrs1\t1\t100\tAG\n"
	snps, _, err := ParseAll(strings.NewReader(input), FormatMyHeritage)
	require.NoError(t, err)

	require.Len(t, snps, 1)
	assert.Equal(t, SNP{RSID: "rs1", Chromosome: "1", Position: 100, Genotype: "AG"}, snps[0])
}

func TestParser_FamilyTreeDNA(t *testing.T) {
	input := "rsid\tchromosome\tposition\tgenotype\nrs1\t7\t100\tCT\nrs2\t25\t200\tGG\n"
	snps, _, err := ParseAll(strings.NewReader(input), FormatFamilyTreeDNA)
	require.NoError(t, err)

	require.Len(t, snps, 2)
	assert.Equal(t, "7", snps[0].Chromosome)
	assert.Equal(t, "MT", snps[1].Chromosome)
}

func TestParser_GenericCSV(t *testing.T) {
	input := `marker,chrom,location,call
rs1,1,100,AG
rs2,12,200,TT
`
	snps, _, err := ParseAll(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)

	require.Len(t, snps, 2)
	assert.Equal(t, SNP{RSID: "rs1", Chromosome: "1", Position: 100, Genotype: "AG"}, snps[0])
	assert.Equal(t, SNP{RSID: "rs2", Chromosome: "12", Position: 200, Genotype: "TT"}, snps[1])
}

func TestParser_GenericTab(t *testing.T) {
	input := "snp\tchr\tpos\tgenotype\nrs1\t1\t100\tAG\n"
	snps, _, err := ParseAll(strings.NewReader(input), FormatTab)
	require.NoError(t, err)
	require.Len(t, snps, 1)
	assert.Equal(t, "rs1", snps[0].RSID)
}

// A generic file whose header names none of the expected columns cannot be
// parsed; the error names what is missing.
func TestParser_GenericMissingColumns(t *testing.T) {
	input := "foo,bar,baz,qux\n1,2,3,4\n"
	snps, _, err := ParseAll(strings.NewReader(input), FormatCSV)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, FormatCSV, formatErr.Format)
	assert.Equal(t, []string{"rsid", "chromosome", "position", "genotype"}, formatErr.Missing)
	assert.Empty(t, snps)
}

// Unknown format defaults to generic CSV handling.
func TestParser_UnknownFormatFallsBackToCSV(t *testing.T) {
	input := "rsid,chromosome,position,genotype\nrs1,1,100,AG\n"
	snps, stats, err := ParseAll(strings.NewReader(input), FormatUnknown)
	require.NoError(t, err)
	require.Len(t, snps, 1)
	assert.Equal(t, FormatCSV, stats.Format)
}

func TestParser_EmptyInput(t *testing.T) {
	snps, stats, err := ParseAll(strings.NewReader(""), Format23AndMe)
	require.NoError(t, err)
	assert.Empty(t, snps)
	assert.Equal(t, 0, stats.TotalRecords)
}

// The first content line is always consumed as the header.
func TestParser_HeaderConsumed(t *testing.T) {
	input := "rsid\tchromosome\tposition\tgenotype\nrs1\t1\t100\tAA\n"
	snps, _, err := ParseAll(strings.NewReader(input), Format23AndMe)
	require.NoError(t, err)
	require.Len(t, snps, 1)
	assert.Equal(t, "rs1", snps[0].RSID)
}

func TestParser_UnparseablePositionDefaultsToZero(t *testing.T) {
	input := "rsid\tchromosome\tposition\tgenotype\nrs1\t1\tnotanumber\tAA\n"
	snps, _, err := ParseAll(strings.NewReader(input), Format23AndMe)
	require.NoError(t, err)
	require.Len(t, snps, 1)
	assert.Equal(t, uint64(0), snps[0].Position)
}

func TestParser_ShortLineDropped(t *testing.T) {
	// A truncated line has no genotype column; the empty genotype rule
	// drops it without erroring.
	input := "rsid\tchromosome\tposition\tgenotype\nrs1\t1\n"
	snps, stats, err := ParseAll(strings.NewReader(input), Format23AndMe)
	require.NoError(t, err)
	assert.Empty(t, snps)
	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 0, stats.ValidRecords)
}

// Lines longer than the default bufio.Scanner limit must not abort the
// parse.
func TestParser_LongLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("rsid\tchromosome\tposition\tgenotype\n")
	b.WriteString("# ")
	b.WriteString(strings.Repeat("x", 128*1024))
	b.WriteString("\n")
	b.WriteString("rs1\t1\t100\tAA\n")

	snps, _, err := ParseAll(strings.NewReader(b.String()), Format23AndMe)
	require.NoError(t, err)
	require.Len(t, snps, 1)
	assert.Equal(t, "rs1", snps[0].RSID)
}

func TestStats_SuccessRate(t *testing.T) {
	s := newStats(Format23AndMe)
	assert.Equal(t, 0.0, s.SuccessRate())

	s.TotalRecords = 4
	s.keep("1")
	s.keep("1")
	s.keep("X")
	assert.InDelta(t, 0.75, s.SuccessRate(), 1e-9)
}

func TestParseAll_ErrorIsNotNilStats(t *testing.T) {
	_, stats, err := ParseAll(strings.NewReader("foo,bar\n"), FormatCSV)
	require.Error(t, err)
	require.NotNil(t, stats)

	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
}
