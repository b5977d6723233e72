package ancestry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genolite/genolite/internal/panel"
	"github.com/genolite/genolite/internal/vcf"
)

// testDataset builds a small dataset by hand: a query sample plus two
// reference samples per population, two populations per superpopulation
// where needed.
func testDataset() *Dataset {
	samples := []string{"QUERY", "EUR1", "EUR2", "EAS1", "EAS2"}
	variants := []vcf.Variant{
		{Chrom: "1", Pos: 100, Genotypes: []string{"0|1", "0|1", "0|0", "1|1", "1|1"}},
		{Chrom: "1", Pos: 200, Genotypes: []string{"0|0", "0|0", "0|0", "1|1", "0|1"}},
		{Chrom: "2", Pos: 300, Genotypes: []string{"1|1", "1|1", "0|1", "1|1", "0|0"}},
		{Chrom: "2", Pos: 400, Genotypes: []string{"0|1", "0|1", "0|1", "0|0", "0|0"}},
	}
	populations := map[string]*panel.Population{
		"GBR": {Code: "GBR", Ancestry: "EUR", Members: []string{"EUR1", "EUR2"}},
		"CHB": {Code: "CHB", Ancestry: "EAS", Members: []string{"EAS1", "EAS2"}},
	}
	return NewDataset(variants, samples, populations)
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	e := NewEstimator(testDataset())
	score, err := e.Similarity("QUERY", "QUERY")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestSimilarity(t *testing.T) {
	e := NewEstimator(testDataset())

	// QUERY and EUR1 agree at all four variants.
	score, err := e.Similarity("QUERY", "EUR1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	// QUERY and EUR2 agree at positions 200 and 400 only.
	score, err = e.Similarity("QUERY", "EUR2")
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)

	// Order of arguments does not matter.
	reversed, err := e.Similarity("EUR2", "QUERY")
	require.NoError(t, err)
	assert.Equal(t, score, reversed)
}

func TestSimilarity_UnknownSample(t *testing.T) {
	e := NewEstimator(testDataset())
	_, err := e.Similarity("QUERY", "NOPE")
	assert.ErrorIs(t, err, ErrSampleNotFound)
}

func TestSimilarity_NoVariants(t *testing.T) {
	d := NewDataset(nil, []string{"A", "B"}, nil)
	e := NewEstimator(d)
	score, err := e.Similarity("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestEstimateAncestry(t *testing.T) {
	e := NewEstimator(testDataset())
	scores, err := e.EstimateAncestry("QUERY")
	require.NoError(t, err)

	require.Len(t, scores, 2)
	// EUR members score (1.0 + 0.5) / 2; EAS members (0.25 + 0.0) / 2.
	assert.InDelta(t, 0.75, scores["EUR"], 1e-9)
	assert.InDelta(t, 0.125, scores["EAS"], 1e-9)
}

func TestEstimateAncestry_UnknownSample(t *testing.T) {
	e := NewEstimator(testDataset())
	_, err := e.EstimateAncestry("NOPE")
	assert.ErrorIs(t, err, ErrSampleNotFound)
}

func TestEstimateAncestry_MemberCap(t *testing.T) {
	e := NewEstimator(testDataset())
	e.SetMembersPerPopulation(1)

	scores, err := e.EstimateAncestry("QUERY")
	require.NoError(t, err)

	// Only the first member of each population is compared.
	assert.InDelta(t, 1.0, scores["EUR"], 1e-9)
	assert.InDelta(t, 0.25, scores["EAS"], 1e-9)
}

func TestSetMembersPerPopulation_IgnoresNonPositive(t *testing.T) {
	e := NewEstimator(testDataset())
	e.SetMembersPerPopulation(0)
	assert.Equal(t, DefaultMembersPerPopulation, e.membersPerPopulation)
	e.SetMembersPerPopulation(-3)
	assert.Equal(t, DefaultMembersPerPopulation, e.membersPerPopulation)
}

// Panel members missing from the VCF are skipped, not scored as zero.
func TestEstimateAncestry_AbsentMemberSkipped(t *testing.T) {
	d := testDataset()
	d.Populations["GBR"].Members = append([]string{"GHOST"}, d.Populations["GBR"].Members...)

	e := NewEstimator(d)
	scores, err := e.EstimateAncestry("QUERY")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, scores["EUR"], 1e-9)
}

// A superpopulation whose members are all absent contributes no entry.
func TestEstimateAncestry_EmptySuperpopulationOmitted(t *testing.T) {
	d := testDataset()
	d.Populations["YRI"] = &panel.Population{
		Code: "YRI", Ancestry: "AFR", Members: []string{"GHOST1", "GHOST2"},
	}

	e := NewEstimator(d)
	scores, err := e.EstimateAncestry("QUERY")
	require.NoError(t, err)
	_, ok := scores["AFR"]
	assert.False(t, ok)
	assert.Len(t, scores, 2)
}

// Scores must not depend on scheduling.
func TestEstimateAncestry_DeterministicAcrossWorkerCounts(t *testing.T) {
	base := NewEstimator(testDataset())
	want, err := base.EstimateAncestry("QUERY")
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 8} {
		e := NewEstimator(testDataset())
		e.SetWorkers(workers)
		for range 5 {
			got, err := e.EstimateAncestry("QUERY")
			require.NoError(t, err)
			assert.Equal(t, want, got, "workers=%d", workers)
		}
	}
}
