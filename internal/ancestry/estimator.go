package ancestry

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// DefaultMembersPerPopulation caps how many members of each population are
// compared against the query sample.
const DefaultMembersPerPopulation = 10

// ErrSampleNotFound is returned when a queried sample name does not appear
// in the dataset's VCF header. Callers should check HasSample first.
var ErrSampleNotFound = errors.New("sample not found in dataset")

// Estimator computes genotype similarity and per-superpopulation ancestry
// scores over a loaded dataset.
type Estimator struct {
	dataset              *Dataset
	membersPerPopulation int
	workers              int
	logger               *zap.Logger
}

// NewEstimator creates an estimator over the given dataset.
func NewEstimator(d *Dataset) *Estimator {
	return &Estimator{
		dataset:              d,
		membersPerPopulation: DefaultMembersPerPopulation,
		logger:               zap.NewNop(),
	}
}

// SetMembersPerPopulation overrides the per-population member cap.
// Values below 1 are ignored.
func (e *Estimator) SetMembersPerPopulation(n int) {
	if n >= 1 {
		e.membersPerPopulation = n
	}
}

// SetWorkers overrides the worker count for ancestry estimation.
// Zero means one worker per CPU.
func (e *Estimator) SetWorkers(n int) {
	e.workers = n
}

// SetLogger sets the logger for progress messages.
func (e *Estimator) SetLogger(logger *zap.Logger) {
	e.logger = logger
}

// Similarity returns the fraction of variants at which the two samples have
// exactly equal genotype fields, over the variants where both samples have
// a genotype column. Zero compared pairs yields 0 by convention.
func (e *Estimator) Similarity(sampleA, sampleB string) (float64, error) {
	idxA, ok := e.dataset.SampleIndex(sampleA)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSampleNotFound, sampleA)
	}
	idxB, ok := e.dataset.SampleIndex(sampleB)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSampleNotFound, sampleB)
	}
	return e.similarityByIndex(idxA, idxB), nil
}

// similarityByIndex compares two sample columns across all variants.
// Variants where either index is out of range of the genotype columns are
// skipped rather than misread.
func (e *Estimator) similarityByIndex(idxA, idxB int) float64 {
	matches, compared := 0, 0
	for i := range e.dataset.Variants {
		v := &e.dataset.Variants[i]
		gtA, okA := v.Genotype(idxA)
		gtB, okB := v.Genotype(idxB)
		if !okA || !okB {
			continue
		}
		if gtA == gtB {
			matches++
		}
		compared++
	}

	if compared == 0 {
		return 0
	}
	return float64(matches) / float64(compared)
}

// EstimateAncestry computes a similarity score per superpopulation for the
// given sample: the average similarity against up to the configured number
// of members of every population belonging to that superpopulation.
// Superpopulations with no comparable members are omitted from the result.
//
// Scores are computed in parallel across superpopulations, but each score
// accumulates sequentially over sorted population codes and member file
// order, so results are reproducible run to run.
func (e *Estimator) EstimateAncestry(sampleID string) (map[string]float64, error) {
	sampleIdx, ok := e.dataset.SampleIndex(sampleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSampleNotFound, sampleID)
	}

	superpops := e.superpopulations()

	scores := make(map[string]float64, len(superpops))
	e.parallelScores(sampleIdx, superpops, func(r scoreResult) {
		e.logger.Debug("superpopulation scored",
			zap.String("superpopulation", r.superpop),
			zap.Float64("score", r.score),
			zap.Int("comparisons", r.comparisons))
		if r.comparisons > 0 {
			scores[r.superpop] = r.score
		}
	})

	return scores, nil
}

// scoreSuperpopulation averages the query sample's similarity against up to
// membersPerPopulation members of every population in one superpopulation.
func (e *Estimator) scoreSuperpopulation(sampleIdx int, superpop string) scoreResult {
	total := 0.0
	count := 0

	for _, code := range e.populationCodes() {
		pop := e.dataset.Populations[code]
		if pop.Ancestry != superpop {
			continue
		}
		members := pop.Members
		if len(members) > e.membersPerPopulation {
			members = members[:e.membersPerPopulation]
		}
		for _, member := range members {
			memberIdx, ok := e.dataset.SampleIndex(member)
			if !ok {
				// Panel member absent from the VCF: contributes nothing.
				continue
			}
			total += e.similarityByIndex(sampleIdx, memberIdx)
			count++
		}
	}

	r := scoreResult{superpop: superpop, comparisons: count}
	if count > 0 {
		r.score = total / float64(count)
	}
	return r
}

// superpopulations returns the distinct superpopulation codes, sorted.
func (e *Estimator) superpopulations() []string {
	seen := make(map[string]bool)
	var superpops []string
	for _, pop := range e.dataset.Populations {
		if !seen[pop.Ancestry] {
			seen[pop.Ancestry] = true
			superpops = append(superpops, pop.Ancestry)
		}
	}
	sort.Strings(superpops)
	return superpops
}

// populationCodes returns all population codes, sorted. The fixed order
// keeps floating-point accumulation deterministic.
func (e *Estimator) populationCodes() []string {
	codes := make([]string, 0, len(e.dataset.Populations))
	for code := range e.dataset.Populations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
