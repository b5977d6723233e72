package ancestry

import (
	"runtime"
	"sync"
)

// scoreItem is one superpopulation queued for scoring.
type scoreItem struct {
	seq      int
	superpop string
}

// scoreResult is the score for one superpopulation.
type scoreResult struct {
	seq         int
	superpop    string
	score       float64
	comparisons int
}

// parallelScores scores superpopulations using a pool of workers and calls
// fn for each result in sequence order, so aggregation and logging are
// deterministic regardless of worker scheduling.
func (e *Estimator) parallelScores(sampleIdx int, superpops []string, fn func(scoreResult)) {
	workers := e.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(superpops) && len(superpops) > 0 {
		workers = len(superpops)
	}

	items := make(chan scoreItem, len(superpops))
	for i, sp := range superpops {
		items <- scoreItem{seq: i, superpop: sp}
	}
	close(items)

	results := make(chan scoreResult, len(superpops))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := e.scoreSuperpopulation(sampleIdx, item.superpop)
				r.seq = item.seq
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Emit in sequence order, buffering out-of-order results.
	pending := make(map[int]scoreResult)
	nextSeq := 0
	for r := range results {
		pending[r.seq] = r
		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			fn(rr)
		}
	}
}
