package prediction

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// Fixed blend weights: empirical overlap evidence is weighted higher than
// model-inferred severity. These are part of the scoring contract.
const (
	overlapWeight  = 0.6
	severityWeight = 0.4
)

// Compile-time check to ensure Scorer implements Ranker
var _ interfaces.Ranker = (*Scorer)(nil)

// Scorer ranks drug combinations for an anchor drug over one immutable
// dataset snapshot. All inputs (index, vocabulary, model) are read-only, so
// candidates are scored concurrently; the final ordering is independent of
// worker scheduling.
type Scorer struct {
	index   *SideEffectIndex
	vocab   *entities.Vocabulary
	model   interfaces.SeverityModel
	workers int
}

// NewScorer builds a scorer over a dataset snapshot. workers limits the
// concurrent candidate evaluations; zero means GOMAXPROCS.
func NewScorer(ds *entities.Dataset, model interfaces.SeverityModel, workers int) (*Scorer, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}
	if model == nil {
		return nil, fmt.Errorf("nil severity model")
	}
	if ds.Vocabulary == nil || ds.Vocabulary.Size() == 0 {
		return nil, ErrEmptyVocabulary
	}
	if model.ClassCount() <= 0 {
		return nil, fmt.Errorf("severity model reports %d classes", model.ClassCount())
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Scorer{
		index:   NewSideEffectIndex(ds.Drugs),
		vocab:   ds.Vocabulary,
		model:   model,
		workers: workers,
	}, nil
}

// candidateOutcome holds the per-candidate result slot. Exactly one of
// result/failure is set.
type candidateOutcome struct {
	result  *entities.CombinationResult
	failure *entities.CandidateFailure
}

// Rank evaluates every known drug against the anchor and returns the full
// ordering, safest first. The anchor itself is excluded by exact name
// match. Per-candidate failures are reported in the ranking instead of
// aborting the sweep; an unknown anchor is fatal for the invocation.
func (s *Scorer) Rank(ctx context.Context, anchor string) (*entities.Ranking, error) {
	anchorSet, err := s.index.SideEffectsOf(anchor)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, s.index.Len())
	for _, name := range s.index.Names() {
		if name == anchor {
			continue
		}
		candidates = append(candidates, name)
	}

	outcomes := make([]candidateOutcome, len(candidates))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.scoreCandidate(anchorSet, candidates[i])
			}
		}()
	}

feed:
	for i := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking := &entities.Ranking{Anchor: anchor}
	for _, outcome := range outcomes {
		switch {
		case outcome.result != nil:
			ranking.Results = append(ranking.Results, *outcome.result)
		case outcome.failure != nil:
			ranking.Failures = append(ranking.Failures, *outcome.failure)
		}
	}

	// Ascending by combined score; the stable sort keeps candidates with
	// equal scores in enumeration order.
	sort.SliceStable(ranking.Results, func(i, j int) bool {
		return ranking.Results[i].CombinedScore < ranking.Results[j].CombinedScore
	})

	return ranking, nil
}

// scoreCandidate computes one CombinationResult. No shared mutable state:
// anchorSet, vocabulary and model are read-only.
func (s *Scorer) scoreCandidate(anchorSet map[string]struct{}, candidate string) candidateOutcome {
	candidateSet, err := s.index.SideEffectsOf(candidate)
	if err != nil {
		return candidateOutcome{failure: &entities.CandidateFailure{
			Drug:   candidate,
			Reason: err.Error(),
		}}
	}

	common := intersect(anchorSet, candidateSet)
	overlapRisk := OverlapRisk(len(common), len(anchorSet), len(candidateSet))

	vector := Vectorize(anchorSet, candidateSet, s.vocab)

	raw, err := s.model.Predict(vector)
	if err != nil {
		return candidateOutcome{failure: &entities.CandidateFailure{
			Drug:   candidate,
			Reason: fmt.Sprintf("severity inference failed: %v", err),
		}}
	}

	severity := clamp(raw/float64(s.model.ClassCount())*100, 0, 100)
	combined := overlapWeight*overlapRisk + severityWeight*severity

	return candidateOutcome{result: &entities.CombinationResult{
		Drug:              candidate,
		RiskScore:         overlapRisk,
		SeverityScore:     severity,
		CombinedScore:     combined,
		CommonSideEffects: common,
	}}
}

// OverlapRisk is the percentage of the pair's combined side-effect
// footprint that is shared. Defined as 0, not NaN, when both profiles are
// empty.
func OverlapRisk(common, sizeA, sizeB int) float64 {
	total := sizeA + sizeB
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total) * 100
}

// intersect returns the shared labels of two sets, sorted for a
// deterministic output.
func intersect(a, b map[string]struct{}) []string {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	common := make([]string, 0)
	for effect := range small {
		if _, ok := large[effect]; ok {
			common = append(common, effect)
		}
	}
	sort.Strings(common)
	return common
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
