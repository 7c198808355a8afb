// Package retrieve implements hybrid retrieval over the knowledge
// base: vector and text searches run in parallel, scores are blended
// with a configurable weight, and results are re-ranked for diversity
// before being returned.
package retrieve

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/askdoc"
	"golang.org/x/sync/errgroup"
)

// overFetchFactor is how many candidates beyond the requested limit
// are pulled from each search leg so the diversity re-rank has room to
// swap results.
const overFetchFactor = 3

// Retriever answers queries against a knowledge base.
type Retriever struct {
	KB askdoc.KnowledgeBase

	// Logf receives notes about degraded searches. Optional.
	Logf func(format string, args ...any)
}

// candidate accumulates the per-leg scores for one chunk during a
// retrieval.
type candidate struct {
	chunk     *askdoc.Chunk
	vector    float64
	text      float64
	hasVector bool
	hasText   bool
	combined  float64
}

// Retrieve runs a single retrieval. The confidence threshold is a hard
// gate on raw vector similarity: chunks below it never appear in the
// results regardless of their text relevance. Given an unchanged
// knowledge base, identical calls return identical results.
//
// In hybrid mode the failure of one search leg degrades to the other;
// only both legs failing is an error. In vector or text mode the
// single leg's failure is fatal.
func (r *Retriever) Retrieve(ctx context.Context, query string, cfg askdoc.RetrievalConfig) ([]askdoc.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, askdoc.Errorf(askdoc.EINVALID, "query required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fetch := cfg.Limit * overFetchFactor

	var (
		vectorHits []askdoc.ScoredChunk
		textHits   []askdoc.ScoredChunk
		vectorErr  error
		textErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Mode == askdoc.ModeHybrid || cfg.Mode == askdoc.ModeVector {
		g.Go(func() error {
			vectorHits, vectorErr = r.KB.VectorSearch(gctx, query, cfg.ConfidenceThreshold, fetch)
			return nil
		})
	}
	if cfg.Mode == askdoc.ModeHybrid || cfg.Mode == askdoc.ModeText {
		g.Go(func() error {
			textHits, textErr = r.KB.TextSearch(gctx, query, fetch)
			return nil
		})
	}
	_ = g.Wait()

	switch cfg.Mode {
	case askdoc.ModeVector:
		if vectorErr != nil {
			return nil, vectorErr
		}
	case askdoc.ModeText:
		if textErr != nil {
			return nil, textErr
		}
	case askdoc.ModeHybrid:
		if vectorErr != nil && textErr != nil {
			return nil, askdoc.Errorf(askdoc.EUNAVAILABLE, "both searches failed: vector: %v; text: %v", vectorErr, textErr)
		}
		if vectorErr != nil && r.Logf != nil {
			r.Logf("vector search degraded: %v", vectorErr)
		}
		if textErr != nil && r.Logf != nil {
			r.Logf("text search degraded: %v", textErr)
		}
	}

	candidates := merge(vectorHits, textHits, cfg.ConfidenceThreshold)
	if len(candidates) == 0 {
		return nil, nil
	}

	normalize(candidates)
	combine(candidates, cfg)

	selected := mmrSelect(candidates, cfg.MMRStrength, cfg.Limit)

	results := make([]askdoc.RetrievalResult, len(selected))
	for i, c := range selected {
		results[i] = askdoc.RetrievalResult{
			Chunk:         c.chunk,
			VectorScore:   c.vector,
			TextScore:     c.text,
			CombinedScore: c.combined,
			Rank:          i + 1,
		}
	}
	return results, nil
}

// merge folds both hit lists into per-chunk candidates keyed by hash.
// The confidence gate is enforced here as well as in the store, so a
// lenient KnowledgeBase implementation cannot leak low-similarity
// chunks into the results.
func merge(vectorHits, textHits []askdoc.ScoredChunk, threshold float64) []*candidate {
	byHash := make(map[string]*candidate)
	order := make([]string, 0, len(vectorHits)+len(textHits))

	for _, hit := range vectorHits {
		if hit.Score < threshold {
			continue
		}
		c, ok := byHash[hit.Chunk.Hash]
		if !ok {
			c = &candidate{chunk: hit.Chunk}
			byHash[hit.Chunk.Hash] = c
			order = append(order, hit.Chunk.Hash)
		}
		c.vector = hit.Score
		c.hasVector = true
	}
	for _, hit := range textHits {
		c, ok := byHash[hit.Chunk.Hash]
		if !ok {
			c = &candidate{chunk: hit.Chunk}
			byHash[hit.Chunk.Hash] = c
			order = append(order, hit.Chunk.Hash)
		}
		c.text = hit.Score
		c.hasText = true
	}

	out := make([]*candidate, 0, len(order))
	for _, hash := range order {
		out = append(out, byHash[hash])
	}
	return out
}

// normalize rescales each score list to [0,1] with min-max
// normalization, computed over the candidates that have that score.
// A degenerate list where every score is equal normalizes to 1.
func normalize(candidates []*candidate) {
	normalizeBy(candidates,
		func(c *candidate) (float64, bool) { return c.vector, c.hasVector },
		func(c *candidate, v float64) { c.vector = v })
	normalizeBy(candidates,
		func(c *candidate) (float64, bool) { return c.text, c.hasText },
		func(c *candidate, v float64) { c.text = v })
}

func normalizeBy(candidates []*candidate, get func(*candidate) (float64, bool), set func(*candidate, float64)) {
	lo, hi := 0.0, 0.0
	found := false
	for _, c := range candidates {
		v, ok := get(c)
		if !ok {
			continue
		}
		if !found || v < lo {
			lo = v
		}
		if !found || v > hi {
			hi = v
		}
		found = true
	}
	if !found {
		return
	}
	for _, c := range candidates {
		v, ok := get(c)
		if !ok {
			continue
		}
		if hi == lo {
			set(c, 1)
		} else {
			set(c, (v-lo)/(hi-lo))
		}
	}
}

// combine computes the blended score. A chunk found by only one leg
// scores 0 on the other, which naturally demotes single-leg hits in
// hybrid mode.
func combine(candidates []*candidate, cfg askdoc.RetrievalConfig) {
	alpha := cfg.Alpha
	switch cfg.Mode {
	case askdoc.ModeVector:
		alpha = 1
	case askdoc.ModeText:
		alpha = 0
	}
	// Out-of-range alphas are rejected by Validate; the clamp guards
	// internal callers that bypass it.
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	for _, c := range candidates {
		c.combined = alpha*c.vector + (1-alpha)*c.text
	}
}

// mmrSelect picks up to limit candidates by maximal marginal
// relevance: each round selects the candidate maximizing
//
//	strength*combined - (1-strength)*maxSimilarityToSelected
//
// Strength 1 reduces to plain relevance ranking. Ties break by
// combined score descending, then chunk hash ascending, so selection
// is deterministic.
func mmrSelect(candidates []*candidate, strength float64, limit int) []*candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].combined != candidates[j].combined {
			return candidates[i].combined > candidates[j].combined
		}
		return candidates[i].chunk.Hash < candidates[j].chunk.Hash
	})

	if len(candidates) <= 1 || strength == 1 {
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		return candidates
	}

	tokens := make([]map[string]struct{}, len(candidates))
	for i, c := range candidates {
		tokens[i] = tokenSet(c.chunk.Text)
	}

	selected := make([]*candidate, 0, limit)
	selectedTokens := make([]map[string]struct{}, 0, limit)
	remaining := make([]int, len(candidates))
	for i := range remaining {
		remaining[i] = i
	}

	for len(selected) < limit && len(remaining) > 0 {
		best := -1
		bestScore := 0.0
		for _, idx := range remaining {
			c := candidates[idx]
			maxSim := 0.0
			for _, st := range selectedTokens {
				if sim := jaccard(tokens[idx], st); sim > maxSim {
					maxSim = sim
				}
			}
			score := strength*c.combined - (1-strength)*maxSim
			// Remaining indices are in (combined desc, hash asc) order,
			// so strict comparison keeps ties deterministic.
			if best == -1 || score > bestScore {
				best = idx
				bestScore = score
			}
		}

		selected = append(selected, candidates[best])
		selectedTokens = append(selectedTokens, tokens[best])
		for i, idx := range remaining {
			if idx == best {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return selected
}

// tokenSet lowercases and splits text into its unique tokens.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(tok, ".,;:!?()[]{}\"'`")] = struct{}{}
	}
	delete(set, "")
	return set
}

// jaccard returns the token-overlap similarity of two sets in [0,1].
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	intersection := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
