package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
	"github.com/custodia-labs/notelink/internal/core/ports/driving"
	"github.com/custodia-labs/notelink/internal/core/scoring"
	"github.com/custodia-labs/notelink/internal/logger"
)

// Ensure LinkService implements the interface.
var _ driving.LinkService = (*LinkService)(nil)

// defaultRankWorkers bounds the per-candidate scoring parallelism.
const defaultRankWorkers = 8

// LinkService scores relationships between notes. Scoring itself is
// pure; this service loads the inputs, runs candidates in parallel, and
// sorts the results.
type LinkService struct {
	store   driven.NoteStore
	rules   scoring.TagRules
	workers int
}

// NewLinkService creates a link service over the given store using the
// given tag canonicalisation rules.
func NewLinkService(store driven.NoteStore, rules scoring.TagRules) *LinkService {
	return &LinkService{
		store:   store,
		rules:   rules,
		workers: defaultRankWorkers,
	}
}

// SetWorkers overrides the ranking worker count. Values below 1 are
// ignored.
func (s *LinkService) SetWorkers(n int) {
	if n >= 1 {
		s.workers = n
	}
}

// ScorePair scores one source/target pair and explains the result.
func (s *LinkService) ScorePair(
	ctx context.Context, sourceID, targetID string, opts domain.ScoreOptions,
) (*domain.LinkResult, error) {
	source, srcChunks, err := s.loadNote(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", sourceID, err)
	}
	target, tgtChunks, err := s.loadNote(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("load target %s: %w", targetID, err)
	}

	result := s.scorePair(source, srcChunks, target, tgtChunks, opts, nil)
	return &result, nil
}

// RankCandidates scores the source note against every other note and
// returns the results sorted by score descending. Candidates that fail
// to load are skipped with a warning; one bad candidate never aborts
// the batch.
func (s *LinkService) RankCandidates(
	ctx context.Context, sourceID string, opts domain.RankOptions,
) ([]domain.LinkResult, error) {
	logger.Section("Candidate Ranking")

	source, srcChunks, err := s.loadNote(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", sourceID, err)
	}

	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	candidates := make([]domain.Note, 0, len(notes))
	for i := range notes {
		if notes[i].ID != sourceID {
			candidates = append(candidates, notes[i])
		}
	}
	logger.Debug("Scoring %d candidates for %s", len(candidates), sourceID)

	idf := tagIDF(append(candidates, *source), s.rules)

	// Per-candidate scoring is embarrassingly parallel: no shared
	// mutable state, no ordering requirement until the final sort.
	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan domain.Note)
	resultCh := make(chan domain.LinkResult, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				chunks, err := s.store.GetChunks(ctx, cand.ID)
				if err != nil {
					logger.Warn("Skipping candidate %s: %v", cand.ID, err)
					continue
				}
				resultCh <- s.scorePair(source, srcChunks, &cand, chunks, opts.Score, idf)
			}
		}()
	}

	for i := range candidates {
		select {
		case jobs <- candidates[i]:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)

	// Reduction barrier: every candidate must finish before sorting.
	wg.Wait()
	close(resultCh)

	results := make([]domain.LinkResult, 0, len(candidates))
	for r := range resultCh {
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	results = filterByDecision(results, opts.MinDecision)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	logger.Info("Ranked %d results for %s", len(results), sourceID)
	return results, nil
}

// scorePair runs the full scoring pipeline for one loaded pair.
func (s *LinkService) scorePair(
	source *domain.Note, srcChunks []domain.Chunk,
	target *domain.Note, tgtChunks []domain.Chunk,
	opts domain.ScoreOptions, idf map[string]float64,
) domain.LinkResult {
	match := scoring.MatchChunks(
		chunkSet(source, srcChunks),
		chunkSet(target, tgtChunks),
		scoring.MatchOptions{MinSimilarity: opts.MinSimilarity, TopK: opts.TopK},
	)

	topCosines := make([]float64, 0, len(match.Matches))
	for _, m := range match.Matches {
		topCosines = append(topCosines, m.Similarity)
	}
	if len(topCosines) == 0 && match.BestSimilarity > 0 {
		topCosines = append(topCosines, match.BestSimilarity)
	}

	aggregate := scoring.AggregateMean
	if opts.MaxAggregate {
		aggregate = scoring.AggregateMax
	}

	features := scoring.ComputeFeatures(scoring.FeatureInput{
		TopCosines: topCosines,
		EntitiesA:  source.Entities,
		EntitiesB:  target.Entities,
		TagsA:      source.Tags,
		TagsB:      target.Tags,
		IDF:        idf,
		Structural: s.structuralSignals(source, target, opts),
		Aggregate:  aggregate,
		Rules:      s.rules,
	})

	score := scoring.FinalLinkScore(features)

	explain := scoring.BuildExplain(
		topCosines,
		scoring.BuildEntitySet(source.Entities),
		scoring.BuildEntitySet(target.Entities),
		s.rules.Apply(source.Tags),
		s.rules.Apply(target.Tags),
	)

	return domain.LinkResult{
		CandidateID: target.ID,
		Score:       score,
		Decision:    scoring.Classify(score),
		Features:    features,
		Explain:     explain,
		Matches:     match.Matches,
	}
}

// structuralSignals merges caller-supplied signals with the two cheap
// heuristics this layer can compute itself: a title mention in the
// other note's content, and both notes edited the same day.
func (s *LinkService) structuralSignals(
	source, target *domain.Note, opts domain.ScoreOptions,
) scoring.StructuralSignals {
	sig := scoring.StructuralSignals{
		Reference: opts.Reference,
		Temporal:  opts.Temporal,
		Session:   opts.Session,
	}

	if titleMentioned(source.Title, target.Content) || titleMentioned(target.Title, source.Content) {
		sig.Reference = math.Max(sig.Reference, 1)
	}

	if !source.UpdatedAt.IsZero() && !target.UpdatedAt.IsZero() {
		sy, sm, sd := source.UpdatedAt.Date()
		ty, tm, td := target.UpdatedAt.Date()
		if sy == ty && sm == tm && sd == td {
			sig.Temporal = math.Max(sig.Temporal, 1)
		}
	}

	return sig
}

// loadNote fetches a note and its chunks together.
func (s *LinkService) loadNote(ctx context.Context, id string) (*domain.Note, []domain.Chunk, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := s.store.GetChunks(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return note, chunks, nil
}

// chunkSet adapts a loaded note to the matcher's input shape.
func chunkSet(note *domain.Note, chunks []domain.Chunk) scoring.ChunkSet {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return scoring.ChunkSet{
		Vectors:    note.ChunkEmbeddings,
		Texts:      texts,
		NoteVector: note.Embedding,
	}
}

// titleMentioned reports whether a note title appears verbatim in the
// other note's content. Short titles are too ambiguous to count.
func titleMentioned(title, content string) bool {
	title = strings.TrimSpace(title)
	if len(title) < 4 {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(title))
}

// tagIDF derives inverse document frequencies for normalised tags over
// the corpus being ranked, so rare shared tags count for more than
// ubiquitous ones.
func tagIDF(notes []domain.Note, rules scoring.TagRules) map[string]float64 {
	df := make(map[string]int)
	for i := range notes {
		for _, tag := range rules.Apply(notes[i].Tags) {
			df[tag]++
		}
	}
	if len(df) == 0 {
		return nil
	}

	n := float64(len(notes))
	idf := make(map[string]float64, len(df))
	for tag, count := range df {
		idf[tag] = math.Log(1 + (n-float64(count)+0.5)/(float64(count)+0.5))
	}
	return idf
}

// filterByDecision drops results below the requested decision floor.
func filterByDecision(results []domain.LinkResult, min domain.LinkDecision) []domain.LinkResult {
	switch min {
	case domain.LinkHard:
		return keepDecisions(results, domain.LinkHard)
	case domain.LinkSoft:
		return keepDecisions(results, domain.LinkHard, domain.LinkSoft)
	default:
		return results
	}
}

func keepDecisions(results []domain.LinkResult, keep ...domain.LinkDecision) []domain.LinkResult {
	out := results[:0]
	for _, r := range results {
		for _, d := range keep {
			if r.Decision == d {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
