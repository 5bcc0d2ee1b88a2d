package aggregate

import (
	"context"

	"github.com/nao1215/a11yagg/internal/model"
	"github.com/nao1215/a11yagg/internal/normalize"
	"golang.org/x/sync/errgroup"
)

// DefaultSampleLimit is the number of distinct raw messages kept per issue.
const DefaultSampleLimit = 3

// Aggregator accumulates IssueStats keyed by canonical label.
// It is not safe for concurrent use; use Sharded for parallel folds.
type Aggregator struct {
	normalizer  *normalize.Normalizer
	sampleLimit int
	stats       map[string]*model.IssueStats
}

// New creates an Aggregator. A nil normalizer uses the built-in rules and a
// non-positive sampleLimit uses DefaultSampleLimit.
func New(n *normalize.Normalizer, sampleLimit int) *Aggregator {
	if n == nil {
		n = normalize.New()
	}
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Aggregator{
		normalizer:  n,
		sampleLimit: sampleLimit,
		stats:       make(map[string]*model.IssueStats),
	}
}

// Add folds one record and returns the label it normalized to.
func (a *Aggregator) Add(rec model.RawErrorRecord) string {
	label := a.normalizer.Normalize(rec.RawText)

	s, ok := a.stats[label]
	if !ok {
		s = model.NewIssueStats(label)
		a.stats[label] = s
	}
	s.OccurrenceCount++
	s.AffectedURLs[rec.SourceURL] = struct{}{}
	if len(s.Samples) < a.sampleLimit && !s.HasSample(rec.RawText) {
		s.Samples = append(s.Samples, rec.RawText)
	}
	return label
}

// AddAll folds records in order.
func (a *Aggregator) AddAll(recs []model.RawErrorRecord) {
	for _, rec := range recs {
		a.Add(rec)
	}
}

// Result hands the accumulated map to the caller. The Aggregator starts
// empty again afterwards, so the returned map is never mutated by it.
func (a *Aggregator) Result() map[string]*model.IssueStats {
	out := a.stats
	a.stats = make(map[string]*model.IssueStats)
	return out
}

// Aggregate is a convenience wrapper folding recs with a fresh Aggregator.
func Aggregate(n *normalize.Normalizer, recs []model.RawErrorRecord, sampleLimit int) map[string]*model.IssueStats {
	a := New(n, sampleLimit)
	a.AddAll(recs)
	return a.Result()
}

// Merge combines partial results. Counts add, URL sets union and samples are
// concatenated in argument order without duplicates up to sampleLimit.
// The inputs are not modified.
func Merge(sampleLimit int, parts ...map[string]*model.IssueStats) map[string]*model.IssueStats {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	merged := make(map[string]*model.IssueStats)
	for _, part := range parts {
		for label, src := range part {
			dst, ok := merged[label]
			if !ok {
				dst = model.NewIssueStats(label)
				merged[label] = dst
			}
			dst.OccurrenceCount += src.OccurrenceCount
			for u := range src.AffectedURLs {
				dst.AffectedURLs[u] = struct{}{}
			}
			for _, sample := range src.Samples {
				if len(dst.Samples) >= sampleLimit {
					break
				}
				if !dst.HasSample(sample) {
					dst.Samples = append(dst.Samples, sample)
				}
			}
		}
	}
	return merged
}

// Sharded folds recs across up to shards goroutines and merges the partial
// results. The result equals a sequential fold over the same records.
func Sharded(ctx context.Context, n *normalize.Normalizer, recs []model.RawErrorRecord, shards, sampleLimit int) (map[string]*model.IssueStats, error) {
	if shards <= 1 || len(recs) < shards {
		return Aggregate(n, recs, sampleLimit), nil
	}
	if n == nil {
		n = normalize.New()
	}

	chunk := (len(recs) + shards - 1) / shards
	parts := make([]map[string]*model.IssueStats, shards)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		start := i * chunk
		end := min(start+chunk, len(recs))
		if start >= end {
			parts[i] = map[string]*model.IssueStats{}
			continue
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			parts[i] = Aggregate(n, recs[start:end], sampleLimit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(sampleLimit, parts...), nil
}
