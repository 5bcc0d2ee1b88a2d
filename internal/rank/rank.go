package rank

import (
	"sort"

	"github.com/nao1215/a11yagg/internal/model"
)

// View sizes used by the reports.
const (
	// TableSize is the number of issues in the summary table.
	TableSize = 10

	// ChartSize is the number of issues in the chart view.
	ChartSize = 15

	// RecommendationSize is the number of issues given remediation advice.
	RecommendationSize = 3

	// DetailSampleSize caps the sample messages in the detail view,
	// whatever the aggregation sample limit.
	DetailSampleSize = 3
)

// Rank builds the full priority table from aggregated stats.
func Rank(stats map[string]*model.IssueStats) []model.RankedIssue {
	issues := make([]model.RankedIssue, 0, len(stats))
	for label, s := range stats {
		issues = append(issues, model.RankedIssue{
			IssueType:        label,
			TotalOccurrences: s.OccurrenceCount,
			URLsAffected:     s.URLCount(),
			ImpactScore:      s.ImpactScore(),
		})
	}
	Sort(issues)
	return issues
}

// Sort orders issues in place by occurrences desc, impact desc, label asc.
func Sort(issues []model.RankedIssue) {
	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.TotalOccurrences != b.TotalOccurrences {
			return a.TotalOccurrences > b.TotalOccurrences
		}
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		return a.IssueType < b.IssueType
	})
}

// Top returns the first n ranked issues. A non-positive n, or one larger
// than the table, returns the whole table.
func Top(issues []model.RankedIssue, n int) []model.RankedIssue {
	if n <= 0 || n >= len(issues) {
		return issues
	}
	return issues[:n]
}

// Detail returns the on-demand view of label: every affected URL, the
// first DetailSampleSize distinct samples and the remediation steps.
// The second result is false when label was not produced by the aggregation.
func Detail(stats map[string]*model.IssueStats, label string, guidance model.GuidanceTable) (model.IssueDetail, bool) {
	s, ok := stats[label]
	if !ok {
		return model.IssueDetail{}, false
	}
	if guidance == nil {
		guidance = model.DefaultGuidance()
	}
	steps, _ := guidance.Lookup(label)

	return model.IssueDetail{
		Label:            label,
		TotalOccurrences: s.OccurrenceCount,
		URLs:             s.SortedURLs(),
		Samples:          append([]string(nil), s.Samples[:min(len(s.Samples), DetailSampleSize)]...),
		Guidance:         steps,
	}, true
}

// Recommendations pairs the top n issues with their guidance.
// Unlike Top, a non-positive n yields no recommendations.
func Recommendations(issues []model.RankedIssue, n int, guidance model.GuidanceTable) []model.Recommendation {
	if n <= 0 {
		return []model.Recommendation{}
	}
	if guidance == nil {
		guidance = model.DefaultGuidance()
	}
	top := Top(issues, n)
	recs := make([]model.Recommendation, 0, len(top))
	for _, issue := range top {
		steps, known := guidance.Lookup(issue.IssueType)
		recs = append(recs, model.Recommendation{
			Issue:    issue,
			Guidance: steps,
			Known:    known,
		})
	}
	return recs
}

// Categories counts classified records per category in display order.
// Every category is present, including those with a zero count.
func Categories(rows []model.BreakdownRow) []model.CategoryCount {
	counts := make(map[model.WCAGCategory]int, len(model.AllCategories))
	for _, row := range rows {
		counts[row.WCAGCategory]++
	}
	out := make([]model.CategoryCount, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		out = append(out, model.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}
