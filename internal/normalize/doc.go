// Package normalize maps raw audit messages to canonical issue labels and to
// WCAG principle buckets.
//
// Both mappings are ordered rule chains evaluated with first-match-wins:
//
//   - Normalizer holds an ordered list of (pattern, label) rules. Patterns are
//     case-insensitive regular expressions matched anywhere in the trimmed
//     message. When no rule matches, the message itself becomes the label,
//     truncated to 80 characters with a trailing "…".
//   - Classify walks an ordered list of keyword buckets over the lower-cased
//     message and falls through to CategoryOther.
//
// Design decision: Rules are slices, not maps. Several patterns overlap (the
// link rule would match many button messages), so declaration order is the
// tie-break and must be preserved. User-supplied rules are appended after the
// built-in ones for the same reason: they extend the catalog without being
// able to change how known messages are labelled.
//
// Both functions are total over any string input and hold no mutable state.
package normalize
