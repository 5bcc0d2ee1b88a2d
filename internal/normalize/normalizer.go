package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/a11yagg/internal/model"
)

// MaxLabelLength is the rune length at which fallback labels are truncated.
const MaxLabelLength = 80

// TruncationMarker is appended to truncated fallback labels.
const TruncationMarker = "…"

// ErrEmptyLabel is returned when a rule is defined without a label.
var ErrEmptyLabel = errors.New("normalization rule requires a label")

// Rule maps messages matching Pattern to Label.
type Rule struct {
	Pattern *regexp.Regexp
	Label   string
}

// NewRule compiles pattern case-insensitively into a Rule.
func NewRule(pattern, label string) (Rule, error) {
	if strings.TrimSpace(label) == "" {
		return Rule{}, fmt.Errorf("%w: pattern %q", ErrEmptyLabel, pattern)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Label: label}, nil
}

func mustRule(pattern, label string) Rule {
	r, err := NewRule(pattern, label)
	if err != nil {
		panic(err)
	}
	return r
}

// builtinRules reproduce the message templates of the upstream audit tool.
// Order is significant.
var builtinRules = []Rule{
	mustRule(`This button element does not have a name available.*`, model.LabelButtonName),
	mustRule(`This textinput element does not have a name available.*`, model.LabelTextInputName),
	mustRule(`This form field should be labelled in some way.*`, model.LabelFormLabel),
	mustRule(`This element has insufficient contrast.*Expected.*ratio of at least [\d.]+:1.*`, model.LabelContrast),
	mustRule(`Duplicate id attribute value.*found on the web page.*`, model.LabelDuplicateID),
	mustRule(`Iframe element requires a non-empty title attribute.*`, model.LabelIframeTitle),
	mustRule(`Presentational markup used that has become obsolete in HTML5.*`, model.LabelObsoleteHTML5),
	mustRule(`Img element.*missing alt text.*`, model.LabelImageAlt),
	mustRule(`.*link.*missing.*text.*`, model.LabelLinkText),
}

// Normalizer maps raw messages to canonical labels.
// A Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	rules []Rule
}

// New returns a Normalizer with the built-in rules followed by extra.
func New(extra ...Rule) *Normalizer {
	rules := make([]Rule, 0, len(builtinRules)+len(extra))
	rules = append(rules, builtinRules...)
	rules = append(rules, extra...)
	return &Normalizer{rules: rules}
}

// Normalize returns the canonical label for raw. The first matching rule wins;
// unmatched messages fall back to a truncated copy of themselves.
func (n *Normalizer) Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	for _, rule := range n.rules {
		if rule.Pattern.MatchString(text) {
			return rule.Label
		}
	}
	return Truncate(text)
}

// Truncate returns text unchanged when it is at most MaxLabelLength runes,
// otherwise its first MaxLabelLength runes followed by TruncationMarker.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxLabelLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxLabelLength]) + TruncationMarker
}
