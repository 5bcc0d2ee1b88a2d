package model

// GenericGuidance is shown for labels that have no entry in the table,
// which includes every fallback (truncated) label.
const GenericGuidance = "Review the original error messages for specific guidance."

// GuidanceTable maps canonical labels to ordered remediation steps.
type GuidanceTable map[string][]string

// defaultGuidance is the static remediation table.
//
// Design decision: Guidance is keyed by canonical label rather than stored on
// the normalization rules so that labels produced by user-defined rules can
// be given guidance from configuration without touching the rule list.
var defaultGuidance = GuidanceTable{
	LabelButtonName: {
		"Add aria-label, aria-labelledby, or visible text to buttons",
		"Use descriptive button text instead of just icons",
	},
	LabelTextInputName: {
		"Associate inputs with <label> elements",
		"Use aria-label or aria-labelledby attributes",
		"Ensure form labels are descriptive",
	},
	LabelContrast: {
		"Use darker colors for text",
		"Test with color contrast analyzers",
		"Ensure 4.5:1 ratio for normal text, 3:1 for large text",
	},
	LabelFormLabel: {
		`Use <label for="input-id"> elements`,
		"Add aria-label attributes",
		"Group related fields with fieldset/legend",
	},
	LabelDuplicateID: {
		"Ensure all IDs are unique on the page",
		"Use classes instead of IDs for styling",
		"Validate HTML for duplicate IDs",
	},
	LabelIframeTitle: {
		"Give every iframe a title attribute describing its content",
		"Hide purely decorative iframes from assistive technology",
	},
	LabelObsoleteHTML5: {
		"Replace presentational elements such as <center> and <font> with CSS",
		"Validate pages against the HTML5 specification",
	},
	LabelImageAlt: {
		"Add an alt attribute to every img element",
		`Use alt="" for decorative images`,
		"Describe the purpose of the image, not its appearance",
	},
	LabelLinkText: {
		"Give every link visible text or an aria-label",
		`Avoid generic link text such as "click here"`,
	},
}

// DefaultGuidance returns a copy of the built-in guidance table.
func DefaultGuidance() GuidanceTable {
	table := make(GuidanceTable, len(defaultGuidance))
	for label, steps := range defaultGuidance {
		table[label] = append([]string(nil), steps...)
	}
	return table
}

// With returns a new table with overrides applied on top of g.
// An override with no steps removes the entry.
func (g GuidanceTable) With(overrides map[string][]string) GuidanceTable {
	table := make(GuidanceTable, len(g)+len(overrides))
	for label, steps := range g {
		table[label] = steps
	}
	for label, steps := range overrides {
		if len(steps) == 0 {
			delete(table, label)
			continue
		}
		table[label] = append([]string(nil), steps...)
	}
	return table
}

// Lookup returns the steps for label and whether the label is known.
// Unknown labels get a single generic step.
func (g GuidanceTable) Lookup(label string) ([]string, bool) {
	if steps, ok := g[label]; ok {
		return steps, true
	}
	return []string{GenericGuidance}, false
}

// GetGuidance returns the built-in remediation steps for label.
func GetGuidance(label string) []string {
	steps, _ := defaultGuidance.Lookup(label)
	return append([]string(nil), steps...)
}
