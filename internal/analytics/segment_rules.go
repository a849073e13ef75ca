package analytics

import (
	"fmt"
)

// SegmentRule maps a rectangle of R/F scores onto a segment label.
// Bounds are inclusive and run 1..5. Rules are evaluated in order;
// the first match wins.
type SegmentRule struct {
	Label string `json:"label" yaml:"label"`
	MinR  int    `json:"min_r" yaml:"min_r"`
	MaxR  int    `json:"max_r" yaml:"max_r"`
	MinF  int    `json:"min_f" yaml:"min_f"`
	MaxF  int    `json:"max_f" yaml:"max_f"`
}

// Matches reports whether the given R/F scores fall inside the rule.
func (r SegmentRule) Matches(rScore, fScore int) bool {
	return rScore >= r.MinR && rScore <= r.MaxR && fScore >= r.MinF && fScore <= r.MaxF
}

// RegularLabel is the fallback segment when no rule matches.
const RegularLabel = "Regular"

// Scheme names accepted by RulesForScheme and the API layer.
const (
	SchemeBasic    = "basic"
	SchemeExtended = "extended"
)

// BasicSegmentRules is the default 3-tier scheme: recent frequent buyers
// are Champions, lapsed frequent buyers are At Risk, everyone else is
// Regular.
var BasicSegmentRules = []SegmentRule{
	{Label: "Champions", MinR: 4, MaxR: 5, MinF: 4, MaxF: 5},
	{Label: "At Risk", MinR: 1, MaxR: 2, MinF: 4, MaxF: 5},
}

// ExtendedSegmentRules is the 5-tier scheme with intermediate loyalty
// tiers between Champions and Regular.
var ExtendedSegmentRules = []SegmentRule{
	{Label: "Champions", MinR: 4, MaxR: 5, MinF: 4, MaxF: 5},
	{Label: "Loyalists", MinR: 3, MaxR: 5, MinF: 3, MaxF: 5},
	{Label: "At Risk", MinR: 1, MaxR: 2, MinF: 4, MaxF: 5},
	{Label: "Hibernating", MinR: 1, MaxR: 1, MinF: 1, MaxF: 5},
}

// RulesForScheme returns the rule table for a named scheme.
func RulesForScheme(scheme string) ([]SegmentRule, error) {
	switch scheme {
	case "", SchemeBasic:
		return BasicSegmentRules, nil
	case SchemeExtended:
		return ExtendedSegmentRules, nil
	default:
		return nil, fmt.Errorf("unknown segment scheme %q (want %q or %q)", scheme, SchemeBasic, SchemeExtended)
	}
}

// segmentFor resolves the label for an R/F score pair against a rule
// table, falling back to RegularLabel.
func segmentFor(rules []SegmentRule, rScore, fScore int) string {
	for _, rule := range rules {
		if rule.Matches(rScore, fScore) {
			return rule.Label
		}
	}
	return RegularLabel
}
