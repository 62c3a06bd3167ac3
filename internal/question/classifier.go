// Package question maps free-text questions to supported analytical
// operations via ordered substring rules over lower-cased text.
package question

import "strings"

// Kind identifies one supported analytical operation.
type Kind int

const (
	Unrecognized Kind = iota
	CountAboveThreshold
	EarliestAboveThreshold
	Correlation
	RegressionPlot
)

func (k Kind) String() string {
	switch k {
	case CountAboveThreshold:
		return "count-above-threshold"
	case EarliestAboveThreshold:
		return "earliest-above-threshold"
	case Correlation:
		return "correlation"
	case RegressionPlot:
		return "regression-plot"
	default:
		return "unrecognized"
	}
}

type rule struct {
	trigger string
	kind    Kind
}

// rules is the priority-ordered trigger list; the first matching rule wins.
// The monetary thresholds named in the triggers are answered with fixed
// constants (see analysis package), not parsed from the question text.
var rules = []rule{
	{"how many $2 bn movies", CountAboveThreshold},
	{"earliest film that grossed over $1.5 bn", EarliestAboveThreshold},
	{"correlation between rank and peak", Correlation},
	{"draw a scatterplot", RegressionPlot},
}

// Classify returns the operation kind for a question, or Unrecognized when
// no trigger matches. Matching is case-insensitive substring containment.
func Classify(q string) Kind {
	lowered := strings.ToLower(strings.TrimSpace(q))
	for _, r := range rules {
		if strings.Contains(lowered, r.trigger) {
			return r.kind
		}
	}
	return Unrecognized
}
