// Package analysis holds the operation executors: pure functions over the
// normalized film table producing one tagged Answer each. Executors never
// mutate the table and convert every internal failure into an error Answer.
package analysis

import "encoding/json"

// AnswerKind tags the variant held by an Answer.
type AnswerKind int

const (
	AnswerError AnswerKind = iota
	AnswerCount
	AnswerTitle
	AnswerCorrelation
	AnswerImage
)

// Answer is one element of the pipeline's output sequence, index-aligned
// with its originating question. It serializes as the bare value so the
// response array carries ints, strings and floats directly.
type Answer struct {
	Kind        AnswerKind
	Count       int
	Title       string
	Coefficient float64
	ImageURI    string
	ErrorText   string
}

func CountAnswer(n int) Answer { return Answer{Kind: AnswerCount, Count: n} }

func TitleAnswer(t string) Answer { return Answer{Kind: AnswerTitle, Title: t} }

func CorrelationAnswer(c float64) Answer {
	return Answer{Kind: AnswerCorrelation, Coefficient: c}
}

func ImageAnswer(uri string) Answer { return Answer{Kind: AnswerImage, ImageURI: uri} }

func ErrorAnswer(text string) Answer { return Answer{Kind: AnswerError, ErrorText: text} }

// IsError reports whether the answer carries error text.
func (a Answer) IsError() bool { return a.Kind == AnswerError }

// Value returns the untyped payload used for serialization.
func (a Answer) Value() interface{} {
	switch a.Kind {
	case AnswerCount:
		return a.Count
	case AnswerTitle:
		return a.Title
	case AnswerCorrelation:
		return a.Coefficient
	case AnswerImage:
		return a.ImageURI
	default:
		return a.ErrorText
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}
