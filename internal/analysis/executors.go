package analysis

import (
	"fmt"
	"sort"

	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/dataset"

	"gonum.org/v1/gonum/stat"
)

// Fixed monetary thresholds matching the trigger phrases. The "$2 bn" and
// "$1.5 bn" questions are answered with these constants regardless of the
// number written in the question text.
const (
	CountGrossThreshold    = 2_000_000_000
	EarliestGrossThreshold = 1_500_000_000
)

// CountAboveThreshold counts films grossing strictly more than $2bn. An
// empty qualifying set yields 0, not an error.
func CountAboveThreshold(t *dataset.Table) (Answer, error) {
	n := 0
	for _, f := range t.Films {
		if f.Gross > CountGrossThreshold {
			n++
		}
	}
	return CountAnswer(n), nil
}

// EarliestAboveThreshold returns the title of the earliest-year film that
// grossed more than $1.5bn. Ties on year resolve to the film appearing
// first in the source table.
func EarliestAboveThreshold(t *dataset.Table) (Answer, error) {
	var qualifying []dataset.Film
	for _, f := range t.Films {
		if f.Gross > EarliestGrossThreshold {
			qualifying = append(qualifying, f)
		}
	}
	if len(qualifying) == 0 {
		return Answer{}, stderrors.NewNoQualifyingRowsError(fmt.Sprintf("no film grossed over $%d", EarliestGrossThreshold))
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Year < qualifying[j].Year
	})
	return TitleAnswer(qualifying[0].Title), nil
}

// Correlation computes the Pearson correlation coefficient between the Rank
// and Peak columns. Fewer than two rows or zero variance in either column
// is degenerate and reported as an error rather than NaN.
func Correlation(t *dataset.Table) (Answer, error) {
	ranks, peaks := rankPeakColumns(t)
	if msg, ok := degenerate(ranks, peaks); !ok {
		return Answer{}, stderrors.NewDegenerateCorrelationError(msg)
	}
	return CorrelationAnswer(stat.Correlation(ranks, peaks, nil)), nil
}

func rankPeakColumns(t *dataset.Table) (ranks, peaks []float64) {
	ranks = make([]float64, len(t.Films))
	peaks = make([]float64, len(t.Films))
	for i, f := range t.Films {
		ranks[i] = float64(f.Rank)
		peaks[i] = float64(f.Peak)
	}
	return ranks, peaks
}

// degenerate reports why a rank/peak column pair cannot support correlation
// or regression, with ok=false when it cannot.
func degenerate(ranks, peaks []float64) (msg string, ok bool) {
	if len(ranks) < 2 {
		return "fewer than two rows in normalized dataset", false
	}
	if stat.Variance(ranks, nil) == 0 {
		return "rank column has zero variance", false
	}
	if stat.Variance(peaks, nil) == 0 {
		return "peak column has zero variance", false
	}
	return "", true
}
