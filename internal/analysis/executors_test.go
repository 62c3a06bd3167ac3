package analysis

import (
	"testing"

	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filmsTable(films ...dataset.Film) *dataset.Table {
	return &dataset.Table{Films: films}
}

func TestCountAboveThreshold(t *testing.T) {
	base := filmsTable(
		dataset.Film{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
	)

	answer, err := CountAboveThreshold(base)
	require.NoError(t, err)
	require.Equal(t, AnswerCount, answer.Kind)
	assert.Equal(t, 1, answer.Count)
}

func TestCountAboveThreshold_Monotonic(t *testing.T) {
	table := filmsTable(dataset.Film{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1})
	before, err := CountAboveThreshold(table)
	require.NoError(t, err)

	// A row above the threshold increases the count by exactly 1.
	withAbove, err := CountAboveThreshold(filmsTable(append(table.Films, dataset.Film{Title: "C", Gross: 2.1e9, Year: 2021, Rank: 3, Peak: 2})...))
	require.NoError(t, err)
	assert.Equal(t, before.Count+1, withAbove.Count)

	// A row at or below the threshold leaves it unchanged.
	withAt, err := CountAboveThreshold(filmsTable(append(table.Films, dataset.Film{Title: "D", Gross: 2.0e9, Year: 2021, Rank: 4, Peak: 3})...))
	require.NoError(t, err)
	assert.Equal(t, before.Count, withAt.Count)
}

func TestCountAboveThreshold_EmptyIsZeroNotError(t *testing.T) {
	answer, err := CountAboveThreshold(filmsTable(
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
	))
	require.NoError(t, err)
	require.Equal(t, AnswerCount, answer.Kind)
	assert.Equal(t, 0, answer.Count)
}

func TestEarliestAboveThreshold(t *testing.T) {
	answer, err := EarliestAboveThreshold(filmsTable(
		dataset.Film{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
		dataset.Film{Title: "C", Gross: 1.6e9, Year: 2021, Rank: 3, Peak: 3},
	))
	require.NoError(t, err)
	require.Equal(t, AnswerTitle, answer.Kind)
	assert.Equal(t, "A", answer.Title)
}

func TestEarliestAboveThreshold_TieBreaksByRowOrder(t *testing.T) {
	answer, err := EarliestAboveThreshold(filmsTable(
		dataset.Film{Title: "First", Gross: 1.7e9, Year: 2010, Rank: 1, Peak: 1},
		dataset.Film{Title: "Second", Gross: 1.8e9, Year: 2010, Rank: 2, Peak: 2},
	))
	require.NoError(t, err)
	require.Equal(t, AnswerTitle, answer.Kind)
	assert.Equal(t, "First", answer.Title)
}

func TestEarliestAboveThreshold_NoQualifyingRows(t *testing.T) {
	_, err := EarliestAboveThreshold(filmsTable(
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
	))
	require.Error(t, err)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeNoQualifyingRows))
	assert.Contains(t, err.(*stderrors.StandardError).Details, "no film grossed over")
}

func TestCorrelation(t *testing.T) {
	answer, err := Correlation(filmsTable(
		dataset.Film{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
		dataset.Film{Title: "C", Gross: 1.6e9, Year: 2021, Rank: 3, Peak: 4},
	))
	require.NoError(t, err)
	require.Equal(t, AnswerCorrelation, answer.Kind)
	assert.GreaterOrEqual(t, answer.Coefficient, -1.0)
	assert.LessOrEqual(t, answer.Coefficient, 1.0)

	// Symmetric: corr(Rank, Peak) == corr(Peak, Rank).
	swapped, err := Correlation(filmsTable(
		dataset.Film{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
		dataset.Film{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 5, Peak: 2},
		dataset.Film{Title: "C", Gross: 1.6e9, Year: 2021, Rank: 4, Peak: 3},
	))
	require.NoError(t, err)
	assert.InDelta(t, answer.Coefficient, swapped.Coefficient, 1e-12)
}

func TestCorrelation_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		films []dataset.Film
	}{
		{
			name:  "single row",
			films: []dataset.Film{{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1}},
		},
		{
			name: "constant rank",
			films: []dataset.Film{
				{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
				{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 1, Peak: 5},
			},
		},
		{
			name: "constant peak",
			films: []dataset.Film{
				{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 2},
				{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 3, Peak: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Correlation(filmsTable(tt.films...))
			require.Error(t, err, "expected error, not NaN")
			assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeDegenerateCorrelation))
		})
	}
}
