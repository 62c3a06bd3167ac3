// Package dataset acquires the highest-grossing-films table from a scraped
// HTML source and normalizes it into a typed, validated form. Normalization
// is row-exclusion based: the source is untrusted scraped markup, so rows
// that fail conversion are dropped rather than failing the whole load.
package dataset

import (
	"regexp"
	"strconv"
	"strings"
)

// Film is one normalized row. All numeric fields are guaranteed valid.
type Film struct {
	Title string  `json:"title"`
	Gross float64 `json:"gross"`
	Year  int     `json:"year"`
	Rank  int     `json:"rank"`
	Peak  int     `json:"peak"`
}

// Table is the normalized dataset shared read-only by all executors. It is
// never mutated after construction.
type Table struct {
	Films []Film `json:"films"`

	// Dropped counts raw rows excluded during normalization.
	Dropped int `json:"dropped"`
}

// RawTable is the untyped table as scraped: a header row plus display-string
// cells, possibly carrying footnote markers and currency formatting.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Required source column headers.
const (
	colTitle = "title"
	colGross = "worldwide gross"
	colYear  = "year"
	colRank  = "rank"
	colPeak  = "peak"
)

// footnoteRe matches bracketed numeric footnote markers like "[12]".
var footnoteRe = regexp.MustCompile(`\[\d+\]`)

// Normalize converts a RawTable into a Table, dropping every row that fails
// conversion on any of gross, year, rank, or peak. The title column is taken
// verbatim. Returns the number of dropped rows on the Table.
func Normalize(raw *RawTable) (*Table, error) {
	idx, err := columnIndex(raw.Header)
	if err != nil {
		return nil, err
	}

	table := &Table{Films: make([]Film, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		film, ok := normalizeRow(row, idx)
		if !ok {
			table.Dropped++
			continue
		}
		table.Films = append(table.Films, film)
	}

	return table, nil
}

type columns struct {
	title, gross, year, rank, peak int
}

func columnIndex(header []string) (columns, error) {
	idx := columns{title: -1, gross: -1, year: -1, rank: -1, peak: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case colTitle:
			idx.title = i
		case colGross:
			idx.gross = i
		case colYear:
			idx.year = i
		case colRank:
			idx.rank = i
		case colPeak:
			idx.peak = i
		}
	}

	missing := []string{}
	if idx.title < 0 {
		missing = append(missing, "Title")
	}
	if idx.gross < 0 {
		missing = append(missing, "Worldwide gross")
	}
	if idx.year < 0 {
		missing = append(missing, "Year")
	}
	if idx.rank < 0 {
		missing = append(missing, "Rank")
	}
	if idx.peak < 0 {
		missing = append(missing, "Peak")
	}
	if len(missing) > 0 {
		return idx, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}

// MissingColumnsError reports required headers absent from the raw table.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

func normalizeRow(row []string, idx columns) (Film, bool) {
	max := idx.title
	for _, i := range []int{idx.gross, idx.year, idx.rank, idx.peak} {
		if i > max {
			max = i
		}
	}
	if len(row) <= max {
		return Film{}, false
	}

	gross, ok := parseGross(row[idx.gross])
	if !ok {
		return Film{}, false
	}

	year, ok := parseWholeNumber(row[idx.year])
	if !ok {
		return Film{}, false
	}
	rank, ok := parseWholeNumber(row[idx.rank])
	if !ok {
		return Film{}, false
	}
	peak, ok := parseWholeNumber(row[idx.peak])
	if !ok {
		return Film{}, false
	}

	return Film{
		Title: strings.TrimSpace(row[idx.title]),
		Gross: gross,
		Year:  year,
		Rank:  rank,
		Peak:  peak,
	}, true
}

// parseGross strips bracketed footnote markers, the currency symbol and
// thousands separators, then parses the remainder as a float. Negative
// values are rejected; gross is constrained to be non-negative.
func parseGross(s string) (float64, bool) {
	s = footnoteRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseWholeNumber accepts integer-valued cells, tolerating footnote markers
// and a trailing ".0" style decimal the way a lenient numeric coercion would.
func parseWholeNumber(s string) (int, bool) {
	s = footnoteRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
