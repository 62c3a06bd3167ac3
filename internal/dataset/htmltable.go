package dataset

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable is returned when the fetched document contains no <table>.
var ErrNoTable = errors.New("no table element found in document")

// ExtractFirstTable parses HTML from r and returns the first <table> element
// as a RawTable. The first row supplies the header; every later row becomes
// a data row of display strings.
func ExtractFirstTable(r io.Reader) (*RawTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, ErrNoTable
	}

	var rows [][]string
	walkRows(table, func(tr *html.Node) {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, collapseSpace(textContent(c)))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	if len(rows) < 2 {
		return nil, ErrNoTable
	}

	return &RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walkRows visits every <tr> under n, skipping any nested <table>.
func walkRows(n *html.Node, visit func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "table":
				continue
			case "tr":
				visit(c)
				continue
			}
		}
		walkRows(c, visit)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
