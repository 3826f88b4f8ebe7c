package input

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gocolly/colly/v2"
)

var SourceHTMLTable = "HTMLTable"

// HTMLTableSource reads requests from the rows of an HTML table, either a
// saved page on disk or a page served over http(s).
type HTMLTableSource struct {
	location string
	selector string
}

func NewHTMLTableSource(location string) *HTMLTableSource {
	return &HTMLTableSource{
		location: location,
		selector: "table tr",
	}
}

// WithSelector restricts the rows read to the ones matching selector.
func (s *HTMLTableSource) WithSelector(selector string) *HTMLTableSource {
	s.selector = selector
	return s
}

func (s *HTMLTableSource) Load(ctx context.Context) (*Batch, error) {
	target, err := s.url()
	if err != nil {
		return nil, err
	}

	x := colly.NewCollector()

	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	x.WithTransport(t)

	x.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	batch := NewBatch(SourceHTMLTable)
	n := 0
	parsed := 0

	x.OnHTML(s.selector, func(e *colly.HTMLElement) {
		var row []string
		e.ForEach("td", func(_ int, el *colly.HTMLElement) {
			row = append(row, strings.TrimSpace(el.Text))
		})

		// rows of th cells are headers
		if len(row) == 0 {
			return
		}

		cr, err := parseRow(n, row)
		n++
		if err == nil {
			batch.AddRequest(cr)
			parsed++
		}
	})

	if err := x.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.location, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if parsed == 0 {
		return nil, ErrDataUnavailable
	}

	return batch, nil
}

func (s *HTMLTableSource) Source() string {
	return SourceHTMLTable
}

func (s *HTMLTableSource) url() (string, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		return s.location, nil
	}

	path, err := filepath.Abs(s.location)
	if err != nil {
		return "", err
	}

	return "file://" + filepath.ToSlash(path), nil
}
