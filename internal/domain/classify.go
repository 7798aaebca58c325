package domain

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Classifier decides which table shape holds a page's climate data and
// extracts it. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	patterns *Patterns
}

// NewClassifier creates a Classifier. A nil patterns uses the package's
// shared set.
func NewClassifier(patterns *Patterns) *Classifier {
	if patterns == nil {
		patterns = defaultPatterns
	}
	return &Classifier{patterns: patterns}
}

// Classify tries the Regular, Irregular and Infobox shapes in that order.
// The first structural match decides the outcome, even when its content
// then fails to parse.
func (c *Classifier) Classify(doc *goquery.Document) Outcome {
	p := c.patterns

	if m, ok := p.matchRegular(doc); ok {
		out := outcome(TableRegular)(p.extractTableData(m.hasSunshine, m.table))
		out.TableHTML = m.html
		return out
	}
	if m, ok := p.matchIrregular(doc); ok {
		return outcome(TableIrregular)(p.extractTableData(m.hasSunshine, m.table))
	}
	if m, ok := matchInfobox(doc); ok {
		return outcome(TableInfobox)(p.extractInfoboxData(m))
	}
	return Outcome{Result: NoValidTablesFound}
}

// ClassifyReader parses HTML from r and classifies it.
func (c *Classifier) ClassifyReader(r io.Reader) (Outcome, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Outcome{}, err
	}
	return c.Classify(doc), nil
}

func outcome(tableType TableType) func(Temperatures, error) Outcome {
	return func(temps Temperatures, err error) Outcome {
		if err != nil {
			return Outcome{Result: ParseError, TableType: tableType, Reason: err.Error()}
		}
		return Outcome{Result: Parsed, TableType: tableType, Temperatures: &temps}
	}
}

// ParseHTML classifies an HTML string with the shared patterns.
func ParseHTML(body string) Outcome {
	out, err := NewClassifier(nil).ClassifyReader(strings.NewReader(body))
	if err != nil {
		// A strings.Reader never fails, so the HTML parser cannot either.
		return Outcome{Result: NoValidTablesFound}
	}
	return out
}
