package domain

import (
	"net/url"
	"path"
	"strings"
)

const (
	restbasePathSection  = "api/rest_v1/page/html"
	wikipediaPathSection = "wiki"
)

// NewPageResult starts the record for a page from its fetch metadata.
func NewPageResult(pageName string, fetched FetchedPage) PageResult {
	result := PageResult{
		PageName:    pageName,
		FetchResult: fetched.Result,
		StatusCode:  fetched.StatusCode,
		ProcessedAt: clock.Now().UTC(),
	}
	if fetched.Result != FetchPage {
		return result
	}

	result.ResponseURL = fetched.ResponseURL
	result.ContentLocationURL = fetched.ContentLocationURL
	canonical := fetched.ContentLocationURL
	if canonical == "" {
		canonical = fetched.ResponseURL
	}
	result.WikipediaURL = WikipediaURL(canonical)
	result.LocationName = LocationName(canonical)
	return result
}

// WithOutcome returns a copy of r carrying the classification outcome.
func (r PageResult) WithOutcome(o Outcome) PageResult {
	r.ParseResult = o.Result
	r.TableType = o.TableType
	r.TableHTML = o.TableHTML
	if o.Temperatures != nil {
		r.AverageHighC = o.Temperatures.HighC
		r.AverageLowC = o.Temperatures.LowC
		r.AverageHighF = o.Temperatures.HighF
		r.AverageLowF = o.Temperatures.LowF
		r.SunshineHours = o.Temperatures.Sunshine
	}
	return r
}

// ParsePage classifies the fetched HTML of a page and returns the completed
// record. Pages that were not fetched are returned unchanged.
func ParsePage(r PageResult, body string) PageResult {
	if r.FetchResult != FetchPage {
		return r
	}
	return r.WithOutcome(ParseHTML(body))
}

// WikipediaURL maps a REST API page URL to its human-readable article URL.
func WikipediaURL(restURL string) string {
	return strings.Replace(restURL, restbasePathSection, wikipediaPathSection, 1)
}

// LocationName derives a place name from a page URL, e.g.
// ".../Climate_of_the_Bahamas" becomes "The Bahamas".
func LocationName(pageURL string) string {
	title := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		title = path.Base(u.Path)
	} else if i := strings.LastIndex(pageURL, "/"); i >= 0 {
		title = pageURL[i+1:]
	}

	if strings.HasPrefix(title, "Climate_of") || strings.HasPrefix(title, "Geography_of") {
		if parts := strings.SplitN(title, "_", 3); len(parts) == 3 {
			name := strings.ReplaceAll(parts[2], "_", " ")
			if strings.HasPrefix(name, "the") {
				name = "The" + strings.TrimPrefix(name, "the")
			}
			return name
		}
	}
	return strings.ReplaceAll(title, "_", " ")
}
