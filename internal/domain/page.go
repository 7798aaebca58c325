package domain

import "time"

// MonthsPerYear is the length of every successfully extracted series.
const MonthsPerYear = 12

// TableType tags the structural shape that produced a result.
type TableType string

const (
	TableRegular   TableType = "Regular"
	TableIrregular TableType = "Irregular"
	TableInfobox   TableType = "Infobox"
)

// ParseResult is the terminal classification of a page's HTML.
type ParseResult string

const (
	Parsed             ParseResult = "Parsed"
	ParseError         ParseResult = "ParseError"
	NoValidTablesFound ParseResult = "NoValidTablesFound"
)

// FetchResult records how the page fetch ended.
type FetchResult string

const (
	FetchPage   FetchResult = "Page"
	FetchError  FetchResult = "FetchError"
	StatusError FetchResult = "StatusError"
)

// Series holds one value per calendar month, January first.
type Series []float64

// Temperatures is the normalized content of a climate table.
type Temperatures struct {
	HighC    Series `json:"average_high_c"`
	LowC     Series `json:"average_low_c"`
	HighF    Series `json:"average_high_f"`
	LowF     Series `json:"average_low_f"`
	Sunshine Series `json:"sunshine_hours"` // nil when the table has no sunshine row
}

// Outcome is the result of classifying one document.
type Outcome struct {
	Result       ParseResult   `json:"parse_result"`
	TableType    TableType     `json:"temperature_table_type,omitempty"`
	Temperatures *Temperatures `json:"temperatures,omitempty"` // set only when Result is Parsed
	Reason       string        `json:"reason,omitempty"`       // set only when Result is ParseError
	TableHTML    string        `json:"table_html,omitempty"`   // raw table markup, Regular shape only
}

// FetchedPage is what the page-fetch collaborator hands back for one page.
type FetchedPage struct {
	Result             FetchResult
	StatusCode         int
	ResponseURL        string
	ContentLocationURL string
	HTML               string
}

// PageResult is the record stored for every page, whether or not it parsed.
type PageResult struct {
	PageName           string      `json:"page_name"`
	FetchResult        FetchResult `json:"fetch_result"`
	ResponseURL        string      `json:"response_url,omitempty"`
	StatusCode         int         `json:"status_code,omitempty"`
	ContentLocationURL string      `json:"content_location_url,omitempty"`
	WikipediaURL       string      `json:"wikipedia_url,omitempty"`
	LocationName       string      `json:"location_name,omitempty"`
	TableHTML          string      `json:"table_html,omitempty"`
	TableType          TableType   `json:"temperature_table_type,omitempty"`
	AverageHighC       Series      `json:"average_high_c"`
	AverageLowC        Series      `json:"average_low_c"`
	AverageHighF       Series      `json:"average_high_f"`
	AverageLowF        Series      `json:"average_low_f"`
	SunshineHours      Series      `json:"sunshine_hours"`
	ParseResult        ParseResult `json:"parse_result,omitempty"`
	ProcessedAt        time.Time   `json:"processed_at"`
}
