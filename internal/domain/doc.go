// Package domain models Wikipedia climate tables and the monthly figures
// extracted from them.
//
// # Data Source
//
// Pages are fetched as server-rendered HTML from the Wikipedia REST API
// (https://en.wikipedia.org/api/rest_v1/page/html/<Title>). Climate data lives
// in tables that are not produced by one template; three shapes are
// recognized, tried in this order by [Classifier.Classify]:
//
//	Regular ("table.wikitable"):
//	  header row with the cells "Month", "Jan" ... "Dec" (usually "Year")
//	  "Average high °C (°F)" row and "Average low °C (°F)" row
//	  values either as one cell per unit ("5.0", "(41.0)") or as one cell
//	  per month ("5 (41)")
//	  optional "Mean monthly sunshine hours" row
//
//	Irregular ("table.wikitable"):
//	  header row with the cells "Average", "Jan" ... "Dec"
//	  sunshine may live in a separate wikitable; its row is appended
//
//	Infobox (".infobox"):
//	  row of month initials "J F M A M J J A S O N D"
//	  each infobox yields three fragments; fragment 1 holds the visible
//	  units and fragment 2 the converted units, 36 tokens per row as
//	  (precipitation, high, low) triples
//
// # Unit Conventions
//
// Label text decides which value stream is Celsius. A parenthesized
// Fahrenheit marker ("°C (°F)") means the bare values are Celsius and the
// parenthesized values Fahrenheit; anything else ("°F (°C)") is the inverse.
// Infobox fragments use an "Imperial conversion" label on the hidden
// fragment when the visible fragment is metric.
//
// Negative values are often written with U+2212 MINUS SIGN, which
// [ParseNumber] maps to an ASCII hyphen.
//
// # Sunshine
//
// Sunshine rows are either monthly totals or daily averages ("Mean daily
// sunshine hours"). Daily values are converted with a days-per-month table
// that uses 28.25 for February to account for leap years.
//
// # Outcomes
//
// Every page yields exactly one [Outcome]: Parsed, ParseError (a shape was
// recognized but its content failed validation) or NoValidTablesFound. The
// first shape that matches structurally decides the outcome; later shapes
// are never consulted as a fallback.
package domain
