package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/spf13/cobra"
)

// conversionTolerance allows for both published values being rounded.
const conversionTolerance = 1.5

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate RESULTS_FILE",
		Short: "Check a JSON-lines results file for integrity",
		Long: "validate reads results written through RESULTS_FILE and verifies record\n" +
			"shape, series lengths, unit conversions and page uniqueness.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := loadResults(args[0])
			if err != nil {
				return fmt.Errorf("load results: %w", err)
			}
			return report(cmd.OutOrStdout(), results, []*phase{
				validateShape(results),
				validateSeriesLengths(results),
				validateConversions(results),
				validateUniquePages(results),
			})
		},
	}
}

type numberedResult struct {
	line int
	domain.PageResult
}

func loadResults(path string) ([]numberedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []numberedResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r domain.PageResult
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, numberedResult{line: line, PageResult: r})
	}
	return results, scanner.Err()
}

func report(w io.Writer, results []numberedResult, phases []*phase) error {
	fmt.Fprintln(w, "=== Climate Result Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	counts := map[string]int{}
	for _, r := range results {
		key := string(r.FetchResult)
		if r.FetchResult == domain.FetchPage {
			key = string(r.ParseResult)
		}
		counts[key]++
	}
	fmt.Fprintf(w, "\nRecords: %d (%d parsed, %d parse errors, %d without tables, %d fetch errors, %d status errors)\n",
		len(results), counts[string(domain.Parsed)], counts[string(domain.ParseError)],
		counts[string(domain.NoValidTablesFound)], counts[string(domain.FetchError)], counts[string(domain.StatusError)])

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return errValidationFailed
}

func validateShape(results []numberedResult) *phase {
	p := &phase{name: "Record shape"}
	for _, r := range results {
		if r.PageName == "" {
			p.errorf("line %d: empty page_name", r.line)
		}
		switch r.FetchResult {
		case domain.FetchPage:
			switch r.ParseResult {
			case domain.Parsed, domain.ParseError:
				if r.TableType == "" {
					p.errorf("line %d (%s): %s without temperature_table_type", r.line, r.PageName, r.ParseResult)
				}
			case domain.NoValidTablesFound:
			default:
				p.errorf("line %d (%s): unknown parse_result %q", r.line, r.PageName, r.ParseResult)
			}
		case domain.FetchError, domain.StatusError:
			if r.ParseResult != "" {
				p.errorf("line %d (%s): parse_result set on a failed fetch", r.line, r.PageName)
			}
		default:
			p.errorf("line %d (%s): unknown fetch_result %q", r.line, r.PageName, r.FetchResult)
		}
	}
	return p
}

func validateSeriesLengths(results []numberedResult) *phase {
	p := &phase{name: "Series lengths"}
	for _, r := range results {
		temps := []struct {
			name   string
			values domain.Series
		}{
			{"average_high_c", r.AverageHighC},
			{"average_low_c", r.AverageLowC},
			{"average_high_f", r.AverageHighF},
			{"average_low_f", r.AverageLowF},
		}
		if r.ParseResult != domain.Parsed {
			for _, s := range temps {
				if s.values != nil {
					p.errorf("line %d (%s): %s set on an unparsed page", r.line, r.PageName, s.name)
				}
			}
			if r.SunshineHours != nil {
				p.errorf("line %d (%s): sunshine_hours set on an unparsed page", r.line, r.PageName)
			}
			continue
		}
		for _, s := range temps {
			if len(s.values) != domain.MonthsPerYear {
				p.errorf("line %d (%s): %s has %d values", r.line, r.PageName, s.name, len(s.values))
			}
		}
		if r.SunshineHours != nil && len(r.SunshineHours) != domain.MonthsPerYear {
			p.errorf("line %d (%s): sunshine_hours has %d values", r.line, r.PageName, len(r.SunshineHours))
		}
	}
	return p
}

func validateConversions(results []numberedResult) *phase {
	p := &phase{name: "Celsius/Fahrenheit agreement"}
	for _, r := range results {
		if r.ParseResult != domain.Parsed {
			continue
		}
		checkConversion(p, r, "high", r.AverageHighC, r.AverageHighF)
		checkConversion(p, r, "low", r.AverageLowC, r.AverageLowF)
	}
	return p
}

func checkConversion(p *phase, r numberedResult, which string, c, f domain.Series) {
	for i := range min(len(c), len(f)) {
		want := c[i]*9/5 + 32
		if math.Abs(f[i]-want) > conversionTolerance {
			p.errorf("line %d (%s): month %d %s %.1f°C is %.1f°F, want about %.1f°F",
				r.line, r.PageName, i+1, which, c[i], f[i], want)
		}
	}
}

func validateUniquePages(results []numberedResult) *phase {
	p := &phase{name: "Unique pages"}
	seen := make(map[string]int, len(results))
	for _, r := range results {
		if first, ok := seen[r.PageName]; ok {
			p.errorf("line %d: %q already recorded on line %d", r.line, r.PageName, first)
			continue
		}
		seen[r.PageName] = r.line
	}
	return p
}
