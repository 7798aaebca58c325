package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// regularPage renders a wikitable whose January high is 10 °C.
func regularPage() string {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	row := func(label string, base int) string {
		var b strings.Builder
		b.WriteString("<tr><th>" + label + "</th>")
		for i := range months {
			c := base + i
			fmt.Fprintf(&b, "<td>%d<br>(%d)</td>", c, c*9/5+32)
		}
		b.WriteString("<td>0<br>(32)</td></tr>")
		return b.String()
	}
	return `<html><body><table class="wikitable"><tr><th>Month</th><th>` +
		strings.Join(months, "</th><th>") + `</th><th>Year</th></tr>` +
		row("Average high °C (°F)", 10) + row("Average low °C (°F)", 0) +
		`</table></body></html>`
}

func decodeReports(t *testing.T, out string) []parseReport {
	t.Helper()
	var reports []parseReport
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r parseReport
		require.NoError(t, dec.Decode(&r))
		reports = append(reports, r)
	}
	return reports
}

func TestParseCommand(t *testing.T) {
	regular := writeFile(t, "london.html", regularPage())
	empty := writeFile(t, "empty.html", "<html><body><p>No climate here</p></body></html>")

	out, err := execute(t, "", "parse", regular, empty)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 2)

	assert.Equal(t, regular, reports[0].File)
	assert.Equal(t, domain.Parsed, reports[0].Result)
	assert.Equal(t, domain.TableRegular, reports[0].TableType)
	require.NotNil(t, reports[0].Temperatures)
	assert.Equal(t, 10.0, reports[0].Temperatures.HighC[0])
	assert.Contains(t, reports[0].TableHTML, `class="wikitable"`)
	assert.Empty(t, reports[0].TableMarkdown)

	assert.Equal(t, domain.NoValidTablesFound, reports[1].Result)
	assert.Nil(t, reports[1].Temperatures)
}

func TestParseCommand_Markdown(t *testing.T) {
	out, err := execute(t, regularPage(), "parse", "--markdown", "-")
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "-", reports[0].File)
	md := reports[0].TableMarkdown
	assert.NotContains(t, md, "<table")

	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 4, "header, separator and two data rows")
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "|"), "not a table row: %q", line)
	}
	assert.True(t, strings.HasPrefix(lines[0], "| Month"))
	assert.Contains(t, lines[2], "Average high")
	assert.Contains(t, lines[2], "(50)", "both units survive the line break")
	assert.Contains(t, lines[2], "<br />")
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "parse")
	require.Error(t, err, "at least one file is required")

	_, err = execute(t, "", "parse", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
}

func resultLine(t *testing.T, r domain.PageResult) string {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return string(data)
}

func parsedResult(name string) domain.PageResult {
	c := domain.Series{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}
	f := make(domain.Series, len(c))
	for i := range c {
		f[i] = c[i]*9/5 + 32
	}
	return domain.PageResult{
		PageName:     name,
		FetchResult:  domain.FetchPage,
		TableType:    domain.TableRegular,
		ParseResult:  domain.Parsed,
		AverageHighC: c,
		AverageLowC:  c,
		AverageHighF: f,
		AverageLowF:  f,
	}
}

func TestValidateCommand_Passes(t *testing.T) {
	lines := []string{
		resultLine(t, parsedResult("Climate of London")),
		resultLine(t, domain.PageResult{PageName: "Climate of Atlantis", FetchResult: domain.StatusError, StatusCode: 404}),
		"",
		resultLine(t, domain.PageResult{PageName: "Paris", FetchResult: domain.FetchPage, ParseResult: domain.NoValidTablesFound}),
	}
	path := writeFile(t, "results.jsonl", strings.Join(lines, "\n")+"\n")

	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All validations passed.")
	assert.Contains(t, out, "Records: 3 (1 parsed, 0 parse errors, 1 without tables, 0 fetch errors, 1 status errors)")
}

func TestValidateCommand_Failures(t *testing.T) {
	badConversion := parsedResult("Climate of Oslo")
	badConversion.AverageHighF[3] = 90
	short := parsedResult("Climate of Rome")
	short.AverageLowC = short.AverageLowC[:11]

	lines := []string{
		resultLine(t, badConversion),
		resultLine(t, short),
		resultLine(t, parsedResult("Climate of Oslo")),
		resultLine(t, domain.PageResult{PageName: "Lima", FetchResult: domain.FetchError, ParseResult: domain.Parsed, TableType: domain.TableRegular}),
	}
	path := writeFile(t, "results.jsonl", strings.Join(lines, "\n"))

	out, err := execute(t, "", "validate", path)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Validation FAILED.")
	assert.Contains(t, out, "month 4 high 13.0°C is 90.0°F")
	assert.Contains(t, out, "average_low_c has 11 values")
	assert.Contains(t, out, `"Climate of Oslo" already recorded on line 1`)
	assert.Contains(t, out, "parse_result set on a failed fetch")
}

func TestValidateCommand_BadJSON(t *testing.T) {
	path := writeFile(t, "results.jsonl", "{not json}\n")

	_, err := execute(t, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
