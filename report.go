/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package highslp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// rowsSentinel separates the Columns section from the Rows section.
const rowsSentinel = "Rows"

const maxReportLine = 1 << 20

// columnParser converts a token of a known column. Tokens that do not
// convert are kept: numbers become NaN, an Index stays the raw string.
type columnParser func(string) any

var knownColumns = map[string]columnParser{
	KeyIndex:  parseIndex,
	KeyLower:  parseFloatColumn,
	KeyUpper:  parseFloatColumn,
	KeyPrimal: parseFloatColumn,
	KeyDual:   parseFloatColumn,
}

// parseNum parses a numeric report token; HiGHS prints unbounded values as
// "inf" and "-inf".
func parseNum(s string) (float64, error) {
	switch s {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}

func parseFloatColumn(s string) any {
	v, err := parseNum(s)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseIndex(s string) any {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return idx
}

// field is a whitespace separated token and its byte offset in the line.
type field struct {
	text  string
	start int
}

// lineFields splits a report line into its tokens, dropping the
// unlabelled left gutter.
func lineFields(line string) []field {
	var fields []field

	start := -1
	for i, r := range line {
		switch {
		case unicode.IsSpace(r) && start >= 0:
			fields = append(fields, field{text: line[start:i], start: start})
			start = -1
		case !unicode.IsSpace(r) && start < 0:
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, field{text: line[start:], start: start})
	}

	return fields
}

// header is a table header line. ends holds the offset just past each
// name; HiGHS right-aligns numbers under that edge.
type header struct {
	names []string
	ends  []int
}

func parseHeader(line string) header {
	fields := lineFields(line)

	h := header{
		names: make([]string, len(fields)),
		ends:  make([]int, len(fields)),
	}
	for i, f := range fields {
		h.names[i] = f.text
		h.ends[i] = f.start + len(f.text)
	}

	return h
}

// align assigns each field to the header column it sits under. A field
// belongs to the first column whose name ends past the field's start.
// It fails unless every field lands in a distinct column, left to right.
func (h header) align(fields []field) ([]string, bool) {
	names := make([]string, len(fields))

	prev := -1
	for i, f := range fields {
		col := len(h.ends) - 1
		for k, end := range h.ends {
			if f.start < end {
				col = k
				break
			}
		}
		if col <= prev {
			return nil, false
		}
		names[i] = h.names[col]
		prev = col
	}

	return names, true
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// lineToRecord maps the tokens of line onto the header. A line with fewer
// tokens than the header has blank fields, as HiGHS prints for missing
// basis or dual values; its tokens are placed by column alignment when
// possible and by position otherwise.
func lineToRecord(h header, line string) (Record, error) {
	fields := lineFields(line)
	if len(fields) > len(h.names) {
		return nil, &ReportError{Line: line}
	}

	names := h.names[:len(fields)]
	if len(fields) < len(h.names) {
		if aligned, ok := h.align(fields); ok {
			names = aligned
		}
	}

	rec := make(Record, len(fields))
	for i, f := range fields {
		if parser, known := knownColumns[names[i]]; known {
			rec[names[i]] = parser(f.text)
		} else {
			rec[names[i]] = f.text
		}
	}

	return rec, nil
}

// ParseReport converts the lines of a pretty-printed HiGHS solution into a
// Result carrying the given model status.
//
// The expected shape is a banner line, the Columns header, one line per
// variable, a line reading exactly "Rows", the Rows header and one line per
// constraint. A blank line after the constraints starts an optional block
// of "Key: value" summary lines.
func ParseReport(lines []string, status string) (*Result, error) {
	if len(lines) < 3 {
		return nil, ErrTooFewLines
	}

	res := &Result{
		Status:  status,
		Columns: make(map[string]Record),
		Rows:    []Record{},
		Summary: make(map[string]string),
	}

	headers := parseHeader(lines[1])
	i := 2
	for ; i < len(lines) && lines[i] != rowsSentinel; i++ {
		if isBlank(lines[i]) {
			continue
		}
		rec, err := lineToRecord(headers, lines[i])
		if err != nil {
			return nil, err
		}
		key, ok := columnKey(rec)
		if !ok {
			return nil, &ReportError{Line: lines[i], Msg: "column has neither Name nor Index"}
		}
		res.Columns[key] = rec
	}
	if i+1 >= len(lines) {
		return nil, ErrMissingRows
	}

	headers = parseHeader(lines[i+1])
	for j := i + 2; j < len(lines); j++ {
		if isBlank(lines[j]) {
			parseSummary(res.Summary, lines[j+1:])
			break
		}
		rec, err := lineToRecord(headers, lines[j])
		if err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, rec)
	}

	return res, nil
}

func parseSummary(summary map[string]string, lines []string) {
	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		summary[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

// ReadReport reads a solution report from r and parses it.
func ReadReport(r io.Reader, status string) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return ParseReport(lines, status)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReportLine)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading solution report: %w", err)
	}

	return lines, nil
}

func readReportFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening solution report: %w", err)
	}
	defer f.Close()

	return readLines(f)
}
