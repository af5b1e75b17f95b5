package artifact

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fadilmartias/jobmate-ml-api/internal/model"
)

const (
	ColumnID     = "id"
	DefaultTitle = "N/A"
)

var (
	titleColumns       = []string{"Job Title", "job_title", "title"}
	descriptionColumns = []string{"Job Description", "job_description", "description"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Cells that pandas reads as missing by default.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindBool
	kindString
)

// ParseJobMetadata reads a CSV table with a header row into jobs. Each column
// gets the narrowest type that fits all of its non-missing cells (integer,
// float, boolean, then string). Missing cells become nil.
//
// The id column must be an integer column without gaps. Without one, a job's
// id is its 0-based row position.
func ParseJobMetadata(r io.Reader) ([]model.Job, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read metadata csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("metadata csv has no header row")
	}

	header := columnNames(records[0])
	rows := records[1:]
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("metadata row %d has %d fields, header has %d", i, len(row), len(header))
		}
	}

	columns := make([][]any, len(header))
	for c := range header {
		columns[c] = parseColumn(rows, c)
	}

	idCol := indexOf(header, ColumnID)
	if idCol >= 0 {
		for i, v := range columns[idCol] {
			if _, ok := v.(int64); !ok {
				return nil, fmt.Errorf("metadata column %q must hold integers, row %d has %v", ColumnID, i, v)
			}
		}
	}
	titleCol := firstPresent(header, titleColumns)
	descCol := firstPresent(header, descriptionColumns)

	jobs := make([]model.Job, len(rows))
	for i := range rows {
		fields := make(map[string]any, len(header)+1)
		for c, name := range header {
			fields[name] = columns[c][i]
		}

		id := int64(i)
		if idCol >= 0 {
			id = columns[idCol][i].(int64)
		} else {
			fields[ColumnID] = id
		}

		jobs[i] = model.NewJob(i, id,
			textValue(columns, titleCol, i, DefaultTitle),
			textValue(columns, descCol, i, ""),
			fields,
		)
	}
	return jobs, nil
}

// columnNames mirrors pandas header handling: blank names become
// "Unnamed: i" and repeats get a ".n" suffix.
func columnNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	repeats := make(map[string]int)
	for i, name := range raw {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		unique := name
		for used[unique] {
			repeats[name]++
			unique = fmt.Sprintf("%s.%d", name, repeats[name])
		}
		used[unique] = true
		names[i] = unique
	}
	return names
}

func parseColumn(rows [][]string, c int) []any {
	cells := make([]string, len(rows))
	missing := make([]bool, len(rows))
	for i, row := range rows {
		if c < len(row) {
			cells[i] = row[c]
		}
		_, missing[i] = naValues[cells[i]]
	}

	kind := inferKind(cells, missing)
	values := make([]any, len(rows))
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		switch kind {
		case kindInt:
			values[i], _ = strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		case kindFloat:
			values[i], _ = strconv.ParseFloat(strings.TrimSpace(cell), 64)
		case kindBool:
			values[i], _ = parseBool(cell)
		default:
			values[i] = cell
		}
	}
	return values
}

func inferKind(cells []string, missing []bool) columnKind {
	canInt, canFloat, canBool := true, true, true
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		trimmed := strings.TrimSpace(cell)
		if canInt {
			if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
				canInt = false
			}
		}
		if canFloat {
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				canFloat = false
			}
		}
		if canBool {
			if _, ok := parseBool(cell); !ok {
				canBool = false
			}
		}
	}
	switch {
	case canInt:
		return kindInt
	case canFloat:
		return kindFloat
	case canBool:
		return kindBool
	default:
		return kindString
	}
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

func textValue(columns [][]any, col, row int, fallback string) string {
	if col < 0 {
		return fallback
	}
	switch v := columns[col][row].(type) {
	case nil:
		return fallback
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func firstPresent(names, candidates []string) int {
	for _, candidate := range candidates {
		if i := indexOf(names, candidate); i >= 0 {
			return i
		}
	}
	return -1
}
