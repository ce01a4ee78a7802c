package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	pipeTableRowRe = regexp.MustCompile(`\|.*\|`)
	asciiBorderRe  = regexp.MustCompile(`^[+\-=|\s]+$`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	headerWordRe   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$|^[A-Z][a-z0-9_]*$`)
)

// TableRows is the {headers, rows} shape every Table parse produces,
// whether the source was pipe-delimited or whitespace-aligned.
type TableRows struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// Table classifies pipe-delimited and whitespace-aligned tabular output.
type Table struct{}

// NewTable constructs the table output classifier.
func NewTable() *Table { return &Table{} }

func (t *Table) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.table", Description: "pipe-delimited and whitespace-aligned table detection", Priority: 55}
}

func (t *Table) CanParse(ctx model.ParserContext) bool {
	lines := nonEmptyLines(ctx.LastLines)
	if len(lines) < 2 {
		return false
	}
	pipeRows := 0
	for _, l := range lines {
		if pipeTableRowRe.MatchString(l) {
			pipeRows++
		}
	}
	if pipeRows >= 2 {
		return true
	}
	return isHeaderLine(lines[0])
}

func (t *Table) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	lines := nonEmptyLines(ctx.LastLines)
	if len(lines) < 2 {
		return model.SemanticOutput{}, false
	}

	if rows, ok := parsePipeTable(lines); ok {
		return model.SemanticOutput{Type: model.OutputTable, Raw: strings.Join(lines, "\n"), Data: rows, Confidence: 0.85, ParserName: t.Metadata().Name}, true
	}

	if rows, ok := parseAlignedTable(lines); ok {
		return model.SemanticOutput{Type: model.OutputTable, Raw: strings.Join(lines, "\n"), Data: rows, Confidence: 0.85, ParserName: t.Metadata().Name}, true
	}

	return model.SemanticOutput{}, false
}

func nonEmptyLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// isHeaderLine validates the spec's header shape: split by runs of ≥2
// spaces into at least two columns, each column made of all-caps or
// Title-Case words.
func isHeaderLine(line string) bool {
	cols := multiSpaceRe.Split(strings.TrimSpace(line), -1)
	if len(cols) < 2 {
		return false
	}
	for _, col := range cols {
		for _, word := range strings.Fields(col) {
			if !headerWordRe.MatchString(word) {
				return false
			}
		}
	}
	return true
}

func parsePipeTable(lines []string) (TableRows, bool) {
	var raw [][]string
	for _, l := range lines {
		if asciiBorderRe.MatchString(l) {
			continue
		}
		if !pipeTableRowRe.MatchString(l) {
			continue
		}
		trimmed := strings.Trim(strings.TrimSpace(l), "|")
		cells := strings.Split(trimmed, "|")
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		raw = append(raw, cells)
	}
	if len(raw) < 2 {
		return TableRows{}, false
	}
	return rowsFromCells(raw[0], raw[1:]), true
}

// parseAlignedTable validates the first line as a header per isHeaderLine,
// computes fixed column start positions from the header's ≥2-space runs,
// skips separator lines, and slices every remaining line by those fixed
// positions rather than re-splitting each line independently — a single
// oddly-spaced cell in a data row must not shift its own column count.
func parseAlignedTable(lines []string) (TableRows, bool) {
	if !isHeaderLine(lines[0]) {
		return TableRows{}, false
	}
	header := lines[0]
	starts := columnStarts(header)
	headers := sliceByColumns(header, starts)

	var dataRows []string
	for _, l := range lines[1:] {
		if asciiBorderRe.MatchString(strings.TrimSpace(l)) {
			continue
		}
		dataRows = append(dataRows, l)
	}
	if len(dataRows) == 0 {
		return TableRows{}, false
	}

	var raw [][]string
	for _, l := range dataRows {
		raw = append(raw, sliceByColumns(l, starts))
	}
	return rowsFromCells(headers, raw), true
}

// columnStarts returns the byte offset each column begins at: 0, then one
// offset per run of ≥2 spaces in header (the offset just past the run).
func columnStarts(header string) []int {
	starts := []int{0}
	for _, m := range multiSpaceRe.FindAllStringIndex(header, -1) {
		starts = append(starts, m[1])
	}
	return starts
}

func sliceByColumns(line string, starts []int) []string {
	out := make([]string, len(starts))
	for i, start := range starts {
		if start > len(line) {
			out[i] = ""
			continue
		}
		end := len(line)
		if i+1 < len(starts) {
			end = starts[i+1]
			if end > len(line) {
				end = len(line)
			}
		}
		out[i] = strings.TrimSpace(line[start:end])
	}
	return out
}

func rowsFromCells(headers []string, dataRows [][]string) TableRows {
	rows := make([]map[string]string, 0, len(dataRows))
	for _, cells := range dataRows {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return TableRows{Headers: headers, Rows: rows}
}
