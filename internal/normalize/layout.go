package normalize

import (
	"regexp"
	"strings"
)

// columnGap separates layout columns: two or more whitespace characters.
var columnGap = regexp.MustCompile(`\s{2,}`)

// minTableRows is the shortest run of aligned lines treated as a table.
const minTableRows = 2

// detectTables finds table grids in pdftotext -layout output. A table is a
// run of consecutive lines that split into the same number (at least two)
// of gap-separated columns. An indented line directly above rows with one
// more column is their header with a blank label cell, and is padded to
// match. A page may hold several tables.
func detectTables(text string) [][][]string {
	var (
		tables   [][][]string
		run      [][]string
		indented bool // the run's first line has a blank label cell
	)

	flush := func() {
		if len(run) >= minTableRows {
			tables = append(tables, run)
		}
		run = nil
	}

	for _, line := range strings.Split(text, "\n") {
		cols := splitColumns(line)
		if len(cols) < 2 {
			flush()
			continue
		}
		switch {
		case len(run) == 1 && indented && len(cols) == len(run[0])+1:
			run[0] = append([]string{""}, run[0]...)
		case len(run) > 0 && len(run[0]) != len(cols):
			flush()
		}
		if len(run) == 0 {
			indented = line != strings.TrimLeft(line, " \t")
		}
		run = append(run, cols)
	}
	flush()

	return tables
}

func splitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return columnGap.Split(line, -1)
}
