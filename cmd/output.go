package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/export"
	"github.com/sells-group/dealscore/internal/scorer"
)

// parseOverrides turns repeated "Criterion=score" flags into overrides.
// Names are validated later against the active catalog.
func parseOverrides(flags []string) (scorer.Overrides, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(scorer.Overrides, len(flags))
	for _, f := range flags {
		i := strings.LastIndex(f, "=")
		if i <= 0 {
			return nil, eris.Wrapf(scorer.ErrInvalidOverride, "override %q must look like \"Criterion=score\"", f)
		}
		name := strings.TrimSpace(f[:i])
		score, err := strconv.Atoi(strings.TrimSpace(f[i+1:]))
		if err != nil {
			return nil, eris.Wrapf(scorer.ErrInvalidOverride, "override %q: score must be an integer", f)
		}
		if _, dup := out[name]; dup {
			return nil, eris.Wrapf(scorer.ErrInvalidOverride, "override for %q given more than once", name)
		}
		out[name] = score
	}
	return out, nil
}

// writeReports renders reports to outputPath, or to stdout when empty.
// XLSX is binary and always needs a file.
func writeReports(stdout io.Writer, format export.Format, outputPath string, reports []export.Report) error {
	if outputPath == "" {
		if format == export.FormatXLSX {
			return eris.New("output: --format xlsx requires --output")
		}
		return export.Write(stdout, format, reports)
	}

	f, err := os.Create(outputPath) //nolint:gosec
	if err != nil {
		return eris.Wrapf(err, "output: create %s", outputPath)
	}
	if err := export.Write(f, format, reports); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "output: close %s", outputPath)
	}
	return nil
}
