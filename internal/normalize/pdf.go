package normalize

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealscore/internal/model"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A missing binary is reported as
// model.ErrExtractorUnavailable.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(model.ErrExtractorUnavailable, "normalize: %s: %v", name, err)
		}
		if ctx.Err() != nil {
			return nil, eris.Wrapf(ctx.Err(), "normalize: %s interrupted", name)
		}
		return nil, eris.Wrapf(err, "normalize: %s failed: %s", name, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

// PdfToText extracts pages with the pdftotext CLI tool in layout mode.
type PdfToText struct {
	binPath   string
	runner    CommandRunner
	pageCount func(path string) (int, error)
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used; a nil runner runs the real binary.
func NewPdfToText(binPath string, runner CommandRunner) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &PdfToText{binPath: binPath, runner: runner, pageCount: api.PageCountFile}
}

// ExtractPages writes content to a temp file and runs pdftotext over it.
// When whole-document extraction fails it retries one page at a time, so a
// single broken page costs only that page.
func (p *PdfToText) ExtractPages(ctx context.Context, content []byte) ([]Page, error) {
	f, err := os.CreateTemp("", "dealscore-*.pdf")
	if err != nil {
		return nil, eris.Wrap(err, "normalize: create temp file")
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.Write(content); err != nil {
		f.Close() //nolint:errcheck,gosec
		return nil, eris.Wrap(err, "normalize: write temp file")
	}
	if err := f.Close(); err != nil {
		return nil, eris.Wrap(err, "normalize: close temp file")
	}

	count, countErr := p.pageCount(path)
	if countErr != nil {
		zap.L().Debug("normalize: pdf page count unavailable", zap.Error(countErr))
		count = 0
	}

	out, err := p.runner.Run(ctx, p.binPath, "-layout", path, "-")
	if err == nil {
		return splitPages(string(out)), nil
	}
	if errors.Is(err, model.ErrExtractorUnavailable) || ctx.Err() != nil || count == 0 {
		return nil, err
	}

	zap.L().Warn("normalize: pdftotext failed, retrying per page",
		zap.Int("pages", count),
		zap.Error(err),
	)
	return p.extractEach(ctx, path, count)
}

func (p *PdfToText) extractEach(ctx context.Context, path string, count int) ([]Page, error) {
	pages := make([]Page, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "normalize: per-page extraction")
		}
		n := strconv.Itoa(i)
		out, err := p.runner.Run(ctx, p.binPath, "-layout", "-f", n, "-l", n, path, "-")
		if err != nil {
			pages = append(pages, Page{Number: i, Err: err})
			continue
		}
		text := strings.TrimRight(string(out), "\f")
		pages = append(pages, Page{Number: i, Text: text, Tables: detectTables(text)})
	}
	return pages, nil
}

// splitPages splits pdftotext output on form feeds. pdftotext terminates
// every page with one, so the trailing empty segment is dropped.
func splitPages(out string) []Page {
	parts := strings.Split(out, "\f")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]Page, len(parts))
	for i, text := range parts {
		pages[i] = Page{Number: i + 1, Text: text, Tables: detectTables(text)}
	}
	return pages
}
