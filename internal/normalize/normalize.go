// Package normalize turns a raw PDF or DOCX document into normalized text
// and flattened table rows for metric extraction.
package normalize

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/dealscore/internal/model"
)

var pdfMagic = []byte("%PDF-")

// Page is the text and table grids extracted from one PDF page. A page
// whose extraction failed carries Err and contributes nothing.
type Page struct {
	Number int
	Text   string
	Tables [][][]string
	Err    error
}

// PageExtractor splits PDF bytes into pages.
type PageExtractor interface {
	ExtractPages(ctx context.Context, content []byte) ([]Page, error)
}

// Normalizer dispatches documents to the PDF or DOCX path.
type Normalizer struct {
	pdf PageExtractor
}

// New creates a Normalizer using pdf for PDF documents.
func New(pdf PageExtractor) *Normalizer {
	return &Normalizer{pdf: pdf}
}

// Normalize builds the Source for raw. Unknown types and content that is
// not what the type claims fail with model.ErrUnsupportedType before any
// extraction happens.
func (n *Normalizer) Normalize(ctx context.Context, raw model.RawDocument) (*model.Source, error) {
	switch raw.Type {
	case model.DocTypePDF:
		if !bytes.HasPrefix(raw.Content, pdfMagic) {
			return nil, eris.Wrapf(model.ErrUnsupportedType, "normalize: %s is not a PDF", raw.Name)
		}
		return n.normalizePDF(ctx, raw)
	case model.DocTypeDOCX:
		return normalizeDOCX(raw)
	default:
		return nil, eris.Wrapf(model.ErrUnsupportedType, "normalize: document type %q", raw.Type)
	}
}

func (n *Normalizer) normalizePDF(ctx context.Context, raw model.RawDocument) (*model.Source, error) {
	pages, err := n.pdf.ExtractPages(ctx, raw.Content)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: extract pages of %s", raw.Name)
	}

	log := zap.L().With(zap.String("document", raw.Name))
	src := &model.Source{Pages: len(pages)}
	var texts []string

	for _, p := range pages {
		if p.Err != nil {
			log.Warn("normalize: skipping unreadable page", zap.Int("page", p.Number), zap.Error(p.Err))
			continue
		}
		if text := cleanText(p.Text); text != "" {
			texts = append(texts, text)
		}
		for i, grid := range p.Tables {
			if !rectangular(grid) {
				log.Debug("normalize: skipping ragged table", zap.Int("page", p.Number), zap.Int("table", i))
				continue
			}
			src.TableCount++
			for _, row := range grid {
				rec := make(model.TableRecord, len(row))
				for j, cell := range row {
					rec[j] = norm.NFKC.String(cell)
				}
				src.Tables = append(src.Tables, rec)
			}
		}
	}

	src.Text = strings.Join(texts, "\n")
	return src, nil
}

// cleanText NFKC-normalizes page text and returns "" for blank pages.
func cleanText(s string) string {
	s = norm.NFKC.String(s)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// rectangular reports whether grid has at least one non-empty row and
// every row has the same number of cells.
func rectangular(grid [][]string) bool {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return false
	}
	width := len(grid[0])
	for _, row := range grid[1:] {
		if len(row) != width {
			return false
		}
	}
	return true
}
