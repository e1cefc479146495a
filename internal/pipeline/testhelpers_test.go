package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscore/internal/config"
	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/normalize"
)

// textPages returns one page per string, with no tables.
type textPages struct {
	mu     sync.Mutex
	pages  []normalize.Page
	calls  int
	block  bool
	failOn string
}

func (f *textPages) ExtractPages(ctx context.Context, content []byte) ([]normalize.Page, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.failOn != "" && string(content) == f.failOn {
		return nil, model.ErrExtractorUnavailable
	}
	return f.pages, nil
}

func (f *textPages) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingRecorder struct {
	mu          sync.Mutex
	evaluations int
	errs        []error
}

func (r *countingRecorder) ObserveEvaluation(*model.Result, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluations++
}

func (r *countingRecorder) ObserveError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Extract.PdfToTextPath = "pdftotext"
	cfg.Extract.TimeoutSecs = 5
	cfg.Extract.MaxBytes = 1 << 20
	cfg.Scoring.Profile = "automated"
	cfg.Batch.MaxConcurrent = 2
	return cfg
}

func newTestEvaluator(t *testing.T, cfg *config.Config, pages *textPages, opts ...Option) *Evaluator {
	t.Helper()
	opts = append([]Option{WithPageExtractor(pages)}, opts...)
	e, err := New(cfg, opts...)
	require.NoError(t, err)
	return e
}

func pdf(name string) model.RawDocument {
	return model.RawDocument{Name: name, Type: model.DocTypePDF, Content: []byte("%PDF-1.7\n")}
}
