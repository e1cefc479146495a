// Package pipeline wires the normalizer, extractor, scorer and aggregator
// into a single document evaluation, and runs batches of them.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealscore/internal/config"
	"github.com/sells-group/dealscore/internal/extract"
	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/normalize"
	"github.com/sells-group/dealscore/internal/scorer"
)

// ErrTimeout is returned when a document is not evaluated within the
// configured extraction timeout.
var ErrTimeout = eris.New("pipeline: evaluation timed out")

// Recorder observes evaluation outcomes. The metrics package provides the
// Prometheus implementation.
type Recorder interface {
	ObserveEvaluation(res *model.Result, elapsed time.Duration)
	ObserveError(err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveEvaluation(*model.Result, time.Duration) {}
func (nopRecorder) ObserveError(error)                             {}

// Evaluator scores documents. It is built once from configuration, holds
// no per-document state and is safe for concurrent use.
type Evaluator struct {
	normalizer    *normalize.Normalizer
	extractor     *extract.Extractor
	scorer        *scorer.Scorer
	recorder      Recorder
	timeout       time.Duration
	maxBytes      int64
	maxConcurrent int
}

// Option customizes an Evaluator.
type Option func(*options)

type options struct {
	pages    normalize.PageExtractor
	recorder Recorder
}

// WithPageExtractor replaces the pdftotext page extractor.
func WithPageExtractor(pe normalize.PageExtractor) Option {
	return func(o *options) { o.pages = pe }
}

// WithRecorder reports every evaluation to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// New creates an Evaluator from cfg.
func New(cfg *config.Config, opts ...Option) (*Evaluator, error) {
	o := options{recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pages == nil {
		o.pages = normalize.NewPdfToText(cfg.Extract.PdfToTextPath, nil)
	}

	sc, err := BuildScorer(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		normalizer:    normalize.New(o.pages),
		extractor:     extract.New(),
		scorer:        sc,
		recorder:      o.recorder,
		timeout:       cfg.Extract.Timeout(),
		maxBytes:      cfg.Extract.MaxBytes,
		maxConcurrent: cfg.Batch.MaxConcurrent,
	}, nil
}

// BuildScorer assembles the criteria catalog and weight table described
// by cfg. Explicit weights take precedence over the profile.
func BuildScorer(cfg config.ScoringConfig) (*scorer.Scorer, error) {
	catalog := scorer.DefaultCriteria()
	if cfg.CriteriaFile != "" {
		var err error
		catalog, err = scorer.LoadCriteriaFile(cfg.CriteriaFile)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load criteria")
		}
	}

	var (
		weights scorer.Weights
		err     error
	)
	if len(cfg.Weights) > 0 {
		weights, err = scorer.ResolveWeights(cfg.Weights, catalog)
	} else {
		weights, err = scorer.ProfileWeights(cfg.Profile, catalog)
	}
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve weights")
	}

	sc, err := scorer.New(catalog, weights)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build scorer")
	}
	return sc, nil
}

// Scorer returns the evaluator's scorer.
func (e *Evaluator) Scorer() *scorer.Scorer {
	return e.scorer
}

// Evaluate scores one document. Missing metrics never fail an evaluation;
// errors are reserved for unsupported input, an unavailable extractor,
// invalid overrides and timeouts. When a weighted manual criterion has no
// override the result carries ManualInputRequired and no final score.
func (e *Evaluator) Evaluate(ctx context.Context, raw model.RawDocument, overrides scorer.Overrides) (*model.Result, error) {
	log := zap.L().With(zap.String("document", raw.Name), zap.String("type", string(raw.Type)))
	start := time.Now()

	res, err := e.evaluate(ctx, raw, overrides)
	if err != nil {
		e.recorder.ObserveError(err)
		if ErrorKind(err) == KindCanceled {
			log.Info("pipeline: evaluation canceled")
		} else {
			log.Error("pipeline: evaluation failed", zap.Error(err))
		}
		return nil, err
	}

	elapsed := time.Since(start)
	e.recorder.ObserveEvaluation(res, elapsed)

	fields := []zap.Field{
		zap.Int("pages", res.Document.Pages),
		zap.Int("table_rows", res.Document.Rows),
		zap.Int("metrics_missing", len(res.Metrics.Missing())),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if res.Complete() {
		fields = append(fields, zap.Float64("final_score", *res.FinalScore), zap.String("tier", string(res.Tier)))
	} else {
		fields = append(fields, zap.Strings("manual_input_required", res.ManualInputRequired))
	}
	log.Info("pipeline: document evaluated", fields...)

	return res, nil
}

func (e *Evaluator) evaluate(ctx context.Context, raw model.RawDocument, overrides scorer.Overrides) (*model.Result, error) {
	if err := e.scorer.CheckOverrides(overrides); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	src, err := e.normalizer.Normalize(ctx, raw)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, eris.Wrapf(ErrTimeout, "%s after %s", raw.Name, e.timeout)
		}
		return nil, err
	}

	ext := e.extractor.Extract(*src)

	card, err := e.scorer.Score(ext.Metrics, overrides)
	if err != nil {
		return nil, err
	}

	res := &model.Result{
		Document: model.DocumentInfo{
			Name:   raw.Name,
			Type:   raw.Type,
			Pages:  src.Pages,
			Tables: src.TableCount,
			Rows:   len(src.Tables),
		},
		Metrics:    ext.Metrics,
		Provenance: ext.Provenance,
		Scores:     card.Scores,
		Criteria:   card.Criteria,
	}

	final, err := scorer.Aggregate(card.Scores, e.scorer.Weights())
	switch {
	case err == nil:
		res.FinalScore = &final
		res.Tier = scorer.Classify(final)
	case errors.Is(err, scorer.ErrManualInputRequired):
		res.ManualInputRequired = card.Pending
	default:
		return nil, eris.Wrap(err, "pipeline: aggregate")
	}

	return res, nil
}
