package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/scorer"
)

// BatchItem is the outcome of evaluating one file in a batch.
type BatchItem struct {
	Path   string
	Result *model.Result
	Err    error
}

// EvaluateFiles evaluates independent documents concurrently, at most
// batch.max_concurrent at a time. A failing document is recorded on its
// item and never aborts the batch. Items are returned in path order.
func (e *Evaluator) EvaluateFiles(ctx context.Context, paths []string, overrides scorer.Overrides) []BatchItem {
	items := make([]BatchItem, len(paths))
	if len(paths) == 0 {
		return items
	}

	log := zap.L().With(zap.String("batch_id", uuid.NewString()))
	log.Info("pipeline: processing batch",
		zap.Int("documents", len(paths)),
		zap.Int("concurrency", e.maxConcurrent),
	)

	var g errgroup.Group
	g.SetLimit(max(e.maxConcurrent, 1))

	var succeeded, failed atomic.Int64

	for i, path := range paths {
		i, path := i, path
		items[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				failed.Add(1)
				return nil
			}

			res, err := e.evaluateFile(ctx, path, overrides)
			if err != nil {
				items[i].Err = err
				failed.Add(1)
				return nil // don't abort batch on individual failure
			}
			items[i].Result = res
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("pipeline: batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return items
}

func (e *Evaluator) evaluateFile(ctx context.Context, path string, overrides scorer.Overrides) (*model.Result, error) {
	raw, err := e.LoadFile(path)
	if err != nil {
		e.recorder.ObserveError(err)
		return nil, err
	}
	return e.Evaluate(ctx, raw, overrides)
}
