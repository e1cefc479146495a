package pipeline

import (
	"context"
	"errors"

	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/scorer"
)

// Error kinds reported by ErrorKind.
const (
	KindUnsupported  = "unsupported_type"
	KindTooLarge     = "too_large"
	KindUnavailable  = "extractor_unavailable"
	KindTimeout      = "timeout"
	KindCanceled     = "canceled"
	KindInvalidInput = "invalid_override"
	KindInternal     = "internal"
)

// ErrorKind classifies an evaluation error for metrics and transport
// status mapping.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrUnsupportedType):
		return KindUnsupported
	case errors.Is(err, model.ErrDocumentTooLarge):
		return KindTooLarge
	case errors.Is(err, model.ErrExtractorUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, scorer.ErrInvalidOverride):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
