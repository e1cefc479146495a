package model

import "github.com/rotisserie/eris"

// ErrUnsupportedType is returned for documents that are not PDF or DOCX,
// including files whose bytes do not match their declared type.
var ErrUnsupportedType = eris.New("unsupported document type")

// ErrExtractorUnavailable is returned when the external text extraction
// tool cannot be run at all.
var ErrExtractorUnavailable = eris.New("document extractor unavailable")

// ErrDocumentTooLarge is returned when a document exceeds the configured
// size limit.
var ErrDocumentTooLarge = eris.New("document too large")
