package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

// ReadDocument reads one document from r, enforcing maxBytes. The type is
// resolved from typ, or from the name's extension when typ is empty.
func ReadDocument(name, typ string, r io.Reader, maxBytes int64) (model.RawDocument, error) {
	if typ == "" {
		typ = filepath.Ext(name)
	}
	docType, err := model.ParseDocType(typ)
	if err != nil {
		return model.RawDocument{}, err
	}

	content, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return model.RawDocument{}, eris.Wrapf(err, "pipeline: read %s", name)
	}
	if int64(len(content)) > maxBytes {
		return model.RawDocument{}, eris.Wrapf(model.ErrDocumentTooLarge, "pipeline: %s exceeds %d bytes", name, maxBytes)
	}

	return model.RawDocument{Name: name, Type: docType, Content: content}, nil
}

// LoadFile reads the document at path.
func (e *Evaluator) LoadFile(path string) (model.RawDocument, error) {
	return LoadFile(path, e.maxBytes)
}

// LoadFile reads the document at path, typed by its extension.
func LoadFile(path string, maxBytes int64) (model.RawDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return model.RawDocument{}, eris.Wrapf(err, "pipeline: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadDocument(filepath.Base(path), "", f, maxBytes)
}

// MaxBytes returns the configured document size limit.
func (e *Evaluator) MaxBytes() int64 {
	return e.maxBytes
}
