// Package model defines the data types that flow through the deal scoring
// pipeline, from the raw uploaded document to the final recommendation.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// DocType discriminates the supported document containers.
type DocType string

const (
	DocTypePDF  DocType = "pdf"
	DocTypeDOCX DocType = "docx"
)

// ParseDocType resolves a type discriminator or file extension ("pdf",
// ".DOCX") to a DocType. Anything else is unsupported input.
func ParseDocType(s string) (DocType, error) {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch DocType(t) {
	case DocTypePDF, DocTypeDOCX:
		return DocType(t), nil
	default:
		return "", eris.Wrapf(ErrUnsupportedType, "model: document type %q", s)
	}
}

// RawDocument is an uploaded document. It is consumed once by the
// normalizer and never mutated.
type RawDocument struct {
	Name    string
	Type    DocType
	Content []byte
}

// TableRecord is one row of an extracted table. Empty strings stand for
// null or empty cells.
type TableRecord []string

// Source is the normalized form of a document: the concatenated page or
// paragraph text and the flattened table rows in document order.
type Source struct {
	Text       string
	Tables     []TableRecord
	Pages      int
	TableCount int
}

// DocumentInfo summarizes the evaluated document in a Result.
type DocumentInfo struct {
	Name   string  `json:"name"`
	Type   DocType `json:"type"`
	Pages  int     `json:"pages"`
	Tables int     `json:"tables"`
	Rows   int     `json:"table_rows"`
}
