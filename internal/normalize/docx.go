package normalize

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/dealscore/internal/model"
)

const docxBody = "word/document.xml"

// WordprocessingML namespace for w: elements.
const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// normalizeDOCX joins the document's paragraphs with newlines. DOCX input
// never produces table rows.
func normalizeDOCX(raw model.RawDocument) (*model.Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, eris.Wrapf(model.ErrUnsupportedType, "normalize: %s is not a DOCX archive", raw.Name)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return nil, eris.Wrapf(model.ErrUnsupportedType, "normalize: %s has no %s", raw.Name, docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: open %s", docxBody)
	}
	defer rc.Close() //nolint:errcheck

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read %s", raw.Name)
	}

	for i, p := range paragraphs {
		paragraphs[i] = cleanText(p)
	}
	return &model.Source{Text: strings.Join(paragraphs, "\n")}, nil
}

// readParagraphs collects the text of each body w:p element in document
// order. Runs' w:t text is concatenated; w:tab becomes a tab and w:br a
// newline. Paragraphs nested in tables or text boxes are not body text.
func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var (
		paragraphs []string
		current    strings.Builder
		depth      int // open w:p elements
		runs       int // open w:r elements
		nested     int // open w:tbl and w:txbxContent elements
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "xml: read token")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			if t.Name.Local == "tbl" || t.Name.Local == "txbxContent" {
				nested++
			}
			if nested > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "r":
				runs++
			case "t":
				inText = true
			case "tab":
				// Tab stops in w:pPr share the element name; only run tabs count.
				if depth > 0 && runs > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 && runs > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			if t.Name.Local == "tbl" || t.Name.Local == "txbxContent" {
				nested--
				continue
			}
			if nested > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "r":
				runs--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 && nested == 0 {
				current.Write(t)
			}
		}
	}
}
