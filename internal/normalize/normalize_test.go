package normalize

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscore/internal/model"
)

type fakePages struct {
	pages []Page
	err   error
	calls int
}

func (f *fakePages) ExtractPages(_ context.Context, _ []byte) ([]Page, error) {
	f.calls++
	return f.pages, f.err
}

func pdfDoc() model.RawDocument {
	return model.RawDocument{Name: "im.pdf", Type: model.DocTypePDF, Content: []byte("%PDF-1.7\n...")}
}

func TestNormalize_UnsupportedType(t *testing.T) {
	pages := &fakePages{}
	n := New(pages)

	_, err := n.Normalize(context.Background(), model.RawDocument{Name: "deck.pptx", Type: "pptx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedType))
	assert.Zero(t, pages.calls)
}

func TestNormalize_PDFMagicMismatch(t *testing.T) {
	pages := &fakePages{}
	n := New(pages)

	_, err := n.Normalize(context.Background(), model.RawDocument{Name: "im.pdf", Type: model.DocTypePDF, Content: []byte("PK\x03\x04")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedType))
	assert.Zero(t, pages.calls)
}

func TestNormalize_PDFJoinsPages(t *testing.T) {
	n := New(&fakePages{pages: []Page{
		{Number: 1, Text: "Executive summary"},
		{Number: 2, Text: "   \n\t"},
		{Number: 3, Err: errors.New("bad xref")},
		{Number: 4, Text: "EBIT 3.5"},
	}})

	src, err := n.Normalize(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, "Executive summary\nEBIT 3.5", src.Text)
	assert.Equal(t, 4, src.Pages)
	assert.Empty(t, src.Tables)
}

func TestNormalize_PDFEmpty(t *testing.T) {
	src, err := New(&fakePages{}).Normalize(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, "", src.Text)
	assert.Empty(t, src.Tables)
	assert.Zero(t, src.TableCount)
}

func TestNormalize_PDFTables(t *testing.T) {
	n := New(&fakePages{pages: []Page{
		{Number: 1, Tables: [][][]string{
			{{"Revenue", "10", "11"}, {"EBIT", "1", "2"}},
			{{"ragged", "1"}, {"row"}},
			{},
		}},
		{Number: 2, Err: errors.New("broken"), Tables: [][][]string{{{"EBIT", "9", "9"}}}},
		{Number: 3, Tables: [][][]string{{{"EBIT", "3", "4"}}}},
	}})

	src, err := n.Normalize(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, []model.TableRecord{
		{"Revenue", "10", "11"},
		{"EBIT", "1", "2"},
		{"EBIT", "3", "4"},
	}, src.Tables)
	assert.Equal(t, 2, src.TableCount)
}

func TestNormalize_PDFNFKC(t *testing.T) {
	n := New(&fakePages{pages: []Page{
		{Number: 1, Text: "EBIT 3.5 ﬁnal", Tables: [][][]string{{{"Revenue", "1 200"}}}},
	}})

	src, err := n.Normalize(context.Background(), pdfDoc())
	require.NoError(t, err)
	assert.Equal(t, "EBIT 3.5 final", src.Text)
	assert.Equal(t, model.TableRecord{"Revenue", "1 200"}, src.Tables[0])
}

func TestNormalize_PDFExtractorError(t *testing.T) {
	n := New(&fakePages{err: model.ErrExtractorUnavailable})

	_, err := n.Normalize(context.Background(), pdfDoc())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrExtractorUnavailable))
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func docxBodyXML(paragraphs string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + paragraphs + `</w:body></w:document>`
}

func TestNormalize_DOCXParagraphs(t *testing.T) {
	body := docxBodyXML(
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>EBIT </w:t></w:r><w:r><w:t>3.5</w:t></w:r></w:p>` +
			`<w:p/>` +
			`<w:p><w:r><w:t>growth</w:t><w:tab/><w:t>of 9%</w:t></w:r></w:p>` +
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Revenue</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
	)
	raw := model.RawDocument{Name: "im.docx", Type: model.DocTypeDOCX, Content: buildDOCX(t, body)}

	src, err := New(&fakePages{}).Normalize(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "EBIT 3.5\n\ngrowth\tof 9%", src.Text)
	assert.Empty(t, src.Tables)
	assert.Zero(t, src.TableCount)
}

func TestNormalize_DOCXSkipsTablesAndTextBoxes(t *testing.T) {
	cell := func(text string) string {
		return `<w:tc><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:tc>`
	}
	body := docxBodyXML(
		`<w:p><w:r><w:t>The business is profitable.</w:t></w:r></w:p>` +
			`<w:tbl><w:tr>` + cell("EBIT (EURm)") + cell("2022") + cell("2023") + `</w:tr></w:tbl>` +
			`<w:p><w:r><w:t>Summary</w:t></w:r><w:r><w:pict><w:txbxContent><w:p><w:r><w:t>Capex 9</w:t></w:r></w:p></w:txbxContent></w:pict></w:r></w:p>` +
			`<w:p><w:r><w:t>EBIT 1.2</w:t></w:r></w:p>`,
	)
	raw := model.RawDocument{Name: "im.docx", Type: model.DocTypeDOCX, Content: buildDOCX(t, body)}

	src, err := New(&fakePages{}).Normalize(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "The business is profitable.\nSummary\nEBIT 1.2", src.Text)
	assert.Empty(t, src.Tables)
}

func TestNormalize_DOCXNotZip(t *testing.T) {
	raw := model.RawDocument{Name: "im.docx", Type: model.DocTypeDOCX, Content: []byte("%PDF-1.4")}
	_, err := New(&fakePages{}).Normalize(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedType))
}

func TestNormalize_DOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("xl/workbook.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	raw := model.RawDocument{Name: "book.docx", Type: model.DocTypeDOCX, Content: buf.Bytes()}
	_, err = New(&fakePages{}).Normalize(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedType))
}

func TestNormalize_DOCXMalformedXML(t *testing.T) {
	raw := model.RawDocument{Name: "im.docx", Type: model.DocTypeDOCX, Content: buildDOCX(t, "<w:document><w:body>")}
	_, err := New(&fakePages{}).Normalize(context.Background(), raw)
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrUnsupportedType))
}

func TestNormalize_DOCXCharset(t *testing.T) {
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Ums` + "\xe4" + `tze</w:t></w:r></w:p></w:body></w:document>`
	raw := model.RawDocument{Name: "im.docx", Type: model.DocTypeDOCX, Content: buildDOCX(t, body)}

	src, err := New(&fakePages{}).Normalize(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Umsätze", src.Text)
}
