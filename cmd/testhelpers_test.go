package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscore/internal/config"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Extract.PdfToTextPath = "pdftotext"
	c.Extract.TimeoutSecs = 5
	c.Extract.MaxBytes = 1 << 20
	c.Scoring.Profile = "automated"
	c.Batch.MaxConcurrent = 2
	return c
}

// writeDOCX writes a minimal DOCX with one paragraph per line.
func writeDOCX(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, l := range lines {
		body += `<w:p><w:r><w:t xml:space="preserve">` + l + `</w:t></w:r></w:p>`
	}
	body += `</w:body></w:document>`

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}
