package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscore/internal/model"
	"github.com/sells-group/dealscore/internal/scorer"
)

type batchReport struct {
	Source string        `json:"source"`
	Result *model.Result `json:"result"`
	Error  string        `json:"error"`
}

func TestEvaluateBatch_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeDOCX(t, dir, "a.docx", "EBIT 3.5")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(b, []byte("hi"), 0o644))

	var out bytes.Buffer
	require.NoError(t, evaluateBatch(context.Background(), testConfig(), []string{a, b}, nil, "json", "", &out))

	var reports []batchReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, a, reports[0].Source)
	require.NotNil(t, reports[0].Result)
	assert.Equal(t, 5, reports[0].Result.Scores[scorer.CriterionSize])
	assert.Empty(t, reports[0].Error)
	assert.Equal(t, b, reports[1].Source)
	assert.Nil(t, reports[1].Result)
	assert.Contains(t, reports[1].Error, "unsupported document type")
}

func TestEvaluateBatch_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDOCX(t, dir, "one.docx", "EBIT 0.5"),
		writeDOCX(t, dir, "two.docx", "EBIT 1.2"),
		writeDOCX(t, dir, "three.docx", "EBIT 2.5"),
	}

	c := testConfig()
	c.Batch.MaxConcurrent = 3

	var out bytes.Buffer
	require.NoError(t, evaluateBatch(context.Background(), c, paths, nil, "json", "", &out))

	var reports []batchReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 3)
	for i, want := range []int{1, 2, 4} {
		assert.Equal(t, paths[i], reports[i].Source)
		require.NotNil(t, reports[i].Result)
		assert.Equal(t, want, reports[i].Result.Scores[scorer.CriterionSize])
	}
}

func TestEvaluateBatch_CSV(t *testing.T) {
	dir := t.TempDir()
	a := writeDOCX(t, dir, "a.docx", "EBIT 3.5")

	var out bytes.Buffer
	require.NoError(t, evaluateBatch(context.Background(), testConfig(), []string{a}, nil, "csv", "", &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "document,criterion,metric"))
}

func TestEvaluateBatch_InvalidOverrideFailsUpFront(t *testing.T) {
	dir := t.TempDir()
	a := writeDOCX(t, dir, "a.docx", "EBIT 3.5")

	var out bytes.Buffer
	err := evaluateBatch(context.Background(), testConfig(), []string{a}, []string{"Size (EBIT)=5"}, "json", "", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scorer.ErrInvalidOverride))
	assert.Empty(t, out.String())
}
