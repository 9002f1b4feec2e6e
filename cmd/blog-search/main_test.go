package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-search/pkg/types"
)

const testIndex = `[
  {"title": "Go 동시성 정리", "summary": "채널과 select", "tags": ["go"], "categories": ["dev"], "permalink": "/notes/go/", "date": "2025-03-14"},
  {"title": "제주 여행", "content": "바다", "tags": [], "categories": [], "permalink": "/travel/jeju/", "date": "2024-08-15"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSearchCommandJSON(t *testing.T) {
	index := writeFile(t, "index.json", testIndex)

	out, _, err := execute(t, "search", "--index-file", index, "--json", "제주")
	require.NoError(t, err)

	var matches []types.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "/travel/jeju/", matches[0].Record.Permalink)
}

func TestRenderCommand(t *testing.T) {
	index := writeFile(t, "index.json", testIndex)
	host := writeFile(t, "search.html", `<html><body><section data-search-root>`+
		`<p data-search-message></p><div data-search-results></div></section></body></html>`)

	out, status, err := execute(t, "render", "--no-color", "--index-file", index, "--page", host, "--url", "/search/?q=select")
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="/notes/go/">Go 동시성 정리</a>`)
	assert.Contains(t, out, "에 대한 검색 결과 1건")
	assert.Contains(t, status, `rendered: "select"에 대한 검색 결과 1건 (1 results)`)
	assert.NotContains(t, status, "\x1b[")
	assert.NotContains(t, out, "rendered:")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog-search.yaml")

	_, _, err := execute(t, "config", "init", "--file", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://localhost:1313")
	assert.Contains(t, string(data), "timeout: 30s")
	assert.Contains(t, string(data), "corpus_retry: 1m0s")

	_, _, err = execute(t, "config", "init", "--file", path)
	assert.ErrorContains(t, err, "already exists")
}
