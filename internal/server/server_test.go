// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-search/internal/corpus"
	"github.com/pdiddy/blog-search/internal/engine"
	"github.com/pdiddy/blog-search/internal/widget"
	"github.com/pdiddy/blog-search/pkg/types"
)

const indexJSON = `[
  {"title": "Go 동시성 정리", "summary": "채널과 select", "tags": ["go"], "categories": ["dev"], "permalink": "/notes/go/", "date": "2025-03-14"},
  {"title": "Go 제네릭", "summary": "타입 매개변수", "tags": ["go"], "categories": [], "permalink": "/notes/go-generics/", "date": "2025-04-01", "section": "notes"},
  {"title": "제주 여행", "content": "바다", "tags": [], "categories": [], "permalink": "/travel/jeju/", "date": "2024-08-15"}
]`

const hostPage = `<!DOCTYPE html><html><head><title>검색</title></head><body>
<section data-search-root><p data-search-message></p><div data-search-results></div></section>
</body></html>`

type fixture struct {
	srv        *Server
	indexCalls *int32
}

func newFixture(t *testing.T, pageHTML string) fixture {
	t.Helper()
	var calls int32
	idx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(indexJSON))
	}))
	t.Cleanup(idx.Close)

	pagePath := filepath.Join(t.TempDir(), "search.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(pageHTML), 0o644))

	loader := &corpus.Loader{URL: idx.URL + "/index.json", Client: idx.Client()}
	w := widget.New(widget.NewSearchState(engine.Bundled{}, loader, engine.DefaultOptions()), nil)
	srv := New(types.ServeConfig{Page: pagePath}, w, nil, nil)
	return fixture{srv: srv, indexCalls: &calls}
}

func (f fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSearchPage_RendersResults(t *testing.T) {
	f := newFixture(t, hostPage)

	rec := f.get(t, "/search?q=%EC%A0%9C%EB%84%A4%EB%A6%AD") // 제네릭

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `&#34;제네릭&#34;에 대한 검색 결과 1건`)
	assert.Contains(t, body, `<a href="/notes/go-generics/">Go 제네릭</a>`)
	assert.Contains(t, body, `<span class="search-result__taxonomy">notes</span>`)
	assert.NotContains(t, body, "/travel/jeju/")
}

func TestSearchPage_ShortQuerySkipsIndex(t *testing.T) {
	f := newFixture(t, hostPage)

	rec := f.get(t, "/search?q=a")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "검색어를 2자 이상 입력해 주세요.")
	assert.Equal(t, int32(0), atomic.LoadInt32(f.indexCalls))
}

func TestSearchPage_WithoutAnchorsIsUntouched(t *testing.T) {
	f := newFixture(t, `<html><body><p>no search here</p></body></html>`)

	rec := f.get(t, "/search?q=go")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no search here")
	assert.Equal(t, int32(0), atomic.LoadInt32(f.indexCalls))
}

func TestSearchPage_IndexFetchedOncePerProcess(t *testing.T) {
	f := newFixture(t, hostPage)

	for _, q := range []string{"go", "제주", "select"} {
		rec := f.get(t, "/search?q="+q)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(f.indexCalls))
}

func TestSearchPage_MissingPage(t *testing.T) {
	f := newFixture(t, hostPage)
	f.srv.page = filepath.Join(t.TempDir(), "gone.html")

	rec := f.get(t, "/search?q=go")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPISearch(t *testing.T) {
	f := newFixture(t, hostPage)

	rec := f.get(t, "/api/search?q=go&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "go", resp.Query)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, `"go"에 대한 검색 결과 2건`, resp.Message)
	require.Len(t, resp.Results, 1)
	assert.True(t, strings.HasPrefix(resp.Results[0].Permalink, "/notes/go"))
	assert.Equal(t, 0.0, resp.Results[0].Score)
}

func TestAPISearch_Validation(t *testing.T) {
	f := newFixture(t, hostPage)

	for target, want := range map[string]string{
		"/api/search":      "검색어를 입력해 주세요.",
		"/api/search?q=+x": "검색어를 2자 이상 입력해 주세요.",
	} {
		rec := f.get(t, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var e apiError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.Equal(t, want, e.Error)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(f.indexCalls))
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, hostPage)

	rec := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog_search_corpus_records -1")

	f.get(t, "/search?q=go")
	f.get(t, "/search?q=x")

	rec = f.get(t, "/metrics")
	body := rec.Body.String()
	assert.Contains(t, body, `blog_search_activations_total{phase="rendered"} 1`)
	assert.Contains(t, body, `blog_search_activations_total{phase="too_short"} 1`)
	assert.Contains(t, body, "blog_search_corpus_records 3")
}
