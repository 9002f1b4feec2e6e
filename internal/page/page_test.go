package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blog-search/internal/render"
)

const hostPage = `<!DOCTYPE html>
<html lang="ko"><head><title>검색</title></head>
<body>
<main>
  <section data-search-root>
    <p data-search-message>검색어를 입력해 주세요.</p>
    <div data-search-results><article class="search-result">stale</article></div>
  </section>
</main>
</body></html>`

func parse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return d
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		wantOK bool
	}{
		{"all anchors", hostPage, true},
		{"no root", `<div data-search-results></div><p data-search-message></p>`, false},
		{"no results", `<section data-search-root><p data-search-message></p></section>`, false},
		{"no message", `<section data-search-root><div data-search-results></div></section>`, false},
		{"anchors outside root", `<section data-search-root></section><div data-search-results></div><p data-search-message></p>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := parse(t, tt.page).Locate()
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, a)
			}
		})
	}
}

func TestAnchorsCommit(t *testing.T) {
	d := parse(t, hostPage)
	a, ok := d.Locate()
	require.True(t, ok)
	assert.Equal(t, 1, a.ResultCount())

	a.SetMessage(`"go"에 대한 검색 결과 2건`)
	require.NoError(t, a.ReplaceResults([]render.Card{
		{Title: "one", Permalink: "/1/"},
		{Title: "two", Permalink: "/2/"},
	}))

	assert.Equal(t, `"go"에 대한 검색 결과 2건`, a.Message())
	assert.Equal(t, 2, a.ResultCount(), "results are replaced, not appended")

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<a href="/1/">one</a>`)
	assert.NotContains(t, out, "stale")
}

func TestReplaceResultsClears(t *testing.T) {
	a, ok := parse(t, hostPage).Locate()
	require.True(t, ok)

	require.NoError(t, a.ReplaceResults(nil))
	assert.Equal(t, 0, a.ResultCount())
}
