// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns ranked matches into the presentation shown on the
// search page. Render is pure; committing a View to a page or terminal
// happens elsewhere.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/blog-search/pkg/types"
)

// ExcerptLength is the number of characters kept before truncation.
const ExcerptLength = 160

// Ellipsis marks a truncated excerpt.
const Ellipsis = "…"

// Divider separates the taxonomy line from the date.
const Divider = " · "

// Fixed user-facing messages.
const (
	MsgEmptyQuery = "검색어를 입력해 주세요."
	MsgSearching  = "검색 중입니다…"
	MsgFailed     = "검색 중 오류가 발생했습니다."
)

// TooShortMessage asks for at least n characters.
func TooShortMessage(n int) string {
	return fmt.Sprintf("검색어를 %d자 이상 입력해 주세요.", n)
}

// NoResultsMessage reports that query matched nothing.
func NoResultsMessage(query string) string {
	return `"` + query + `"에 대한 검색 결과가 없습니다.`
}

// CountMessage reports how many results query produced.
func CountMessage(query string, n int) string {
	return fmt.Sprintf(`"%s"에 대한 검색 결과 %d건`, query, n)
}

// Card is one rendered result.
type Card struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`

	// Meta is the taxonomy line: categories, else section, else empty.
	Meta string `json:"meta,omitempty"`
	Date string `json:"date,omitempty"`

	// Divider is set when both Meta and Date are shown.
	Divider bool `json:"divider,omitempty"`

	Excerpt string `json:"excerpt,omitempty"`
}

// View is the complete presentation for one query.
type View struct {
	Message string `json:"message"`
	Cards   []Card `json:"cards"`
}

// Render builds the view for matches in the order given.
func Render(matches []types.Match, query string) View {
	if len(matches) == 0 {
		return View{Message: NoResultsMessage(query), Cards: []Card{}}
	}
	cards := make([]Card, 0, len(matches))
	for _, m := range matches {
		cards = append(cards, NewCard(m.Record))
	}
	return View{Message: CountMessage(query, len(matches)), Cards: cards}
}

// NewCard renders a single record.
func NewCard(r types.SearchRecord) Card {
	meta := Meta(r)
	return Card{
		Title:     r.Title,
		Permalink: r.Permalink,
		Meta:      meta,
		Date:      r.Date,
		Divider:   meta != "" && r.Date != "",
		Excerpt:   Excerpt(r),
	}
}

// Meta returns the categories joined by ", ", else the section, else "".
func Meta(r types.SearchRecord) string {
	if len(r.Categories) > 0 {
		return strings.Join(r.Categories, ", ")
	}
	return r.Section
}

// Excerpt returns the summary, else the content, cut to ExcerptLength
// characters with Ellipsis appended when anything was cut.
func Excerpt(r types.SearchRecord) string {
	text := r.Summary
	if text == "" {
		text = r.Content
	}
	return Truncate(text, ExcerptLength)
}

// Truncate cuts s to n runes, appending Ellipsis when s was longer.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + Ellipsis
}
