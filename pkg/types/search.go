// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for blog-search: the records
// published in the site's search index, ranked matches, and configuration.
package types

// SearchRecord is one indexed document from the site's /index.json. Records
// are immutable once loaded; the full set for one activation is the corpus.
type SearchRecord struct {
	// Title is the post title.
	Title string `json:"title" yaml:"title"`

	// Summary is the post summary, when the generator emits one.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Content is the post body as plain text (or HTML before normalization).
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Tags lists the post tags in front-matter order.
	Tags []string `json:"tags" yaml:"tags"`

	// Categories lists the post categories in front-matter order.
	Categories []string `json:"categories" yaml:"categories"`

	// Permalink is the absolute or site-relative URL of the post.
	Permalink string `json:"permalink" yaml:"permalink"`

	// Date is the display-formatted publication date (e.g. "2025-03-14").
	Date string `json:"date" yaml:"date"`

	// Section is the content section the post lives in (e.g. "notes").
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Match pairs a record with its score. Scores ascend: 0 is a perfect match
// and 1 the weakest match the engine still returned.
type Match struct {
	Record SearchRecord `json:"record" yaml:"record"`
	Score  float64      `json:"score" yaml:"score"`
}
