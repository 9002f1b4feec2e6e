// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package page binds the search widget to a host HTML page.
//
// A page takes part in search by carrying a root element marked with
// data-search-root that contains a results container and a message
// container. Pages without all three anchors are left untouched.
package page

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/blog-search/internal/render"
)

// Anchor selectors.
const (
	RootSelector    = "[data-search-root]"
	ResultsSelector = "[data-search-results]"
	MessageSelector = "[data-search-message]"
)

// Document is a parsed host page.
type Document struct {
	doc *goquery.Document
}

// Parse reads a host page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing host page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Locate finds the search anchors. ok is false when any is missing.
func (d *Document) Locate() (a *Anchors, ok bool) {
	root := d.doc.Find(RootSelector).First()
	if root.Length() == 0 {
		return nil, false
	}
	results := root.Find(ResultsSelector).First()
	message := root.Find(MessageSelector).First()
	if results.Length() == 0 || message.Length() == 0 {
		return nil, false
	}
	return &Anchors{results: results, message: message}, true
}

// Render writes the whole document, including any committed results.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("rendering host page: %w", err)
		}
	}
	return nil
}

// Anchors are the located search elements of a page.
type Anchors struct {
	results *goquery.Selection
	message *goquery.Selection
}

// SetMessage replaces the message container's text.
func (a *Anchors) SetMessage(text string) {
	a.message.SetText(text)
}

// ReplaceResults replaces the results container's children with cards.
func (a *Anchors) ReplaceResults(cards []render.Card) error {
	markup, err := render.HTML(cards)
	if err != nil {
		return err
	}
	a.results.SetHtml(markup)
	return nil
}

// Message returns the message container's current text.
func (a *Anchors) Message() string {
	return a.message.Text()
}

// ResultCount returns how many result cards the results container holds.
func (a *Anchors) ResultCount() int {
	return a.results.Find("article.search-result").Length()
}
