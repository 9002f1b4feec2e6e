// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var cardsTemplate = template.Must(template.New("cards").Parse(
	`{{range .}}<article class="search-result">` +
		`<h2 class="search-result__title"><a href="{{.Permalink}}">{{.Title}}</a></h2>` +
		`<p class="search-result__meta">` +
		`{{if .Meta}}<span class="search-result__taxonomy">{{.Meta}}</span>{{end}}` +
		`{{if .Divider}}<span class="search-result__divider">` + Divider + `</span>{{end}}` +
		`{{if .Date}}<time class="search-result__date">{{.Date}}</time>{{end}}` +
		`</p>` +
		`{{if .Excerpt}}<p class="search-result__excerpt">{{.Excerpt}}</p>{{end}}` +
		`</article>{{end}}`))

// HTML returns the markup for cards, escaped for insertion as the results
// container's children. No cards yield an empty string.
func HTML(cards []Card) (string, error) {
	var buf bytes.Buffer
	if err := cardsTemplate.Execute(&buf, cards); err != nil {
		return "", fmt.Errorf("rendering result cards: %w", err)
	}
	return buf.String(), nil
}
