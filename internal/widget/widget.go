// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package widget runs one search activation: read the query from the page
// URL, validate it, make the engine ready, run the query once, and commit
// the rendered result to the page's display.
//
// Activation phases:
//
//	Idle → ValidatingQuery → EmptyQuery | TooShort
//	                       → Loading → Ready → Rendered
//	                                 → Failed
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/blog-search/internal/render"
	"github.com/pdiddy/blog-search/pkg/types"
)

// MinQueryLength is the shortest query, in characters, that is searched.
const MinQueryLength = 2

// QueryParam is the page URL parameter carrying the raw query.
const QueryParam = "q"

var (
	ErrQueryEmpty    = errors.New("query is empty")
	ErrQueryTooShort = fmt.Errorf("query is shorter than %d characters", MinQueryLength)
)

// Phase is a point in the activation lifecycle.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseValidatingQuery Phase = "validating_query"
	PhaseEmptyQuery      Phase = "empty_query"
	PhaseTooShort        Phase = "too_short"
	PhaseLoading         Phase = "loading"
	PhaseReady           Phase = "ready"
	PhaseRendered        Phase = "rendered"
	PhaseFailed          Phase = "failed"
)

// Terminal reports whether p ends an activation.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseIdle, PhaseEmptyQuery, PhaseTooShort, PhaseRendered, PhaseFailed:
		return true
	}
	return false
}

// Display is where an activation shows its outcome. page.Anchors is the
// production implementation.
type Display interface {
	SetMessage(text string)
	ReplaceResults(cards []render.Card) error
}

// Widget runs activations against a shared SearchState.
type Widget struct {
	state *SearchState

	// Log receives diagnostics. Nil discards them.
	Log io.Writer

	// OnPhase, when set, observes every phase an activation enters.
	OnPhase func(Phase)
}

// New returns a widget over state.
func New(state *SearchState, log io.Writer) *Widget {
	return &Widget{state: state, Log: log}
}

// State returns the shared search state.
func (w *Widget) State() *SearchState {
	return w.state
}

// Run performs one activation and returns the terminal phase reached. A nil
// display means the page has no search anchors; Run then does nothing.
func (w *Widget) Run(ctx context.Context, d Display, pageURL string) Phase {
	w.enter(PhaseIdle)
	if d == nil {
		return PhaseIdle
	}

	w.enter(PhaseValidatingQuery)
	query := QueryFromURL(pageURL)
	switch err := ValidateQuery(query); {
	case errors.Is(err, ErrQueryEmpty):
		d.SetMessage(render.MsgEmptyQuery)
		return w.enter(PhaseEmptyQuery)
	case errors.Is(err, ErrQueryTooShort):
		d.SetMessage(render.TooShortMessage(MinQueryLength))
		return w.enter(PhaseTooShort)
	}

	d.SetMessage(render.MsgSearching)
	w.enter(PhaseLoading)

	matches, err := w.search(ctx, query)
	if err != nil {
		return w.fail(d, query, err)
	}
	w.enter(PhaseReady)

	view := render.Render(matches, query)
	if err := d.ReplaceResults(view.Cards); err != nil {
		return w.fail(d, query, err)
	}
	d.SetMessage(view.Message)
	return w.enter(PhaseRendered)
}

// Search normalizes and validates query and runs it, without a display.
// Validation failures return ErrQueryEmpty or ErrQueryTooShort.
func (w *Widget) Search(ctx context.Context, query string) ([]types.Match, error) {
	query = NormalizeQuery(query)
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}
	matches, err := w.search(ctx, query)
	if err != nil {
		fmt.Fprintf(w.log(), "error: search for %q failed: %v\n", query, err)
		return nil, err
	}
	return matches, nil
}

func (w *Widget) search(ctx context.Context, query string) (matches []types.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()
	return w.state.Search(ctx, query)
}

func (w *Widget) fail(d Display, query string, err error) Phase {
	fmt.Fprintf(w.log(), "error: search for %q failed: %v\n", query, err)
	d.SetMessage(render.MsgFailed)
	return w.enter(PhaseFailed)
}

func (w *Widget) enter(p Phase) Phase {
	if w.OnPhase != nil {
		w.OnPhase(p)
	}
	return p
}

func (w *Widget) log() io.Writer {
	if w.Log == nil {
		return io.Discard
	}
	return w.Log
}

// QueryFromURL returns the normalized q parameter of pageURL. An
// unparsable URL carries no query.
func QueryFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return NormalizeQuery(queryValue(u.RawQuery, QueryParam))
}

// NormalizeQuery composes query to NFC, matching the corpus, and trims it.
// Length rules apply to the result.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(norm.NFC.String(query))
}

// queryValue returns the first value of key in a raw query string. Unlike
// url.ParseQuery it keeps pairs containing ';' and passes malformed
// escapes through verbatim.
func queryValue(rawQuery, key string) string {
	for pair := range strings.SplitSeq(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if unescapeQuery(k) == key {
			return unescapeQuery(v)
		}
	}
	return ""
}

func unescapeQuery(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

// ValidateQuery checks a normalized query against the length rules.
func ValidateQuery(query string) error {
	switch n := utf8.RuneCountInString(query); {
	case n == 0:
		return ErrQueryEmpty
	case n < MinQueryLength:
		return ErrQueryTooShort
	}
	return nil
}
