// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the site's search index into memory.
//
// Loading never fails from the caller's point of view: a bad status, a
// payload that is not a JSON array, or a transport error is reported on the
// diagnostic writer and yields an empty corpus. Searches over an empty corpus
// simply return no matches.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/blog-search/internal/httputil"
	"github.com/pdiddy/blog-search/internal/secrets"
	"github.com/pdiddy/blog-search/pkg/types"
)

// ErrNotArray is returned by Decode when the index payload is valid JSON
// but not an array.
var ErrNotArray = errors.New("index payload is not a JSON array")

// maxIndexBytes bounds the index body read into memory.
const maxIndexBytes = 64 << 20

// Loader fetches and normalizes the corpus. Exactly one of URL or File
// should be set; File wins when both are.
type Loader struct {
	URL  string
	File string

	Client      *http.Client
	HTTP        types.HTTPConfig
	Credentials secrets.Secrets

	// Log receives warnings. Nil discards them.
	Log io.Writer
}

// Load returns the corpus, or an empty corpus if the index is unavailable.
func (l *Loader) Load(ctx context.Context) []types.SearchRecord {
	data, err := l.read(ctx)
	if err != nil {
		fmt.Fprintf(l.log(), "warning: search index unavailable, continuing with empty corpus: %v\n", err)
		return []types.SearchRecord{}
	}

	records, err := Decode(data)
	if err != nil {
		fmt.Fprintf(l.log(), "warning: search index %s unusable, continuing with empty corpus: %v\n", l.source(), err)
		return []types.SearchRecord{}
	}
	return Normalize(records)
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.File != "" {
		data, err := os.ReadFile(l.File)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", l.File, err)
		}
		return data, nil
	}
	if l.URL == "" {
		return nil, errors.New("no index URL or file configured")
	}
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if l.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", l.HTTP.UserAgent)
	}
	l.Credentials.Apply(req)

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: l.HTTP.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, l.HTTP.MaxRetries, l.Log)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", l.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", l.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.URL, err)
	}
	return data, nil
}

func (l *Loader) source() string {
	if l.File != "" {
		return l.File
	}
	return l.URL
}

func (l *Loader) log() io.Writer {
	if l.Log == nil {
		return io.Discard
	}
	return l.Log
}

// utf8BOM is stripped from payloads; some editors and CDNs prepend it.
var utf8BOM = []byte("\xef\xbb\xbf")

// Decode parses an index payload. Anything other than a JSON array of
// record objects is an error. A leading UTF-8 byte order mark is ignored.
func Decode(data []byte) ([]types.SearchRecord, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM))
	if len(trimmed) == 0 {
		return nil, errors.New("empty index payload")
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, errors.New("index payload is not valid JSON")
		}
		return nil, ErrNotArray
	}

	var records []types.SearchRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}
	return records, nil
}

// stripper removes every tag; Hugo's .Plain still leaks entities and the
// occasional shortcode remnant into summary and content.
var stripper = bluemonday.StrictPolicy()

// Normalize returns records with text in Unicode NFC and markup removed from
// summary and content. Nil slices become empty so records render uniformly.
func Normalize(records []types.SearchRecord) []types.SearchRecord {
	out := make([]types.SearchRecord, len(records))
	for i, r := range records {
		out[i] = types.SearchRecord{
			Title:      nfc(r.Title),
			Summary:    plain(r.Summary),
			Content:    plain(r.Content),
			Tags:       nfcAll(r.Tags),
			Categories: nfcAll(r.Categories),
			Permalink:  r.Permalink,
			Date:       r.Date,
			Section:    nfc(r.Section),
		}
	}
	return out
}

func plain(s string) string {
	if s == "" {
		return ""
	}
	return nfc(html.UnescapeString(stripper.Sanitize(s)))
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func nfcAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, nfc(s))
	}
	return out
}
