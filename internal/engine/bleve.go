// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/pdiddy/blog-search/pkg/types"
)

// maxFuzziness is the largest edit distance Bleve accepts.
const maxFuzziness = 2

// Bundled is the Library backed by the Bleve engine compiled into the binary.
type Bundled struct{}

// Load verifies the engine can open an in-memory index.
func (Bundled) Load(context.Context) (Builder, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("%w: opening scratch index: %v", ErrLibraryUnavailable, err)
	}
	if err := idx.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing scratch index: %v", ErrLibraryUnavailable, err)
	}
	return bleveBuilder{}, nil
}

type bleveBuilder struct{}

// Build indexes the corpus in memory. Document IDs are zero-padded corpus
// positions so that sorting by ID preserves corpus order among ties.
func (bleveBuilder) Build(ctx context.Context, corpus []types.SearchRecord, opts Options) (Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}

	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for i, r := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := batch.Index(docID(i), document(r, opts)); err != nil {
			return nil, fmt.Errorf("indexing record %d (%s): %w", i, r.Permalink, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("indexing corpus: %w", err)
	}

	return &bleveEngine{idx: idx, corpus: corpus, opts: opts}, nil
}

type bleveEngine struct {
	idx    bleve.Index
	corpus []types.SearchRecord
	opts   Options
}

// Search returns every record matching query, best first.
func (e *bleveEngine) Search(ctx context.Context, q string) ([]types.Match, error) {
	terms := queryTerms(q)
	if len(terms) == 0 || len(e.corpus) == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(e.buildQuery(q, terms), len(e.corpus), 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := e.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", q, err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}

	top := res.Hits[0].Score
	matches := make([]types.Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(e.corpus) {
			return nil, fmt.Errorf("engine returned unknown document %q", hit.ID)
		}
		matches = append(matches, types.Match{Record: e.corpus[i], Score: ascending(hit.Score, top)})
	}
	return matches, nil
}

// buildQuery ORs a fuzzy term match per weighted field. With IgnoreLocation
// each term also matches as a substring of any indexed token, which is what
// lets "검색" find "검색을".
func (e *bleveEngine) buildQuery(q string, terms []string) query.Query {
	fuzziness := fuzzinessFor(terms, e.opts.Threshold)

	var clauses []query.Query
	for _, k := range e.opts.Keys {
		field := string(k.Field)

		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		mq.SetFuzziness(fuzziness)
		mq.SetBoost(k.Weight)
		clauses = append(clauses, mq)

		if !e.opts.IgnoreLocation {
			continue
		}
		for _, t := range terms {
			wq := bleve.NewWildcardQuery("*" + t + "*")
			wq.SetField(field)
			wq.SetBoost(k.Weight)
			clauses = append(clauses, wq)
		}
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// fuzzinessFor allows threshold errors per rune of the shortest term.
func fuzzinessFor(terms []string, threshold float64) int {
	shortest := -1
	for _, t := range terms {
		if n := utf8.RuneCountInString(t); shortest < 0 || n < shortest {
			shortest = n
		}
	}
	f := int(threshold * float64(shortest))
	if f > maxFuzziness {
		f = maxFuzziness
	}
	if f < 0 {
		f = 0
	}
	return f
}

// queryTerms lowercases and splits q, dropping wildcard metacharacters.
func queryTerms(q string) []string {
	clean := strings.NewReplacer("*", " ", "?", " ").Replace(strings.ToLower(q))
	return strings.Fields(clean)
}

// ascending maps Bleve relevance (higher is better) onto [0, 1] where 0 is
// the best hit of this query.
func ascending(score, top float64) float64 {
	if top <= 0 {
		return 1
	}
	s := 1 - score/top
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func docID(i int) string {
	return fmt.Sprintf("%08d", i)
}

func newMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()
	m.StoreDynamic = false
	m.DocValuesDynamic = false
	return m
}

// document projects the searchable fields of r. Unsearched fields are left
// out so they cannot match.
func document(r types.SearchRecord, opts Options) map[string]interface{} {
	doc := make(map[string]interface{}, len(opts.Keys))
	for _, k := range opts.Keys {
		switch k.Field {
		case FieldTitle:
			doc[string(k.Field)] = window(r.Title, opts)
		case FieldSummary:
			doc[string(k.Field)] = window(r.Summary, opts)
		case FieldContent:
			doc[string(k.Field)] = window(r.Content, opts)
		case FieldTags:
			doc[string(k.Field)] = r.Tags
		case FieldCategories:
			doc[string(k.Field)] = r.Categories
		}
	}
	return doc
}

// window keeps the part of s a location-bound match may start in.
func window(s string, opts Options) string {
	if opts.IgnoreLocation {
		return s
	}
	runes := []rune(s)
	start := opts.Location
	if start > len(runes) {
		return ""
	}
	end := start + opts.Distance
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}
