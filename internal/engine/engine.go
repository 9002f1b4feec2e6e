// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine ranks corpus records against a query.
//
// The ranking itself is delegated to Bleve. This package owns the capability
// boundary around it (Library: is the scoring engine available?), the fixed
// field-weighting policy, and the translation of Bleve relevance into the
// ascending score convention the rest of blog-search uses.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/blog-search/pkg/types"
)

// ErrLibraryUnavailable wraps every failure to make the scoring engine
// available. It is fatal to the search that needed it.
var ErrLibraryUnavailable = errors.New("scoring library unavailable")

// Library makes the scoring engine available. Load may be slow and may
// fail; callers memoize it.
type Library interface {
	Load(ctx context.Context) (Builder, error)
}

// LibraryFunc adapts a function to Library.
type LibraryFunc func(ctx context.Context) (Builder, error)

// Load calls f.
func (f LibraryFunc) Load(ctx context.Context) (Builder, error) { return f(ctx) }

// Builder constructs an engine over a corpus.
type Builder interface {
	Build(ctx context.Context, corpus []types.SearchRecord, opts Options) (Engine, error)
}

// Engine executes queries. Matches come back best first.
type Engine interface {
	Search(ctx context.Context, query string) ([]types.Match, error)
}

// Field names a searchable SearchRecord field.
type Field string

const (
	FieldTitle      Field = "title"
	FieldSummary    Field = "summary"
	FieldContent    Field = "content"
	FieldTags       Field = "tags"
	FieldCategories Field = "categories"
)

// FieldWeight assigns a relative weight to a field.
type FieldWeight struct {
	Field  Field
	Weight float64
}

// Options configures matching.
type Options struct {
	// Keys lists the searched fields and their weights.
	Keys []FieldWeight

	// Threshold is the tolerated error ratio in [0, 1]; 0 demands exact
	// terms.
	Threshold float64

	// Location and Distance bound where in a field a match may start when
	// IgnoreLocation is false.
	Location int
	Distance int

	// IgnoreLocation lets a match start anywhere in a field.
	IgnoreLocation bool
}

// DefaultOptions is the fixed policy used by the search widget.
func DefaultOptions() Options {
	return Options{
		Keys: []FieldWeight{
			{FieldTitle, 0.6},
			{FieldSummary, 0.2},
			{FieldContent, 0.2},
			{FieldTags, 0.1},
			{FieldCategories, 0.1},
		},
		Threshold:      0.35,
		Distance:       200,
		IgnoreLocation: true,
	}
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	if len(o.Keys) == 0 {
		return errors.New("no search keys configured")
	}
	for _, k := range o.Keys {
		switch k.Field {
		case FieldTitle, FieldSummary, FieldContent, FieldTags, FieldCategories:
		default:
			return fmt.Errorf("unknown search key %q", k.Field)
		}
		if k.Weight <= 0 {
			return fmt.Errorf("search key %q: weight must be positive, got %v", k.Field, k.Weight)
		}
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %v", o.Threshold)
	}
	if !o.IgnoreLocation && (o.Location < 0 || o.Distance <= 0) {
		return fmt.Errorf("location %d and distance %d must bound a non-empty window", o.Location, o.Distance)
	}
	return nil
}
