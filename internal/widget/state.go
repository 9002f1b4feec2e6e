// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/blog-search/internal/engine"
	"github.com/pdiddy/blog-search/internal/memo"
	"github.com/pdiddy/blog-search/pkg/types"
)

// CorpusLoader produces the corpus. Load must not fail: an unavailable
// index degrades to an empty corpus.
type CorpusLoader interface {
	Load(ctx context.Context) []types.SearchRecord
}

// CorpusLoaderFunc adapts a function to CorpusLoader.
type CorpusLoaderFunc func(ctx context.Context) []types.SearchRecord

// Load calls f.
func (f CorpusLoaderFunc) Load(ctx context.Context) []types.SearchRecord { return f(ctx) }

// SearchState holds the lazily loaded resources a search needs. Each
// resource is produced at most once; concurrent callers share the pending
// load and later callers get the stored result.
//
// The one exception is opt-in: with RetryEmptyCorpus, a corpus that
// degraded to empty is fetched again, at most once per interval.
type SearchState struct {
	library *memo.Lazy[engine.Builder]
	loader  CorpusLoader
	opts    engine.Options

	mu         sync.Mutex
	load       *corpusLoad
	retryEmpty time.Duration
}

// corpusLoad is one corpus fetch and the engine built over it.
type corpusLoad struct {
	corpus  *memo.Lazy[[]types.SearchRecord]
	engine  *memo.Lazy[engine.Engine]
	armedAt time.Time
}

// NewSearchState wires the loaders without starting any of them.
func NewSearchState(lib engine.Library, loader CorpusLoader, opts engine.Options) *SearchState {
	s := &SearchState{
		library: memo.New(lib.Load),
		loader:  loader,
		opts:    opts,
	}
	s.load = s.arm()
	return s
}

// RetryEmptyCorpus makes an empty corpus eligible for a fresh fetch once
// every has passed since the previous fetch was armed. Zero, the default,
// keeps the first result for the life of the state.
func (s *SearchState) RetryEmptyCorpus(every time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryEmpty = every
}

func (s *SearchState) arm() *corpusLoad {
	l := &corpusLoad{armedAt: time.Now()}
	l.corpus = memo.New(func(ctx context.Context) ([]types.SearchRecord, error) {
		return s.loader.Load(ctx), nil
	})
	l.engine = memo.New(func(ctx context.Context) (engine.Engine, error) {
		return s.build(ctx, l.corpus)
	})
	return l
}

// current returns the active load, re-arming it first when the corpus came
// back empty and the retry interval has passed.
func (s *SearchState) current() *corpusLoad {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retryEmpty > 0 && time.Since(s.load.armedAt) >= s.retryEmpty {
		if records, _, done := s.load.corpus.Peek(); done && len(records) == 0 {
			s.load = s.arm()
		}
	}
	return s.load
}

// Library returns the scoring library, loading it on first use.
func (s *SearchState) Library(ctx context.Context) (engine.Builder, error) {
	return s.library.Get(ctx)
}

// Corpus returns the corpus, loading it on first use. The only error is
// ctx ending while the load is pending.
func (s *SearchState) Corpus(ctx context.Context) ([]types.SearchRecord, error) {
	return s.current().corpus.Get(ctx)
}

// CorpusSize reports the number of loaded records. ok is false until the
// corpus has finished loading.
func (s *SearchState) CorpusSize() (n int, ok bool) {
	s.mu.Lock()
	l := s.load
	s.mu.Unlock()
	records, _, done := l.corpus.Peek()
	return len(records), done
}

// Preload starts the library and corpus loads without waiting for them.
func (s *SearchState) Preload(ctx context.Context) {
	s.library.Start(ctx)
	s.current().corpus.Start(ctx)
}

// EnsureReady loads the library and the corpus concurrently, then builds
// the engine once over the corpus.
func (s *SearchState) EnsureReady(ctx context.Context) (engine.Engine, error) {
	return s.current().engine.Get(ctx)
}

func (s *SearchState) build(ctx context.Context, corpus *memo.Lazy[[]types.SearchRecord]) (engine.Engine, error) {
	var (
		builder engine.Builder
		records []types.SearchRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.Library(gctx)
		if err != nil {
			if errors.Is(err, engine.ErrLibraryUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %w", engine.ErrLibraryUnavailable, err)
		}
		builder = b
		return nil
	})
	g.Go(func() error {
		r, err := corpus.Get(gctx)
		records = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e, err := builder.Build(ctx, records, s.opts)
	if err != nil {
		return nil, fmt.Errorf("building search engine: %w", err)
	}
	return e, nil
}

// Search runs query once the state is ready.
func (s *SearchState) Search(ctx context.Context, query string) ([]types.Match, error) {
	e, err := s.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	return e.Search(ctx, query)
}
