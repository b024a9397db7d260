package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/search/capability"
	"github.com/kailas-cloud/catalogd/internal/domain/search/match"
	"github.com/kailas-cloud/catalogd/internal/domain/search/result"
	"github.com/kailas-cloud/catalogd/internal/logger"
)

const (
	// DefaultLimit applies when a request asks for no positive per-category limit.
	DefaultLimit = 10
	// MinQueryLength is the shortest accepted trimmed query, in code points.
	MinQueryLength = 2
)

// Request is a multi-category keyword search.
type Request struct {
	Query      string
	Categories []string
	Scopes     map[string]string
	Limit      int
	MatchMode  string
}

// Service aggregates keyword matches across catalog categories.
type Service struct {
	caps    capability.Config
	sources map[string]Source
	rec     Recorder
}

// New creates a search service. Scope fields without an extractor and
// categories without a source are logged once here and skipped at query time.
func New(caps capability.Config, log *zap.Logger, rec Recorder, sources ...Source) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	s := &Service{
		caps:    caps,
		sources: make(map[string]Source, len(sources)),
		rec:     rec,
	}
	for _, src := range sources {
		s.sources[src.Category()] = src
	}

	for _, name := range caps.Categories.Keys() {
		src, ok := s.sources[name]
		if !ok {
			log.Warn("Search category has no data source", zap.String("category", name))
			continue
		}
		cat, _ := caps.Category(name)
		for _, scopeName := range cat.Scopes.Keys() {
			scope, _ := cat.Scopes.Get(scopeName)
			for _, f := range scope.Fields {
				if !src.HasField(f) {
					log.Warn("Search scope field has no extractor",
						zap.String("category", name),
						zap.String("scope", scopeName),
						zap.String("field", f),
						zap.Strings("known_fields", src.Fields()),
					)
				}
			}
		}
	}

	return s
}

// Capabilities returns the capability configuration verbatim.
func (s *Service) Capabilities() capability.Config {
	return s.caps
}

type plannedCategory struct {
	name   string
	source Source
	fields []string
	match  Matcher
}

// Search matches the query against every resolved category and returns the
// per-category results in resolution order.
func (s *Service) Search(ctx context.Context, req Request) (result.Response, error) {
	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return result.Response{}, fmt.Errorf(
			"%w: search query must be at least %d characters long", domain.ErrInvalidQuery, MinQueryLength)
	}

	mode, ok := match.Parse(req.MatchMode)
	if !ok {
		return result.Response{}, fmt.Errorf("%w: unknown match mode %q", domain.ErrInvalidQuery, req.MatchMode)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	plan := s.plan(ctx, req)

	g, gctx := errgroup.WithContext(ctx)
	for i := range plan {
		p := &plan[i]
		g.Go(func() error {
			m, err := p.source.Fetch(gctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", p.name, err)
			}
			p.match = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result.Response{}, err
	}

	resp := result.NewResponse()
	for _, p := range plan {
		cr := p.match(Query{Text: query, Fields: p.fields, Mode: mode, Limit: limit})
		s.rec.ObserveCategoryMatches(p.name, cr.Total)
		resp.Put(p.name, cr)
	}
	return resp, nil
}

// plan resolves requested categories and scopes into the ordered list of
// categories to scan. Unknown categories and unresolvable scopes are dropped.
func (s *Service) plan(ctx context.Context, req Request) []plannedCategory {
	log := logger.FromContext(ctx)

	names := s.caps.Categories.Keys()
	if len(req.Categories) > 0 {
		names = dedupe(req.Categories)
	}

	plan := make([]plannedCategory, 0, len(names))
	for _, name := range names {
		cat, ok := s.caps.Category(name)
		if !ok {
			log.Debug("Ignoring unknown search category", zap.String("category", name))
			continue
		}
		scope, scopeName, ok := cat.ResolveScope(req.Scopes[name])
		if !ok {
			log.Debug("Search category has no usable scope", zap.String("category", name))
			continue
		}
		src, ok := s.sources[name]
		if !ok {
			continue
		}

		fields := make([]string, 0, len(scope.Fields))
		for _, f := range scope.Fields {
			if !src.HasField(f) {
				log.Warn("Skipping search field without extractor",
					zap.String("category", name),
					zap.String("scope", scopeName),
					zap.String("field", f),
				)
				continue
			}
			fields = append(fields, f)
		}

		plan = append(plan, plannedCategory{name: name, source: src, fields: fields})
	}
	return plan
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
