package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/catalogd/internal/domain"
	searchuc "github.com/kailas-cloud/catalogd/internal/usecase/search"
)

const (
	scopeParamPrefix = "scope["
	scopeParamSuffix = "]"
)

// searchParams holds the bound query string of GET /api/search.
type searchParams struct {
	Query      string
	Categories []string
	Limit      *int
	MatchMode  *string
	Scopes     map[string]string
}

func bindSearchParams(q url.Values) (searchParams, error) {
	p := searchParams{Query: q.Get("query")}
	if err := runtime.BindQueryParameter("form", false, false, "categories", q, &p.Categories); err != nil {
		return p, fmt.Errorf("%w: invalid format for parameter categories", domain.ErrInvalidQuery)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return p, fmt.Errorf("%w: invalid format for parameter limit", domain.ErrInvalidQuery)
	}
	if err := runtime.BindQueryParameter("form", true, false, "matchMode", q, &p.MatchMode); err != nil {
		return p, fmt.Errorf("%w: invalid format for parameter matchMode", domain.ErrInvalidQuery)
	}
	p.Scopes = scopeOverrides(q)
	return p, nil
}

// request converts bound parameters into a search request. Category names
// and scope keys are trimmed and lower-cased; blank names are dropped.
func (p searchParams) request() searchuc.Request {
	req := searchuc.Request{Query: p.Query, Scopes: p.Scopes}
	for _, c := range p.Categories {
		if c = normalizeName(c); c != "" {
			req.Categories = append(req.Categories, c)
		}
	}
	if p.Limit != nil {
		req.Limit = *p.Limit
	}
	if p.MatchMode != nil {
		req.MatchMode = *p.MatchMode
	}
	return req
}

// scopeOverrides collects scope[<category>]=<scope> parameters.
func scopeOverrides(q url.Values) map[string]string {
	scopes := make(map[string]string)
	for key, values := range q {
		if !strings.HasPrefix(key, scopeParamPrefix) || !strings.HasSuffix(key, scopeParamSuffix) {
			continue
		}
		cat := normalizeName(key[len(scopeParamPrefix) : len(key)-len(scopeParamSuffix)])
		if cat == "" || len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			scopes[cat] = v
		}
	}
	return scopes
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseBoolParam reads an optional boolean query parameter.
func parseBoolParam(q url.Values, name string, def bool) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%w: parameter %s must be a boolean", domain.ErrInvalidQuery, name)
	}
	return v, nil
}

// parseID reads a positive int64 path parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidQuery, raw)
	}
	return id, nil
}
