package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListMovies handles GET /api/movies.
func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	writeList(s, w, r, s.catalog.ListMovies)
}

// GetMovie handles GET /api/movies/{id}.
func (s *Server) GetMovie(w http.ResponseWriter, r *http.Request) {
	writeOne(s, w, r, s.catalog.GetMovie)
}

// ListCharacters handles GET /api/characters.
func (s *Server) ListCharacters(w http.ResponseWriter, r *http.Request) {
	writeList(s, w, r, s.catalog.ListCharacters)
}

// GetCharacter handles GET /api/characters/{id}.
func (s *Server) GetCharacter(w http.ResponseWriter, r *http.Request) {
	writeOne(s, w, r, s.catalog.GetCharacter)
}

// ListAttractions handles GET /api/attractions.
func (s *Server) ListAttractions(w http.ResponseWriter, r *http.Request) {
	writeList(s, w, r, s.catalog.ListAttractions)
}

// GetAttraction handles GET /api/attractions/{id}.
func (s *Server) GetAttraction(w http.ResponseWriter, r *http.Request) {
	writeOne(s, w, r, s.catalog.GetAttraction)
}

func writeList[T any](s *Server, w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	items, err := list(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func writeOne[T any](s *Server, w http.ResponseWriter, r *http.Request, get func(context.Context, int64) (T, error)) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	item, err := get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
