package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"booklib/internal/database"
	"booklib/internal/httpx"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /books
//
// ?q= restricts the result to titles containing q; ?authors=false skips loading authors.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	withAuthors := true
	if v := query.Get("authors"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "authors must be a boolean", nil)
			return
		}
		withAuthors = parsed
	}

	var (
		books []*Book
		err   error
	)
	switch q := strings.TrimSpace(query.Get("q")); {
	case q != "" && !withAuthors:
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "q cannot be combined with authors=false", nil)
		return
	case q != "":
		books, err = h.service.SearchByTitle(r.Context(), q)
	case !withAuthors:
		books, err = h.service.ListWithoutAuthors(r.Context())
	default:
		books, err = h.service.List(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, NewBookResponses(books), map[string]interface{}{"count": len(books)})
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponse(b), nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSaveRequest(w, r)
	if !ok {
		return
	}

	b := NewBook(strings.TrimSpace(req.Title), req.PublishYear, req.AuthorIDs...)
	if err := h.service.Save(r.Context(), b); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, NewBookResponse(b))
}

// Update handles PUT /books/{id}. The author list replaces the stored one.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSaveRequest(w, r)
	if !ok {
		return
	}

	b := NewBook(strings.TrimSpace(req.Title), req.PublishYear, req.AuthorIDs...)
	b.assignID(id)
	if err := h.service.Save(r.Context(), b); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewBookResponse(b), nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func decodeSaveRequest(w http.ResponseWriter, r *http.Request) (SaveBookRequest, bool) {
	var req SaveBookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", nil)
		return req, false
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid input", details)
		return req, false
	}
	return req, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *ValidationError
		missingErr    *MissingAuthorError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.As(err, &validationErr):
		details := lo.Map(validationErr.UnknownAuthorIDs, func(id int64, _ int) httpx.ErrorDetail {
			return httpx.ErrorDetail{Field: "author_ids", Message: fmt.Sprintf("author %d does not exist", id)}
		})
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "UNKNOWN_AUTHOR", "Unknown author ids", details)
	case database.IsForeignKeyViolation(err):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "UNKNOWN_AUTHOR", "Referenced author no longer exists", nil)
	case errors.As(err, &missingErr):
		h.log.Warn().Int64("book_id", missingErr.BookID).Str("request_id", httpx.RequestIDFrom(r)).Msg("book stored without authors")
		httpx.JSONError(w, r, http.StatusInternalServerError, "MISSING_AUTHOR",
			fmt.Sprintf("Book %d has no authors", missingErr.BookID), nil)
	default:
		h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("book request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
