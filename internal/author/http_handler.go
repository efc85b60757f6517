package author

import (
	"net/http"

	"booklib/internal/book"
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

// Search handles GET /authors?name=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.FindByNamePart(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("author search failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	refs := lo.Map(authors, func(a *book.Author, _ int) book.AuthorRef {
		return book.AuthorRef{ID: a.ID, Name: a.Name}
	})
	httpx.JSONSuccess(w, r, refs, map[string]interface{}{"count": len(refs)})
}
