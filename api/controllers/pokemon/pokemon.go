package pokemon

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	"github.com/angelmondragon/pokeshop-api/api/validators"
	"github.com/angelmondragon/pokeshop-api/internal/pokemon"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

func List(svc pokemon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func Get(svc pokemon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "pokemon")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, p)
	}
}

// Info projects a single attribute, e.g. GET /pokemon/25/type -> {"type": "Electric"}.
func Info(svc pokemon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "info")))
		// a malformed id matches no row; the key is still validated first
		id, _ := validators.ParseIDParam(r, "id", "pokemon")

		info, err := svc.Info(r.Context(), id, key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}
