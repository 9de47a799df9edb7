package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

// ParseIDParam reads a positive integer path parameter. Anything else cannot name a row,
// so it is reported as resource not found.
func ParseIDParam(r *http.Request, key, resource string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.NotFound(resource)
	}
	return id, nil
}
