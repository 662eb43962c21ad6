package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hometracker/internal/http/respond"
)

// pathID parses the {id} URL parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
