package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitchat/internal/service"
)

func handleListUsers(directory *service.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		profiles, err := directory.List(r.Context(), currentUser.ID, r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func handleGetUser(directory *service.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		if id == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing user id"})
			return
		}
		profile, err := directory.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}
