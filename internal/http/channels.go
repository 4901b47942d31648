package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frontier/hub/internal/model"
	"frontier/hub/internal/policy"
)

type channelPermissionsResponse struct {
	CanAccess bool `json:"canAccess"`
	CanPost   bool `json:"canPost"`
}

func (s *Server) handleChannelPermissions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
		return
	}

	channel, err := s.store.GetChannel(r.Context(), chi.URLParam(r, "channelID"))
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown channel")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), claims.UserID)
	if err != nil && !isNoRows(err) {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	var user *model.Profile
	if err == nil {
		user = &profile
	}

	writeJSON(w, http.StatusOK, channelPermissionsResponse{
		CanAccess: policy.CanAccessChannel(user, &channel),
		CanPost:   policy.CanPostInChannel(user, &channel),
	})
}
