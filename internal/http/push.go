package http

import (
	"net/http"
	"time"

	"frontier/hub/internal/model"
)

type registerPushRequest struct {
	Endpoint string `json:"endpoint"`
	Auth     string `json:"auth"`
	P256dh   string `json:"p256dh"`
}

func (s *Server) handleRegisterPush(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
		return
	}

	var req registerPushRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.Endpoint == "" || req.Auth == "" || req.P256dh == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "endpoint, auth, and p256dh required")
		return
	}

	sub := model.PushSubscription{
		UserID:    claims.UserID,
		Endpoint:  req.Endpoint,
		Auth:      req.Auth,
		P256dh:    req.P256dh,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertPushSubscription(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
