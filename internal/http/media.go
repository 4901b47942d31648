package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"frontier/hub/internal/policy"
)

const serviceTokenHeader = "X-Service-Token"

type mediaTokenRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
	Identity        string `json:"identity"`
	Role            string `json:"role"`
}

type mediaTokenResponse struct {
	Token string `json:"token"`
}

// handleMediaToken issues a single room token on behalf of a trusted caller.
// Publish capability is withheld for the lowest rank tier and below.
func (s *Server) handleMediaToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.Header.Get(serviceTokenHeader))
	if token == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing service token")
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.ServiceAuthToken)) != 1 {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid service token")
		return
	}

	var req mediaTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.RoomName == "" || req.Identity == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "roomName and identity required")
		return
	}

	canPublish := policy.RankValue(req.Role) > policy.RankValue("vagrant")
	minted, err := s.signer.RoomToken(req.Identity, req.ParticipantName, req.RoomName, canPublish, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	writeJSON(w, http.StatusOK, mediaTokenResponse{Token: minted})
}
