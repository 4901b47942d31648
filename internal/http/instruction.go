package http

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"frontier/hub/internal/model"
	"frontier/hub/internal/notify"
	"frontier/hub/internal/policy"
)

type requestInstructionRequest struct {
	SkillID string `json:"skillId"`
	CadetID string `json:"cadetId"`
}

type requestInstructionResponse struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

func (s *Server) handleRequestInstruction(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
		return
	}

	var req requestInstructionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.SkillID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "skillId required")
		return
	}
	if req.CadetID == "" {
		req.CadetID = claims.UserID
	}
	// No proxy requests: cadets only request instruction for themselves.
	if req.CadetID != claims.UserID {
		writeError(w, http.StatusForbidden, codeForbidden, "cannot request instruction for another user")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusForbidden, codeForbidden, "no profile")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if policy.IsSuspended(&profile) {
		writeError(w, http.StatusForbidden, codeForbidden, "account suspended")
		return
	}

	skill, err := s.store.GetSkill(r.Context(), req.SkillID)
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown skill")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}

	record := model.InstructionRequest{
		ID:        uuid.NewString(),
		SkillID:   skill.ID,
		CadetID:   req.CadetID,
		Status:    model.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateInstructionRequest(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}

	// Mentor notification is best effort and outside the commit boundary:
	// the request exists regardless of what happens here.
	s.notifyMentors(r, record, skill)

	writeJSON(w, http.StatusOK, requestInstructionResponse{
		RequestID: record.ID,
		Status:    record.Status,
	})
}

func (s *Server) notifyMentors(r *http.Request, record model.InstructionRequest, skill model.Skill) {
	mentors, err := s.store.ListCertifiedUserIDs(r.Context(), skill.ID)
	if err != nil {
		log.Printf("mentor lookup failed for request %s: %v", record.ID, err)
		return
	}
	payload := notify.Notification{
		Type:      "academy_request",
		SkillID:   skill.ID,
		CadetID:   record.CadetID,
		RequestID: record.ID,
		SkillName: skill.Name,
	}
	for _, mentorID := range mentors {
		if err := s.queue.Enqueue(r.Context(), mentorID, payload); err != nil {
			log.Printf("notification enqueue failed for mentor %s, request %s: %v", mentorID, record.ID, err)
		}
	}
}

type acceptInstructionRequest struct {
	RequestID string `json:"requestId"`
	GuideID   string `json:"guideId"`
}

type connectionTokens struct {
	Cadet string `json:"cadet"`
	Guide string `json:"guide"`
}

type acceptInstructionResponse struct {
	SimPodID         string           `json:"simPodId"`
	ConnectionTokens connectionTokens `json:"connectionTokens"`
	ServerURL        string           `json:"serverUrl"`
}

func (s *Server) handleAcceptInstruction(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
		return
	}

	var req acceptInstructionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.RequestID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "requestId required")
		return
	}
	guideID := req.GuideID
	if guideID == "" {
		guideID = claims.UserID
	}

	guide, err := s.store.GetProfile(r.Context(), guideID)
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusForbidden, codeForbidden, "no guide profile")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if policy.IsSuspended(&guide) {
		writeError(w, http.StatusForbidden, codeForbidden, "account suspended")
		return
	}

	request, err := s.store.GetInstructionRequest(r.Context(), req.RequestID)
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown request")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if request.Status != "" && request.Status != model.RequestStatusPending {
		writeError(w, http.StatusBadRequest, codeBadRequest, "not pending")
		return
	}

	certified, err := s.store.HasCertification(r.Context(), guideID, request.SkillID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if !certified {
		writeError(w, http.StatusForbidden, codeForbidden, "not certified for skill")
		return
	}

	simPodID := "simpod-" + uuid.NewString()
	won, err := s.store.AcceptInstructionRequest(r.Context(), request.ID, guideID, simPodID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if !won {
		// Another guide won between our status check and the conditional
		// update; the guard made this update affect zero rows.
		writeError(w, http.StatusConflict, codeConflict, "not pending")
		return
	}

	cadetToken, cadetErr := s.signer.RoomToken(request.CadetID, "", simPodID, true, true)
	guideToken, guideErr := s.signer.RoomToken(guideID, guide.DisplayName, simPodID, true, true)
	if cadetErr != nil || guideErr != nil {
		// The status transition has committed; there is no rollback to
		// PENDING. Surface the failure and leave the request ACTIVE for
		// manual attention.
		log.Printf("credential mint failed after accept of request %s (room %s): cadet=%v guide=%v", request.ID, simPodID, cadetErr, guideErr)
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}

	writeJSON(w, http.StatusOK, acceptInstructionResponse{
		SimPodID:         simPodID,
		ConnectionTokens: connectionTokens{Cadet: cadetToken, Guide: guideToken},
		ServerURL:        s.cfg.MediaServerURL,
	})
}

type instructionRequestResponse struct {
	RequestID     string  `json:"requestId"`
	SkillID       string  `json:"skillId"`
	CadetID       string  `json:"cadetId"`
	Status        string  `json:"status"`
	GuideID       *string `json:"guideId"`
	SessionRoomID *string `json:"sessionRoomId"`
}

func (s *Server) handleGetInstructionRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	request, err := s.store.GetInstructionRequest(r.Context(), requestID)
	if err != nil {
		if isNoRows(err) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown request")
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}

	// Visible to the parties involved and to founders and above.
	visible := request.CadetID == claims.UserID
	if !visible && request.GuideID != nil && *request.GuideID == claims.UserID {
		visible = true
	}
	if !visible {
		profile, err := s.store.GetProfile(r.Context(), claims.UserID)
		if err == nil && policy.HasMinRank(&profile, "founder") {
			visible = true
		}
	}
	if !visible {
		writeError(w, http.StatusForbidden, codeForbidden, "")
		return
	}

	writeJSON(w, http.StatusOK, instructionRequestResponse{
		RequestID:     request.ID,
		SkillID:       request.SkillID,
		CadetID:       request.CadetID,
		Status:        request.Status,
		GuideID:       request.GuideID,
		SessionRoomID: request.SessionRoomID,
	})
}
