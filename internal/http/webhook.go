package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"frontier/hub/internal/media"
)

const mediaSignatureHeader = "X-Media-Signature"

// webhookEvent is the vendor payload. Only the fields this service mirrors
// are decoded; everything else is ignored.
type webhookEvent struct {
	Event string `json:"event"`
	Room  struct {
		Name string `json:"name"`
	} `json:"room"`
	Participant struct {
		Identity string `json:"identity"`
		Metadata string `json:"metadata"`
	} `json:"participant"`
	Timestamp int64 `json:"timestamp"`
}

// participantMetadata is the best-effort userId carrier inside participant
// metadata. Absent or unparsable metadata is not an error.
type participantMetadata struct {
	UserID string `json:"userId"`
}

// handleMediaWebhook mirrors participant join/leave state from signed media
// service events. Delivery is at-least-once and unordered; every branch here
// must stay idempotent.
func (s *Server) handleMediaWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "")
		return
	}
	if !media.VerifySignature(s.cfg.MediaWebhookSecret, body, r.Header.Get(mediaSignatureHeader)) {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid event payload")
		return
	}
	if event.Room.Name == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "missing room")
		return
	}

	now := time.Now().UTC()
	switch event.Event {
	case "participant_joined":
		if event.Participant.Identity == "" {
			writeError(w, http.StatusBadRequest, codeBadRequest, "missing participant")
			return
		}
		userID := parseUserID(event.Participant.Metadata)
		if err := s.store.UpsertPresenceJoin(r.Context(), event.Room.Name, event.Participant.Identity, userID, now); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "")
			return
		}
	case "participant_left":
		if event.Participant.Identity == "" {
			writeError(w, http.StatusBadRequest, codeBadRequest, "missing participant")
			return
		}
		if err := s.store.ClosePresence(r.Context(), event.Room.Name, event.Participant.Identity, now); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "")
			return
		}
	case "room_finished":
		if err := s.store.CloseRoomPresence(r.Context(), event.Room.Name, now); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "")
			return
		}
	default:
		// Unknown event types are acknowledged so the vendor stops retrying.
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func parseUserID(metadata string) *string {
	if metadata == "" {
		return nil
	}
	var meta participantMetadata
	if err := json.Unmarshal([]byte(metadata), &meta); err != nil {
		return nil
	}
	if meta.UserID == "" {
		return nil
	}
	return &meta.UserID
}
