package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frontier/hub/internal/auth"
	"frontier/hub/internal/config"
	"frontier/hub/internal/media"
	"frontier/hub/internal/model"
	"frontier/hub/internal/notify"
)

// Wire error codes. Callers branch on these; humans get the generic details
// string, never a raw store error.
const (
	codeUnauthenticated  = "UNAUTHENTICATED"
	codeBadRequest       = "BAD_REQUEST"
	codeForbidden        = "FORBIDDEN"
	codeConflict         = "CONFLICT"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeInternal         = "INTERNAL_SERVER_ERROR"
)

// Datastore is the durable-store surface the handlers need. *db.Store
// implements it; tests substitute fakes.
type Datastore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	GetSkill(ctx context.Context, skillID string) (model.Skill, error)
	GetChannel(ctx context.Context, channelID string) (model.Channel, error)
	ListCertifiedUserIDs(ctx context.Context, skillID string) ([]string, error)
	HasCertification(ctx context.Context, userID, skillID string) (bool, error)
	CreateInstructionRequest(ctx context.Context, req model.InstructionRequest) error
	GetInstructionRequest(ctx context.Context, requestID string) (model.InstructionRequest, error)
	AcceptInstructionRequest(ctx context.Context, requestID, guideID, sessionRoomID string, now time.Time) (bool, error)
	UpsertPresenceJoin(ctx context.Context, roomName, participantIdentity string, userID *string, joinedAt time.Time) error
	ClosePresence(ctx context.Context, roomName, participantIdentity string, leftAt time.Time) error
	CloseRoomPresence(ctx context.Context, roomName string, leftAt time.Time) error
	UpsertPushSubscription(ctx context.Context, sub model.PushSubscription) error
}

// Datastore implementations report missing rows as pgx.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type Server struct {
	cfg    config.Config
	store  Datastore
	queue  notify.Enqueuer
	signer *media.TokenSigner
}

func NewServer(cfg config.Config, store Datastore, queue notify.Enqueuer, signer *media.TokenSigner) *Server {
	return &Server{cfg: cfg, store: store, queue: queue, signer: signer}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(s.authMiddleware).Post("/instruction/request", s.handleRequestInstruction)
	r.With(s.authMiddleware).Post("/instruction/accept", s.handleAcceptInstruction)
	r.With(s.authMiddleware).Get("/instruction/requests/{requestID}", s.handleGetInstructionRequest)
	r.With(s.authMiddleware).Get("/channels/{channelID}/permissions", s.handleChannelPermissions)
	r.With(s.authMiddleware).Post("/push/subscriptions", s.handleRegisterPush)

	r.Post("/media/token", s.handleMediaToken)
	r.Post("/webhook/media", s.handleMediaWebhook)

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid bearer token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Response helpers

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, errorResponse{Error: code, Details: details})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(body, dst)
}
