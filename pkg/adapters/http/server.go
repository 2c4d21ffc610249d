package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/internal/sanitize"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultMaxBodySize caps an inbound activity at 1MB.
const DefaultMaxBodySize = 1 << 20

// Bot is the turn processor behind the transport.
type Bot interface {
	OnTurn(ctx context.Context, tc *dialog.TurnContext) error
	EndConversation(ctx context.Context, conversationID string) error
}

// Conversations gives read access to persisted conversations.
type Conversations interface {
	Load(ctx context.Context, conversationID string) (*domain.ConversationState, error)
	List(ctx context.Context) ([]string, error)
}

// Server exposes a Bot over HTTP.
type Server struct {
	bot           Bot
	conversations Conversations
	metrics       http.Handler
	logger        *slog.Logger
	maxBody       int64
	maxInput      int
	sanitizer     *sanitize.Sanitizer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithMaxInputSize caps each user-supplied string of an activity, in bytes.
// Zero keeps the sanitize default.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// MessagesResponse is the body returned by POST /api/messages.
type MessagesResponse struct {
	ConversationID string             `json:"conversation_id"`
	Activities     []*domain.Activity `json:"activities"`
	Error          string             `json:"error,omitempty"`
}

// ConversationsResponse is the body returned by GET /api/conversations.
type ConversationsResponse struct {
	Conversations []string `json:"conversations"`
}

// NewHandler creates the HTTP handler for bot.
func NewHandler(bot Bot, conversations Conversations, opts ...Option) http.Handler {
	s := &Server{
		bot:           bot,
		conversations: conversations,
		logger:        logging.NewNop(),
		maxBody:       DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sanitizer = sanitize.New(s.maxInput)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.Health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Post("/messages", s.PostMessage)
		r.Get("/conversations", s.ListConversations)
		r.Get("/conversations/{id}", s.GetConversation)
		r.Delete("/conversations/{id}", s.DeleteConversation)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// collector buffers the replies of one turn.
type collector struct {
	mu  sync.Mutex
	out []*domain.Activity
}

func (c *collector) Send(ctx context.Context, activities ...*domain.Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = append(c.out, activities...)
	return nil
}

// PostMessage handles POST /api/messages. A missing conversation id starts a new conversation.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var activity domain.Activity
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&activity); err != nil {
		s.logger.Warn("PostMessage: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if activity.Type == "" {
		s.writeError(w, http.StatusBadRequest, "activity type is required")
		return
	}

	if err := s.sanitizer.Activity(&activity); err != nil {
		s.logger.Warn("PostMessage: rejected input", "err", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if activity.Conversation.ID == "" {
		activity.Conversation.ID = uuid.NewString()
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	replies := &collector{}
	resp := MessagesResponse{ConversationID: activity.Conversation.ID}
	err := s.bot.OnTurn(r.Context(), dialog.NewTurnContext(&activity, replies))
	resp.Activities = replies.out
	if resp.Activities == nil {
		resp.Activities = []*domain.Activity{}
	}
	if err != nil {
		s.logger.Error("PostMessage: turn failed", "conversation_id", activity.Conversation.ID, "err", err)
		resp.Error = "turn failed"
		s.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListConversations handles GET /api/conversations.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.conversations.List(r.Context())
	if err != nil {
		s.logger.Error("ListConversations failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ConversationsResponse{Conversations: ids})
}

// GetConversation handles GET /api/conversations/{id}.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.conversations.Load(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// DeleteConversation handles DELETE /api/conversations/{id}.
func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.bot.EndConversation(r.Context(), id); err != nil {
		s.writeLookupError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeLookupError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, domain.ErrConversationNotFound) {
		s.writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	s.logger.Error("conversation lookup failed", "conversation_id", id, "err", err)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
