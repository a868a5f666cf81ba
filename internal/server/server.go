// Package server exposes the worker's HTTP surface: the Discord
// interactions endpoint, the internal submission-notification webhook, and
// a liveness check.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/auth"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/notify"
)

// Dispatcher routes an authenticated interaction. Satisfied by
// dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error)
}

// Server is the worker's HTTP front door.
type Server struct {
	verifier   *auth.Verifier
	secret     *auth.SecretChecker
	dispatcher Dispatcher
	notifier   *notify.Notifier
	logger     *slog.Logger
	version    string

	// checkConfig runs the configuration sanity check once per warm
	// process; a cold start revalidates by design.
	checkConfig func() []string

	server   *http.Server
	listener net.Listener
}

// New creates a Server.
func New(verifier *auth.Verifier, secret *auth.SecretChecker, dispatcher Dispatcher, notifier *notify.Notifier, version string, logger *slog.Logger) *Server {
	s := &Server{
		verifier:   verifier,
		secret:     secret,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		version:    version,
	}
	s.checkConfig = sync.OnceValue(s.validateConfig)
	return s
}

// validateConfig reports non-fatal configuration gaps. Faults are logged
// once and the affected endpoint fails closed per request.
func (s *Server) validateConfig() []string {
	var faults []string
	if !s.secret.Configured() {
		faults = append(faults, "webhook_secret not configured; submission webhook will reject all callers")
	}
	for _, f := range faults {
		s.logger.Warn("configuration fault", "fault", f)
	}
	return faults
}

// Router builds the chi router for the worker.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Post("/interactions", s.handleInteractions)
	r.Post("/webhooks/submissions", s.handleSubmissionNotice)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleInteractions is the main protocol handler. Once the signature
// checks out, every condition except an unrecognized interaction kind is
// reported in-band with a 200: Discord's handling of non-200s is worse than
// an ephemeral message.
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	s.checkConfig()

	body, err := s.verifier.VerifyRequest(r)
	if err != nil {
		s.logger.Info("rejected interaction", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var interaction discordgo.Interaction
	if err := interaction.UnmarshalJSON(body); err != nil {
		s.logger.Warn("malformed interaction payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp, err := s.dispatcher.Dispatch(r.Context(), &interaction)
	if err != nil {
		s.logger.Warn("undispatchable interaction", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.logger, resp)
}

func (s *Server) handleSubmissionNotice(w http.ResponseWriter, r *http.Request) {
	s.checkConfig()

	credential := auth.BearerToken(r.Header.Get("Authorization"))
	if err := s.secret.Check(credential); err != nil {
		s.logger.Info("rejected submission notice", "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var notice notify.Notice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.notifier.Handle(r.Context(), &notice); err != nil {
		if errors.Is(err, notify.ErrUnknownNoticeType) || errors.Is(err, notify.ErrInvalidNotice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("submission notice failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writing response", "error", err)
	}
}
