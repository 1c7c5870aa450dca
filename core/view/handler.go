// Package view exposes a read-only HTTP view of a session for an external
// presentation layer. It only ever reads snapshots, so it observes either the
// pre- or post-append state of the log, never a partial turn.
package view

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pgcopilot/session-core/core/conversation"
	"github.com/pgcopilot/session-core/core/transport"
)

// SessionSource is the read side of an orchestrator.
type SessionSource interface {
	Snapshot() []conversation.Turn
	ChannelState() transport.State
}

// NewHandler builds the read-only session routes.
func NewHandler(source SessionSource) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/session/log", func(w http.ResponseWriter, r *http.Request) {
		turns := source.Snapshot()
		if turns == nil {
			turns = []conversation.Turn{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(struct {
			Turns []conversation.Turn `json:"turns"`
		}{Turns: turns})
	})

	router.Get("/session/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(struct {
			Channel transport.State `json:"channel"`
			Turns   int             `json:"turns"`
		}{Channel: source.ChannelState(), Turns: len(source.Snapshot())})
	})

	return router
}
