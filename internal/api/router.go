package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seeker-rps/api/internal/services/game"
)

// NewRouter constructs the API router. Read-only endpoints are open; every
// mutating endpoint sits behind SIWS verification, so a caller's identity
// only ever comes from a verified proof, never from the payload.
func NewRouter(svc *game.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"seeker-rps-api"}`))
	})

	r.Get("/games/{gameID}", h.GetGameHandler)
	r.Get("/games/pin/{pin}", h.LookupByPinHandler)

	r.Group(func(r chi.Router) {
		r.Use(SIWSAuth)

		r.Post("/games", h.CreateGameHandler)
		r.Post("/games/join", h.JoinGameHandler)
		r.Post("/games/{gameID}/choice", h.SubmitChoiceHandler)
		r.Post("/games/{gameID}/cancel", h.CancelGameHandler)
		r.Post("/games/{gameID}/settlement/retry", h.RetrySettlementHandler)
	})

	return r
}
