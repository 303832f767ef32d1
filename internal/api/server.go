package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/seeker-rps/api/internal/services/game"
)

// NewServer creates and returns a configured *http.Server for the rps API.
func NewServer(port uint16, svc *game.Service) *http.Server {
	mux := NewRouter(svc)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute, // settlement waits for on-chain confirmation
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
