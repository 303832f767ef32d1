package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/seeker-rps/api/internal/repos/games"
	"github.com/seeker-rps/api/internal/services/game"
)

// HandlerProvider wraps the game service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *game.Service
}

// NewHandler returns a new Handler provider.
func NewHandler(svc *game.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code, msg := mapError(err)
	writeError(w, status, code, msg)
}

// decodeBody reads a small JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	return nil
}

func parseGameIDFromPath(r *http.Request) (string, error) {
	idStr := chi.URLParam(r, "gameID")

	id, err := uuid.Parse(idStr)
	if err != nil {
		return "", errors.New("invalid game id")
	}

	return id.String(), nil
}

type gameResponse struct {
	GameID              string     `json:"gameId"`
	Pin                 string     `json:"pin"`
	CreatorPubkey       string     `json:"creatorPubkey"`
	JoinerPubkey        *string    `json:"joinerPubkey,omitempty"`
	StakeLamports       int64      `json:"stakeLamports"`
	Status              string     `json:"status"`
	CreatorChoice       *string    `json:"creatorChoice,omitempty"`
	JoinerChoice        *string    `json:"joinerChoice,omitempty"`
	WinnerPubkey        *string    `json:"winnerPubkey,omitempty"`
	RoundClearedForDraw bool       `json:"roundClearedForDraw"`
	EscrowAddress       string     `json:"escrowAddress"`
	VaultAddress        string     `json:"vaultAddress"`
	SettlementSignature *string    `json:"settlementSignature,omitempty"`
	SettlementError     *string    `json:"settlementError,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func renderGame(g *games.Game) gameResponse {
	resp := gameResponse{
		GameID:              g.ID,
		Pin:                 g.Pin,
		CreatorPubkey:       g.CreatorPubkey,
		JoinerPubkey:        g.JoinerPubkey,
		StakeLamports:       g.StakeLamports,
		Status:              string(g.Status),
		WinnerPubkey:        g.WinnerPubkey,
		RoundClearedForDraw: g.DrawCleared,
		EscrowAddress:       g.EscrowAddress,
		VaultAddress:        g.VaultAddress,
		SettlementSignature: g.ResolveSig,
		SettlementError:     g.ResolveError,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}

	if g.CreatorChoice != nil {
		c := string(*g.CreatorChoice)
		resp.CreatorChoice = &c
	}
	if g.JoinerChoice != nil {
		c := string(*g.JoinerChoice)
		resp.JoinerChoice = &c
	}

	return resp
}

// --- Handlers ---

type createRequest struct {
	StakeLamports int64 `json:"stakeLamports"`
}

type createResponse struct {
	GameID        string `json:"gameId"`
	Pin           string `json:"pin"`
	EscrowAddress string `json:"escrowAddress"`
	VaultAddress  string `json:"vaultAddress"`
}

// CreateGameHandler handles POST /games
func (h *HandlerProvider) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing verified identity")
		return
	}

	var req createRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	g, err := h.svc.Create(r.Context(), caller, req.StakeLamports)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createResponse{
		GameID:        g.ID,
		Pin:           g.Pin,
		EscrowAddress: g.EscrowAddress,
		VaultAddress:  g.VaultAddress,
	})
}

type joinRequest struct {
	Pin string `json:"pin"`
}

// JoinGameHandler handles POST /games/join
func (h *HandlerProvider) JoinGameHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing verified identity")
		return
	}

	var req joinRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	if !pinPattern.MatchString(req.Pin) {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "pin must be a 4-digit code")
		return
	}

	g, err := h.svc.Join(r.Context(), caller, req.Pin)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}

// GetGameHandler handles GET /games/{gameID}
func (h *HandlerProvider) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseGameIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}

// LookupByPinHandler handles GET /games/pin/{pin}, the pre-join display of
// an open lobby.
func (h *HandlerProvider) LookupByPinHandler(w http.ResponseWriter, r *http.Request) {
	pin := chi.URLParam(r, "pin")
	if !pinPattern.MatchString(pin) {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "pin must be a 4-digit code")
		return
	}

	g, err := h.svc.LookupByPin(r.Context(), pin)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

// SubmitChoiceHandler handles POST /games/{gameID}/choice
func (h *HandlerProvider) SubmitChoiceHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing verified identity")
		return
	}

	id, err := parseGameIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	var req choiceRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	g, err := h.svc.SubmitChoice(r.Context(), caller, id, req.Choice)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}

// CancelGameHandler handles POST /games/{gameID}/cancel
func (h *HandlerProvider) CancelGameHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing verified identity")
		return
	}

	id, err := parseGameIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	g, err := h.svc.Cancel(r.Context(), caller, id)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}

// RetrySettlementHandler handles POST /games/{gameID}/settlement/retry
func (h *HandlerProvider) RetrySettlementHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing verified identity")
		return
	}

	id, err := parseGameIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	g, err := h.svc.RetrySettlement(r.Context(), caller, id)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderGame(g))
}
