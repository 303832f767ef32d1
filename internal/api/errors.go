package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/seeker-rps/api/internal/auth"
	"github.com/seeker-rps/api/internal/repos/games"
	"github.com/seeker-rps/api/internal/services/game"
)

// Machine-checkable error categories carried in the "code" field of every
// error response.
const (
	codeInvalidArgument    = "invalid_argument"
	codeUnauthenticated    = "unauthenticated"
	codePermissionDenied   = "permission_denied"
	codeNotFound           = "not_found"
	codeFailedPrecondition = "failed_precondition"
	codeResourceExhausted  = "resource_exhausted"
	codeInternal           = "internal"
)

// mapError translates domain sentinels into an HTTP status, category and
// message. Unknown errors surface as a bare internal error; their detail
// goes to the log, never to the caller.
func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, game.ErrStakeTooLow),
		errors.Is(err, game.ErrInvalidChoice):
		return http.StatusBadRequest, codeInvalidArgument, err.Error()

	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, codeUnauthenticated, err.Error()

	case errors.Is(err, game.ErrNotParticipant):
		return http.StatusForbidden, codePermissionDenied, game.ErrNotParticipant.Error()

	case errors.Is(err, games.ErrGameNotFound):
		return http.StatusNotFound, codeNotFound, games.ErrGameNotFound.Error()

	case errors.Is(err, game.ErrNoJoinerYet),
		errors.Is(err, game.ErrRoundClosed),
		errors.Is(err, game.ErrNotRetryable):
		return http.StatusConflict, codeFailedPrecondition, err.Error()

	case errors.Is(err, game.ErrPinExhausted):
		return http.StatusServiceUnavailable, codeResourceExhausted, game.ErrPinExhausted.Error()

	default:
		slog.Error("internal error", "error", err)

		return http.StatusInternalServerError, codeInternal, "internal error"
	}
}
