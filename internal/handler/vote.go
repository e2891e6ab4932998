package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-service/internal/middleware"
	"github.com/securevote/voting-service/internal/queue"
	"github.com/securevote/voting-service/internal/repository"
	"github.com/securevote/voting-service/internal/service"
)

// VoteHandler bundles dependencies for the vote casting endpoint.
type VoteHandler struct {
	Auth   *AuthHandler
	Ledger *service.Ledger
}

func NewVoteHandler(auth *AuthHandler, ledger *service.Ledger) *VoteHandler {
	return &VoteHandler{Auth: auth, Ledger: ledger}
}

type voteIn struct {
	ElectionID uint64 `json:"election_id"`
	Choice     string `json:"choice"`
}

// Cast records the caller's ballot and returns the election's live tally.
// Status mapping: 404 unknown or inactive election, 400 duplicate vote,
// 500 encryption failure (nothing persisted in that case).
func (h *VoteHandler) Cast(c echo.Context) error {
	u, err := h.Auth.currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate credentials"})
	}

	var req voteIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid body"})
	}
	if req.Choice == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Choice must not be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	counts, err := h.Ledger.CastVote(ctx, req.ElectionID, u.ID, req.Choice)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Election not found or not active"})
		case errors.Is(err, repository.ErrDuplicateVote):
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Voter has already voted in this election"})
		case errors.Is(err, service.ErrEncrypt):
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Encryption failure"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Casting vote failed"})
	}

	middleware.VotesCast.Inc()
	go func() {
		_ = service.PublishAudit(context.Background(), queue.AuditEvent{
			Event:      queue.EventVoteCast,
			ElectionID: req.ElectionID,
			Username:   u.Username,
		})
	}()

	return c.JSON(http.StatusOK, counts)
}
