package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-service/internal/queue"
	"github.com/securevote/voting-service/internal/repository"
	"github.com/securevote/voting-service/internal/service"
)

// ElectionHandler bundles dependencies for election management endpoints.
type ElectionHandler struct {
	Ledger *service.Ledger
}

func NewElectionHandler(ledger *service.Ledger) *ElectionHandler {
	return &ElectionHandler{Ledger: ledger}
}

// ----- DTOs -----

type electionIn struct {
	Title string `json:"title"`
}
type electionOut struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}
type closeOut struct {
	ID       uint64 `json:"id"`
	IsActive bool   `json:"is_active"`
}
type resultOut struct {
	Election string         `json:"election"`
	Results  map[string]int `json:"results"`
	Digest   string         `json:"digest"`
}

// List returns elections, active only unless ?include_inactive=true.
// Public: no authentication required.
func (h *ElectionHandler) List(c echo.Context) error {
	includeInactive := false
	if v := c.QueryParam("include_inactive"); v != "" {
		includeInactive, _ = strconv.ParseBool(v)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	elections, err := h.Ledger.ListElections(ctx, includeInactive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Listing elections failed"})
	}
	out := make([]electionOut, 0, len(elections))
	for _, e := range elections {
		out = append(out, electionOut{ID: e.ID, Title: e.Title, IsActive: e.IsActive})
	}
	return c.JSON(http.StatusOK, out)
}

// Create opens a new election.  Admin only (enforced by route middleware).
func (h *ElectionHandler) Create(c echo.Context) error {
	var req electionIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid body"})
	}
	if len(req.Title) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Title must be at least 3 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Ledger.CreateElection(ctx, req.Title)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Creating election failed"})
	}

	go func() {
		_ = service.PublishAudit(context.Background(), queue.AuditEvent{
			Event:      queue.EventElectionMade,
			ElectionID: e.ID,
			Title:      e.Title,
		})
	}()

	return c.JSON(http.StatusOK, electionOut{ID: e.ID, Title: e.Title, IsActive: e.IsActive})
}

// Close deactivates an election.  Admin only; 404 for an unknown id.
func (h *ElectionHandler) Close(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Election not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Ledger.CloseElection(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Election not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Closing election failed"})
	}

	go func() {
		_ = service.PublishAudit(context.Background(), queue.AuditEvent{
			Event:      queue.EventElectionClosed,
			ElectionID: e.ID,
			Title:      e.Title,
		})
	}()

	return c.JSON(http.StatusOK, closeOut{ID: e.ID, IsActive: e.IsActive})
}

// Results returns the decrypted tally and its fingerprint.  Admin only;
// works for both active and closed elections.
func (h *ElectionHandler) Results(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Election not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Ledger.GetResults(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Election not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Computing results failed"})
	}
	return c.JSON(http.StatusOK, resultOut{Election: res.Election, Results: res.Counts, Digest: res.Digest})
}
