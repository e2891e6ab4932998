package handler

import (
	"context"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-service/internal/config"
	"github.com/securevote/voting-service/internal/middleware"
	"github.com/securevote/voting-service/internal/model"
	"github.com/securevote/voting-service/internal/queue"
	"github.com/securevote/voting-service/internal/repository"
	"github.com/securevote/voting-service/internal/service"
	"github.com/securevote/voting-service/internal/utils"
)

// Username and password bounds are registration domain rules, enforced
// before any hashing work happens.
const (
	minUsernameLen = 3
	maxUsernameLen = 150
	minPasswordLen = 8
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Store  repository.Store
	Ledger *service.Ledger
}

func NewAuthHandler(cfg config.Config, store repository.Store, ledger *service.Ledger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: store, Ledger: ledger}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userOut struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
type voteOut struct {
	ElectionID uint64    `json:"election_id"`
	Choice     string    `json:"choice"`
	CreatedAt  time.Time `json:"created_at"`
}

// Register creates a voter account.  Length rules are checked before the
// hash is computed; a duplicate username maps to 400 to preserve the
// external contract.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid body"})
	}
	// Bounds count characters, not bytes, so multibyte usernames get the
	// full 150.
	if n := utf8.RuneCountInString(req.Username); n < minUsernameLen || n > maxUsernameLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Username must be between 3 and 150 characters"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.PBKDF2Iterations)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Registration failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.CreateUser(ctx, req.Username, hash, model.RoleVoter)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Username already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Registration failed"})
	}

	middleware.Registrations.Inc()
	go func() {
		_ = service.PublishAudit(context.Background(), queue.AuditEvent{
			Event:    queue.EventUserRegistered,
			Username: u.Username,
		})
	}()

	return c.JSON(http.StatusOK, userOut{Username: u.Username, Role: u.Role})
}

// Login verifies credentials and issues a bearer token.  A missing user
// and a wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Incorrect username or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Incorrect username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Incorrect username or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Username, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Login failed"})
	}

	return c.JSON(http.StatusOK, tokenOut{AccessToken: access.Token, TokenType: "bearer"})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate credentials"})
	}
	return c.JSON(http.StatusOK, userOut{Username: u.Username, Role: u.Role})
}

// MyVotes lists the caller's own ballots, newest first, decrypted for
// display.  Rows that no longer decrypt appear with a sentinel choice.
func (h *AuthHandler) MyVotes(c echo.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ballots, err := h.Ledger.ListVoterBallots(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Listing votes failed"})
	}
	out := make([]voteOut, 0, len(ballots))
	for _, b := range ballots {
		out = append(out, voteOut{ElectionID: b.ElectionID, Choice: b.Choice, CreatedAt: b.CastAt})
	}
	return c.JSON(http.StatusOK, out)
}

// currentUser resolves the token subject stored by JWTAuth to a user
// record.  A token whose subject no longer exists is treated as invalid.
func (h *AuthHandler) currentUser(c echo.Context) (model.User, error) {
	username, _ := c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return model.User{}, utils.ErrInvalidToken
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return model.User{}, utils.ErrInvalidToken
	}
	return u, nil
}
