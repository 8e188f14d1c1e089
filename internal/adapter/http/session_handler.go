package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"paychain/internal/infrastructure/cache"
)

type SessionHandler struct{ store *cache.SessionStore }

func NewSessionHandler(store *cache.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

type setTokenReq struct {
	SessionID  string `json:"sessionId" validate:"required"`
	Token      string `json:"token" validate:"required"`
	TTLSeconds int    `json:"ttlSeconds" validate:"gte=0"`
}

// SetToken stores the upstream bearer token for a session; the token's own
// lifetime drives the TTL.
func (h *SessionHandler) SetToken(c echo.Context) error {
	var req setTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "validation failed", Details: ToFieldErrors(err),
		})
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.store.Set(c.Request().Context(), req.SessionID, req.Token, ttl); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) ClearToken(c echo.Context) error {
	if err := h.store.Clear(c.Request().Context(), c.Param("session_id")); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
