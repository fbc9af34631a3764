package auth

import (
	"errors"
	"net/http"
	"time"

	"leadvoice/internal/httpapi"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the /auth HTTP surface.
// Keep these thin: parse/validate input, call the service, return JSON.
type Handlers struct {
	Service *Service
	Tokens  *Manager
}

type authPayload struct {
	User  PublicUser `json:"user"`
	Token TokenPair  `json:"token"`
}

func (h Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	u, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpapi.Fail(c, http.StatusConflict, "Email already registered")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}

	pair, err := h.Tokens.IssuePair(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.Created(c, authPayload{User: u.Public(), Token: pair})
}

func (h Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	u, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpapi.Fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}

	pair, err := h.Tokens.IssuePair(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, authPayload{User: u.Public(), Token: pair})
}

func (h Handlers) Me(c *gin.Context) {
	uid, err := UserID(c.Request.Context())
	if err != nil {
		httpapi.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.Service.GetUser(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, u.Public())
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair.
// The user is re-read so role or deactivation changes take effect.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	claims, err := h.Tokens.Verify(req.RefreshToken, TokenTypeRefresh, time.Now())
	if err != nil {
		httpapi.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.Service.GetUser(c.Request.Context(), claims.UserID)
	if err != nil || !u.Active {
		httpapi.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pair, err := h.Tokens.IssuePair(time.Now(), u.ID, u.Email, u.Role)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, gin.H{"token": pair})
}
