package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/responses"
	"github.com/rileyblackwell/Imagi-sub001/internal/services"
)

// Refresh tokens travel in an HttpOnly cookie; only access tokens appear in
// response bodies.
const (
	refreshTokenCookieName = "refresh_token"
	refreshTokenMaxAge     = 30 * 24 * 3600 // seconds
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(refreshTokenCookieName, token, maxAge, "/", "", true, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Please provide your email and password correctly")
		return
	}

	user := &models.User{
		Email:    req.Email,
		Password: req.Password,
	}
	user, tokens, err := h.userService.Register(user)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not register user")
		return
	}

	setRefreshCookie(c, tokens.RefreshToken, refreshTokenMaxAge)

	res := gin.H{
		"access_token": tokens.AccessToken,
		"user":         user,
	}
	responses.Success(c, http.StatusCreated, res, "New user registered successfully!")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid format")
		return
	}

	user, tokens, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Failed to login")
		return
	}

	setRefreshCookie(c, tokens.RefreshToken, refreshTokenMaxAge)

	res := gin.H{
		"access_token": tokens.AccessToken,
		"user":         user,
	}
	responses.Success(c, http.StatusOK, res, "Logged in successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshTokenCookieName); err == nil {
		if err := h.userService.Logout(refreshToken); err != nil {
			responses.Fail(c, http.StatusInternalServerError, err, "Could not revoke session")
			return
		}
	}

	setRefreshCookie(c, "", -1)
	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookieName)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing refresh token")
		return
	}

	tokens, err := h.userService.Refresh(refreshToken)
	if err != nil {
		setRefreshCookie(c, "", -1)
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired refresh token")
		return
	}

	setRefreshCookie(c, tokens.RefreshToken, refreshTokenMaxAge)

	res := gin.H{
		"access_token": tokens.AccessToken,
	}
	responses.Success(c, http.StatusOK, res, "Access token refreshed successfully")
}
