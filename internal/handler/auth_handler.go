package handler

import (
	"net/http"

	"school-navigator/internal/middleware"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessionService *service.SessionService
}

func NewAuthHandler(sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
	}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// Login signs in as admin with the shared password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.sessionService.LoginWithPassword(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	utils.SuccessResponse(c, response)
}

// GoogleLogin signs in with a Google Identity Services credential
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.sessionService.LoginWithCredential(c.Request.Context(), req.Credential)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	utils.SuccessResponse(c, response)
}

// Logout ends the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessionService.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		respondError(c, err, "Failed to sign out")
		return
	}

	utils.MessageResponse(c, "Logged out successfully")
}

// Me returns the current session and its state
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.CurrentSession(c)
	utils.SuccessResponse(c, gin.H{
		"state":   session.State(),
		"session": session,
	})
}
