package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/types"
)

// POST /api/v1/auth/token
// Exchanges a machine token (or the bootstrap secret) for a JWT.
func (s *Server) exchangeToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeAuthBadRequest, "Invalid request body", err.Error()))
		return
	}

	accessToken, err := s.authService.ExchangeToken(c.Request.Context(), req.Token, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.CodeAuthUnauthorized, "Invalid credentials", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "Bearer",
	})
}

// POST /api/v1/machine-tokens
func (s *Server) createMachineToken(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Permissions []string `json:"permissions" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeTokenBadRequest, "Invalid request body", err.Error()))
		return
	}

	token, machineToken, err := s.authService.CreateMachineToken(c.Request.Context(), req.Name, req.Permissions)
	if err != nil {
		s.logger.Error("Failed to create machine token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeTokenInternal, "Failed to create token", err.Error()))
		return
	}

	// The plaintext token is shown exactly once.
	c.JSON(http.StatusCreated, gin.H{
		"token":       token,
		"id":          machineToken.ID,
		"name":        machineToken.Name,
		"permissions": machineToken.Permissions,
		"created_at":  machineToken.CreatedAt,
	})
}

// GET /api/v1/machine-tokens
func (s *Server) listMachineTokens(c *gin.Context) {
	tokens, err := s.authService.ListMachineTokens(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeTokenInternal, "Failed to list tokens", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// DELETE /api/v1/machine-tokens/:id
func (s *Server) deleteMachineToken(c *gin.Context) {
	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeTokenBadRequest, "Invalid token id", nil))
		return
	}

	if err := s.authService.DeleteMachineToken(c.Request.Context(), tokenID); err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeTokenNotFound, "Token not found", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token deleted"})
}
