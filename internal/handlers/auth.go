package handlers

import (
	"net/http"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Login - POST /api/login
// Issues a session token as the auth cookie on a username/password match
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.services.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("auth", token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
