package handler

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and token refresh for staff and members
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// AdminLogin godoc
// @Summary      Staff login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "credentials"
// @Success      200      {object}  common.Response{data=domain.TokenResponse}
// @Failure      401      {object}  common.Response
// @Router       /admin/auth/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	tokens, err := h.service.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tokens)
}

// MemberLogin godoc
// @Summary      Member login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "credentials"
// @Success      200      {object}  common.Response{data=domain.TokenResponse}
// @Failure      401      {object}  common.Response
// @Router       /v1/auth/login [post]
func (h *AuthHandler) MemberLogin(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	tokens, err := h.service.MemberLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tokens)
}

// Refresh godoc
// @Summary      Exchange a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RefreshRequest  true  "refresh token"
// @Success      200      {object}  common.Response{data=domain.TokenResponse}
// @Failure      401      {object}  common.Response
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, tokens)
}
