package handler

import (
	"net/http"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/dto"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Register handles self-service sign-up in the resolved tenant
func (h *Handler) Register(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	user, err := h.identity.Register(c.Request.Context(), tenant, req.Email, req.Password, req.Name)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, user)
}

// Login handles user login in the resolved tenant
func (h *Handler) Login(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	user, err := h.identity.Authenticate(c.Request.Context(), tenant, req.Email, req.Password)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusOK, user)
}

func (h *Handler) respondWithSession(c *gin.Context, status int, user *database.User) {
	token, err := h.identity.IssueToken(user)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(status, dto.AuthResponse{User: dto.NewAuthUser(user), Token: token})
}

// Me returns the authenticated user
func (h *Handler) Me(c *gin.Context) {
	user := reqctx.User(c.Request.Context())
	if user == nil {
		i18n.RespondWithError(c, i18n.ErrAuthRequired)
		return
	}
	c.JSON(http.StatusOK, dto.MeResponse{User: dto.NewAuthUser(user)})
}

// Logout clears the session cookie
func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	i18n.RespondOK(c, i18n.SuccessLoggedOut, nil)
}
