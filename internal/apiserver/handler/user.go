package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/guard"
	"github.com/amoylab/tenantly/internal/apiserver/identity"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/dto"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

func userError(err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return i18n.ErrUserNotFound
	case errors.Is(err, database.ErrDuplicate):
		return i18n.ErrUserExists
	default:
		return err
	}
}

// ListUsers returns every user of the tenant to admins, and only the caller to members
func (h *Handler) ListUsers(c *gin.Context) {
	rc := reqctx.FromContext(c.Request.Context())
	if err := guard.Authorize(rc, database.RoleMember); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	if rc.User.Role != database.RoleAdmin {
		c.JSON(http.StatusOK, []dto.UserResponse{dto.NewUserResponse(rc.User)})
		return
	}

	users, err := h.db.ListUsers(c.Request.Context(), rc.Tenant.ID)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser returns one user to an admin or to the user itself
func (h *Handler) GetUser(c *gin.Context) {
	rc := reqctx.FromContext(c.Request.Context())
	id := c.Param("id")
	if err := guard.AuthorizeUserRead(rc, id); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	user, err := h.db.GetUser(c.Request.Context(), rc.Tenant.ID, id)
	if err != nil {
		i18n.RespondWithError(c, userError(err))
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// CreateUser handles user creation by an admin
func (h *Handler) CreateUser(c *gin.Context) {
	rc := reqctx.FromContext(c.Request.Context())
	if err := guard.Authorize(rc, database.RoleAdmin); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	user, err := h.identity.CreateUser(c.Request.Context(), rc.Tenant, identity.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     database.Role(strings.TrimSpace(req.Role)),
	})
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// UpdateUser applies a partial update. Members may edit themselves but not their role.
func (h *Handler) UpdateUser(c *gin.Context) {
	rc := reqctx.FromContext(c.Request.Context())
	id := c.Param("id")
	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	var upd database.UserUpdate
	if req.Role != nil {
		role := database.Role(strings.TrimSpace(*req.Role))
		upd.Role = &role
	}
	if err := guard.AuthorizeUserUpdate(rc, id, upd); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	if upd.Role != nil && !upd.Role.Valid() {
		i18n.RespondWithError(c, i18n.ErrInvalidRole)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			i18n.RespondWithError(c, i18n.ErrRegisterFieldsRequired)
			return
		}
		upd.Name = &name
	}
	if req.Email != nil {
		email := database.NormalizeEmail(*req.Email)
		if email == "" {
			i18n.RespondWithError(c, i18n.ErrRegisterFieldsRequired)
			return
		}
		upd.Email = &email
	}
	if req.Password != nil {
		if *req.Password == "" {
			i18n.RespondWithError(c, i18n.ErrRegisterFieldsRequired)
			return
		}
		hash, err := h.identity.HashPassword(*req.Password)
		if err != nil {
			i18n.RespondWithError(c, err)
			return
		}
		upd.PasswordHash = &hash
	}

	user, err := h.db.UpdateUser(c.Request.Context(), rc.Tenant.ID, id, upd)
	if err != nil {
		i18n.RespondWithError(c, userError(err))
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser removes a user. Nobody may delete their own account.
func (h *Handler) DeleteUser(c *gin.Context) {
	rc := reqctx.FromContext(c.Request.Context())
	id := c.Param("id")
	if err := guard.AuthorizeUserDelete(rc, id); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	if err := h.db.DeleteUser(c.Request.Context(), rc.Tenant.ID, id); err != nil {
		i18n.RespondWithError(c, userError(err))
		return
	}
	i18n.RespondOK(c, i18n.SuccessUserDeleted, nil)
}
