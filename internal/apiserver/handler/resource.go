package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/common/dto"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

func resourceError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return i18n.ErrResourceNotFound
	}
	return err
}

// ListResources returns the tenant's resources, newest first
func (h *Handler) ListResources(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	resources, err := h.db.ListResources(c.Request.Context(), tenant.ID)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	if resources == nil {
		resources = []*database.Resource{}
	}
	c.JSON(http.StatusOK, resources)
}

// CreateResource handles resource creation
func (h *Handler) CreateResource(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	var req dto.CreateResourceRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		i18n.RespondWithError(c, i18n.ErrTitleRequired)
		return
	}

	res := &database.Resource{Title: title, Content: req.Content}
	if err := h.db.CreateResource(c.Request.Context(), tenant.ID, res); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetResource returns one resource of the tenant
func (h *Handler) GetResource(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	res, err := h.db.GetResource(c.Request.Context(), tenant.ID, c.Param("id"))
	if err != nil {
		i18n.RespondWithError(c, resourceError(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateResource applies a partial update
func (h *Handler) UpdateResource(c *gin.Context) {
	tenant, err := tenantOf(c)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	var req dto.UpdateResourceRequest
	if err := bindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	upd := database.ResourceUpdate{Content: req.Content}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			i18n.RespondWithError(c, i18n.ErrTitleRequired)
			return
		}
		upd.Title = &title
	}

	res, err := h.db.UpdateResource(c.Request.Context(), tenant.ID, c.Param("id"), upd)
	if err != nil {
		i18n.RespondWithError(c, resourceError(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
