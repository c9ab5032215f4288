package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/service"
)

type servicePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p servicePayload) toInput() service.ServiceInput {
	return service.ServiceInput{
		Title:       p.Title,
		Description: p.Description,
		Icon:        p.Icon,
	}
}

// ListAdminServices returns stored services without the display fallback.
func (a *API) ListAdminServices(c *gin.Context) {
	items, err := a.services.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, "fetch services", err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": items})
}

// CreateService creates a new service.
func (a *API) CreateService(c *gin.Context) {
	var payload servicePayload
	if !bindJSON(c, &payload, "Invalid service data") {
		return
	}

	item, err := a.services.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, "create service", err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Service created successfully", "service": item})
}

// UpdateService updates an existing service.
func (a *API) UpdateService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid service id")
		return
	}

	var payload servicePayload
	if !bindJSON(c, &payload, "Invalid service data") {
		return
	}

	item, err := a.services.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, "update service", err, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service updated successfully", "service": item})
}

// DeleteService removes a service.
func (a *API) DeleteService(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid service id")
		return
	}
	if err := a.services.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, "delete service", err, "Failed to delete service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
