package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/db"
	"github.com/sitepress/internal/service"
)

type contactPayload struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ProjectType string `json:"project_type"`
	Message     string `json:"message"`
}

func (p contactPayload) toInput() service.LeadInput {
	return service.LeadInput{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		ProjectType: p.ProjectType,
		Message:     p.Message,
	}
}

// ListProjects 返回案例列表，type 参数为空或 all 时不过滤
func (a *API) ListProjects(c *gin.Context) {
	projects, err := a.projects.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondServiceError(c, "fetch projects", err, "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// ListServices 返回服务列表，表为空时返回内置默认服务
func (a *API) ListServices(c *gin.Context) {
	items, fallback, err := a.services.ListForDisplay(c.Request.Context())
	if err != nil {
		respondServiceError(c, "fetch services", err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": items, "defaults": fallback})
}

// SubmitContact stores a contact form submission as a new lead.
func (a *API) SubmitContact(c *gin.Context) {
	var payload contactPayload
	if !bindJSON(c, &payload, "Failed to submit form. Please try again.") {
		return
	}

	if _, err := a.leads.Submit(c.Request.Context(), payload.toInput()); err != nil {
		respondServiceError(c, "submit contact form", err, "Failed to submit form. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you for your inquiry! We've received your message and will contact you within 24 hours.",
		"form":    contactPayload{},
	})
}

// ContactOptions lists the project types offered by the contact form.
func (a *API) ContactOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"project_types": db.ContactProjectTypes})
}
