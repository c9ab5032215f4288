package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/service"
)

// yearField 同时接受数字、字符串与 null 形式的年份
type yearField string

func (y *yearField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = yearField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = yearField(n.String())
	return nil
}

type projectPayload struct {
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	CompletionYear yearField `json:"completion_year"`
	ImageURL       string    `json:"image_url"`
}

func (p projectPayload) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:          p.Title,
		Location:       p.Location,
		Type:           p.Type,
		Description:    p.Description,
		CompletionYear: string(p.CompletionYear),
		ImageURL:       p.ImageURL,
	}
}

// ListAdminProjects returns all projects for the admin table.
func (a *API) ListAdminProjects(c *gin.Context) {
	projects, err := a.projects.List(c.Request.Context(), "")
	if err != nil {
		respondServiceError(c, "fetch projects", err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject creates a new project.
func (a *API) CreateProject(c *gin.Context) {
	var payload projectPayload
	if !bindJSON(c, &payload, "Invalid project data") {
		return
	}

	project, err := a.projects.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		respondServiceError(c, "create project", err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Project created successfully", "project": project})
}

// UpdateProject updates an existing project.
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project id")
		return
	}

	var payload projectPayload
	if !bindJSON(c, &payload, "Invalid project data") {
		return
	}

	project, err := a.projects.Update(c.Request.Context(), id, payload.toInput())
	if err != nil {
		respondServiceError(c, "update project", err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully", "project": project})
}

// DeleteProject removes a project.
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project id")
		return
	}
	if err := a.projects.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, "delete project", err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
