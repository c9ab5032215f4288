package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/service"
)

type leadStatusPayload struct {
	Status string `json:"status"`
}

// ListLeads 返回线索列表，支持 status 与 search 查询参数
func (a *API) ListLeads(c *gin.Context) {
	leads, err := a.leads.List(c.Request.Context(), service.LeadFilter{
		Status: c.DefaultQuery("status", "all"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, "fetch leads", err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// UpdateLeadStatus 推进线索状态
func (a *API) UpdateLeadStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid lead id")
		return
	}

	var payload leadStatusPayload
	if !bindJSON(c, &payload, "Invalid lead status") {
		return
	}

	lead, err := a.leads.UpdateStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, "update lead status", err, "Failed to update lead status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead status updated successfully", "lead": lead})
}

// DeleteLead 删除线索
func (a *API) DeleteLead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid lead id")
		return
	}
	if err := a.leads.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, "delete lead", err, "Failed to delete lead")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

// ShowDashboard 返回后台概览统计
func (a *API) ShowDashboard(c *gin.Context) {
	stats, err := a.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, "fetch dashboard", err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, stats)
}
