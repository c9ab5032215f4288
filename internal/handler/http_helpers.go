package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.Printf("[ERROR] bind %s: %v", c.FullPath(), err)
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondServiceError 记录错误并映射为对应的 HTTP 状态，fallback 为兜底提示
func respondServiceError(c *gin.Context, action string, err error, fallback string) {
	log.Printf("[ERROR] %s: %v", action, err)

	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Message)
		return
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "Article not found")
		return
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "Project not found")
		return
	case errors.Is(err, service.ErrServiceNotFound):
		respondError(c, http.StatusNotFound, "Service not found")
		return
	case errors.Is(err, service.ErrLeadNotFound):
		respondError(c, http.StatusNotFound, "Lead not found")
		return
	case errors.Is(err, content.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found")
		return
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "An article with this slug already exists")
		return
	case errors.Is(err, content.ErrDuplicate):
		respondError(c, http.StatusConflict, "A record with this value already exists")
		return
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusNotFound, "Unknown section")
		return
	case errors.Is(err, service.ErrLeadStatusInvalid):
		respondError(c, http.StatusBadRequest, "Invalid lead status")
		return
	case errors.Is(err, content.ErrUnknownTable), errors.Is(err, content.ErrUnknownColumn),
		errors.Is(err, content.ErrReadOnly), errors.Is(err, content.ErrInvalidValue),
		errors.Is(err, content.ErrRowType):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if fallback == "" {
		fallback = "Unknown error occurred"
	}
	respondError(c, http.StatusInternalServerError, fallback)
}
