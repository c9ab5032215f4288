package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/auth"
	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
)

const maxTableLimit = 500

// parseTableQuery 把 eq.<col>、neq.<col>、order、limit 查询参数转换为 content.Query
func parseTableQuery(t content.Table, c *gin.Context) (content.Query, error) {
	var q content.Query
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		var op content.Op
		var column string
		switch {
		case strings.HasPrefix(key, "eq."):
			op, column = content.OpEq, strings.TrimPrefix(key, "eq.")
		case strings.HasPrefix(key, "neq."):
			op, column = content.OpNeq, strings.TrimPrefix(key, "neq.")
		default:
			continue
		}
		for _, raw := range values {
			var value interface{}
			if raw == "null" {
				if err := content.CheckColumn(t, column); err != nil {
					return q, err
				}
			} else {
				parsed, err := content.ParseValue(t, column, raw)
				if err != nil {
					return q, err
				}
				value = parsed
			}
			q.Filters = append(q.Filters, content.Filter{Column: column, Op: op, Value: value})
		}
	}

	if raw := c.Query("order"); raw != "" {
		column, direction, _ := strings.Cut(raw, ".")
		order := &content.Order{Column: column}
		switch strings.ToLower(direction) {
		case "", "desc":
		case "asc":
			order.Ascending = true
		default:
			return q, content.ErrInvalidValue
		}
		q.Order = order
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return q, content.ErrInvalidValue
		}
		if limit > maxTableLimit {
			limit = maxTableLimit
		}
		q.Limit = limit
	}
	return q, nil
}

// publicScope 对匿名请求收紧可见范围：文章只返回已发布，线索拒绝访问
func publicScope(c *gin.Context, t content.Table) ([]content.Filter, bool) {
	if auth.Current(c).State == auth.StateAuthenticated {
		return nil, true
	}
	switch t {
	case content.Leads:
		respondError(c, http.StatusUnauthorized, "Please sign in to continue")
		return nil, false
	case content.Articles:
		return []content.Filter{content.Eq("published", true)}, true
	}
	return nil, true
}

func (a *API) tableParam(c *gin.Context) (content.Table, bool) {
	t, err := content.ParseTable(c.Param("table"))
	if err != nil {
		respondServiceError(c, "resolve table", err, "")
		return "", false
	}
	return t, true
}

// ListTableRows 通用的表查询接口
func (a *API) ListTableRows(c *gin.Context) {
	t, ok := a.tableParam(c)
	if !ok {
		return
	}
	scope, ok := publicScope(c, t)
	if !ok {
		return
	}

	q, err := parseTableQuery(t, c)
	if err != nil {
		respondServiceError(c, "parse table query", err, "")
		return
	}
	q.Filters = append(q.Filters, scope...)

	rows, err := content.NewRows(t)
	if err != nil {
		respondServiceError(c, "list rows", err, "")
		return
	}
	if err := a.repo.List(c.Request.Context(), t, q, rows); err != nil {
		respondServiceError(c, "list "+string(t), err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GetTableRowBySlug 按 slug 获取单行
func (a *API) GetTableRowBySlug(c *gin.Context) {
	t, ok := a.tableParam(c)
	if !ok {
		return
	}
	scope, ok := publicScope(c, t)
	if !ok {
		return
	}

	row, err := content.NewRow(t)
	if err != nil {
		respondServiceError(c, "get row", err, "")
		return
	}
	if err := a.repo.GetBySlug(c.Request.Context(), t, c.Param("slug"), row, scope...); err != nil {
		respondServiceError(c, "get "+string(t)+" by slug", err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}

// InsertTableRow inserts a raw row. No defaults beyond the column defaults apply.
func (a *API) InsertTableRow(c *gin.Context) {
	t, ok := a.tableParam(c)
	if !ok {
		return
	}
	row, err := content.NewRow(t)
	if err != nil {
		respondServiceError(c, "insert row", err, "")
		return
	}
	if !bindJSON(c, row, "Invalid row data") {
		return
	}
	if article, ok := row.(*db.Article); ok {
		if err := a.articles.PrepareRow(c.Request.Context(), article); err != nil {
			respondServiceError(c, "prepare article row", err, "Failed to save data")
			return
		}
	}
	if err := a.repo.Insert(c.Request.Context(), t, row); err != nil {
		respondServiceError(c, "insert "+string(t), err, "Failed to save data")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": row})
}

// UpdateTableRow applies a partial update and returns the stored row.
func (a *API) UpdateTableRow(c *gin.Context) {
	t, ok := a.tableParam(c)
	if !ok {
		return
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	patch := map[string]interface{}{}
	if !bindJSON(c, &patch, "Invalid row data") {
		return
	}
	if t == content.Articles {
		if err := a.articles.PreparePatch(c.Request.Context(), id, patch); err != nil {
			respondServiceError(c, "prepare article patch", err, "Failed to save data")
			return
		}
	}
	if err := a.repo.Update(c.Request.Context(), t, id, patch); err != nil {
		respondServiceError(c, "update "+string(t), err, "Failed to save data")
		return
	}

	row, err := content.NewRow(t)
	if err != nil {
		respondServiceError(c, "reload row", err, "")
		return
	}
	if err := a.repo.Get(c.Request.Context(), t, id, row); err != nil {
		respondServiceError(c, "reload "+string(t), err, "Failed to fetch data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}

// DeleteTableRow removes a row by id.
func (a *API) DeleteTableRow(c *gin.Context) {
	t, ok := a.tableParam(c)
	if !ok {
		return
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := a.repo.Delete(c.Request.Context(), t, id); err != nil {
		respondServiceError(c, "delete "+string(t), err, "Failed to delete data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}
