package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sitepress/internal/db"
)

// Table names a content table exposed by the repository.
type Table string

const (
	Articles Table = "articles"
	Projects Table = "projects"
	Services Table = "services"
	Leads    Table = "leads"
)

// Kind 描述列的取值类型，用于把查询参数转换为数据库可比较的值
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindTime
)

type schema struct {
	newOne  func() interface{}
	newList func() interface{}
	columns map[string]Kind
	// writable 为允许通过 Update 修改的列
	writable map[string]bool
	hasSlug  bool
}

var schemas = map[Table]schema{
	Articles: {
		newOne:  func() interface{} { return &db.Article{} },
		newList: func() interface{} { return &[]db.Article{} },
		columns: map[string]Kind{
			"id":                 KindInt,
			"title":              KindString,
			"slug":               KindString,
			"excerpt":            KindString,
			"content":            KindString,
			"author":             KindString,
			"category":           KindString,
			"section":            KindString,
			"featured_image_url": KindString,
			"published":          KindBool,
			"featured":           KindBool,
			"published_at":       KindTime,
			"created_at":         KindTime,
			"updated_at":         KindTime,
		},
		writable: set("title", "slug", "excerpt", "content", "author", "category", "section",
			"featured_image_url", "published", "featured", "published_at"),
		hasSlug: true,
	},
	Projects: {
		newOne:  func() interface{} { return &db.Project{} },
		newList: func() interface{} { return &[]db.Project{} },
		columns: map[string]Kind{
			"id":              KindInt,
			"title":           KindString,
			"location":        KindString,
			"type":            KindString,
			"description":     KindString,
			"completion_year": KindInt,
			"image_url":       KindString,
			"created_at":      KindTime,
			"updated_at":      KindTime,
		},
		writable: set("title", "location", "type", "description", "completion_year", "image_url"),
	},
	Services: {
		newOne:  func() interface{} { return &db.Service{} },
		newList: func() interface{} { return &[]db.Service{} },
		columns: map[string]Kind{
			"id":          KindInt,
			"title":       KindString,
			"description": KindString,
			"icon":        KindString,
			"created_at":  KindTime,
			"updated_at":  KindTime,
		},
		writable: set("title", "description", "icon"),
	},
	Leads: {
		newOne:  func() interface{} { return &db.Lead{} },
		newList: func() interface{} { return &[]db.Lead{} },
		columns: map[string]Kind{
			"id":           KindInt,
			"name":         KindString,
			"email":        KindString,
			"phone":        KindString,
			"project_type": KindString,
			"message":      KindString,
			"status":       KindString,
			"created_at":   KindTime,
			"updated_at":   KindTime,
		},
		writable: set("name", "email", "phone", "project_type", "message", "status"),
	},
}

func set(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// ParseTable resolves a table name, rejecting anything outside the registry.
func ParseTable(name string) (Table, error) {
	t := Table(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schemas[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// NewRow 返回表对应模型的零值指针，便于 JSON 解码
func NewRow(t Table) (interface{}, error) {
	s, ok := schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, t)
	}
	return s.newOne(), nil
}

// NewRows 返回表对应模型切片的指针
func NewRows(t Table) (interface{}, error) {
	s, ok := schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, t)
	}
	return s.newList(), nil
}

// ParseValue converts a raw query string into the column's native type.
func ParseValue(t Table, column, raw string) (interface{}, error) {
	s, ok := schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, t)
	}
	kind, ok := s.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t, column)
	}

	raw = strings.TrimSpace(raw)
	switch kind {
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: boolean for %s: %q", ErrInvalidValue, column, raw)
		}
		return v, nil
	case KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: integer for %s: %q", ErrInvalidValue, column, raw)
		}
		return v, nil
	case KindTime:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp for %s: %q", ErrInvalidValue, column, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// CheckColumn reports whether column belongs to t.
func CheckColumn(t Table, column string) error {
	s, ok := schemas[t]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, t)
	}
	return s.checkColumn(t, column)
}

func (s schema) checkColumn(t Table, column string) error {
	if _, ok := s.columns[column]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t, column)
	}
	return nil
}
