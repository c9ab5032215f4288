package service

import (
	"context"
	"errors"

	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
)

var ErrServiceNotFound = errors.New("service not found")

// DefaultServices 在服务表为空时展示
var DefaultServices = []db.Service{
	{
		Title:       "Residential Construction",
		Description: "We build custom homes tailored to your vision. From initial design to final walkthrough, we ensure every detail meets your expectations.",
		Icon:        strPtr("🏠"),
	},
	{
		Title:       "Commercial Construction",
		Description: "Expert commercial construction services for offices, retail spaces, and industrial facilities. Delivered on time and within budget.",
		Icon:        strPtr("🏢"),
	},
	{
		Title:       "Interior & Renovation",
		Description: "Transform your existing space with our renovation services. We handle everything from design to execution with precision.",
		Icon:        strPtr("🔨"),
	},
	{
		Title:       "Turnkey Projects",
		Description: "Complete project management from concept to completion. We handle all aspects so you don't have to.",
		Icon:        strPtr("📋"),
	},
}

func strPtr(s string) *string {
	return &s
}

// ServiceCatalog manages the services table.
type ServiceCatalog struct {
	repo *content.Repository
}

// ServiceInput represents the admin service form.
type ServiceInput struct {
	Title       string
	Description string
	Icon        string
}

// NewServiceCatalog creates a ServiceCatalog.
func NewServiceCatalog(repo *content.Repository) *ServiceCatalog {
	return &ServiceCatalog{repo: repo}
}

// List returns services oldest first.
func (s *ServiceCatalog) List(ctx context.Context) ([]db.Service, error) {
	services := []db.Service{}
	if err := s.repo.List(ctx, content.Services, content.Query{Order: content.Asc("created_at")}, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListForDisplay is List, falling back to DefaultServices when nothing is stored.
func (s *ServiceCatalog) ListForDisplay(ctx context.Context) ([]db.Service, bool, error) {
	services, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(services) == 0 {
		fallback := make([]db.Service, len(DefaultServices))
		copy(fallback, DefaultServices)
		return fallback, true, nil
	}
	return services, false, nil
}

// Get fetches one service.
func (s *ServiceCatalog) Get(ctx context.Context, id uint) (*db.Service, error) {
	var item db.Service
	if err := s.repo.Get(ctx, content.Services, id, &item); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create validates and inserts a service.
func (s *ServiceCatalog) Create(ctx context.Context, input ServiceInput) (*db.Service, error) {
	item, err := normalizeService(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, content.Services, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the editable fields of service id.
func (s *ServiceCatalog) Update(ctx context.Context, id uint, input ServiceInput) (*db.Service, error) {
	item, err := normalizeService(input)
	if err != nil {
		return nil, err
	}
	err = s.repo.Update(ctx, content.Services, id, map[string]interface{}{
		"title":       item.Title,
		"description": item.Description,
		"icon":        deref(item.Icon),
	})
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes service id.
func (s *ServiceCatalog) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, content.Services, id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return ErrServiceNotFound
		}
		return err
	}
	return nil
}

func normalizeService(input ServiceInput) (*db.Service, error) {
	title := trimSpace(input.Title)
	description := trimSpace(input.Description)
	if title == "" || description == "" {
		return nil, invalid("Please fill in all required fields (Title, Description)")
	}
	return &db.Service{
		Title:       title,
		Description: description,
		Icon:        optional(input.Icon),
	}, nil
}
