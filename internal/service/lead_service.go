package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrLeadStatusInvalid = errors.New("lead status is invalid")
)

// LeadService handles contact form submissions and the admin lead pipeline.
type LeadService struct {
	repo *content.Repository
}

// LeadInput represents the public contact form.
type LeadInput struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Message     string
}

// LeadFilter narrows the admin lead listing.
type LeadFilter struct {
	Status string
	Search string
}

// NewLeadService creates a LeadService.
func NewLeadService(repo *content.Repository) *LeadService {
	return &LeadService{repo: repo}
}

// Submit stores a contact form submission as a new lead.
func (s *LeadService) Submit(ctx context.Context, input LeadInput) (*db.Lead, error) {
	name := trimSpace(input.Name)
	email := trimSpace(input.Email)
	phone := trimSpace(input.Phone)
	projectType := trimSpace(input.ProjectType)
	if name == "" || email == "" || phone == "" || projectType == "" {
		return nil, invalid("Please fill in all required fields")
	}
	if !validEmail(email) {
		return nil, invalid("Please enter a valid email address")
	}

	lead := &db.Lead{
		Name:        name,
		Email:       email,
		Phone:       phone,
		ProjectType: projectType,
		Message:     optional(input.Message),
		Status:      db.LeadStatusNew,
	}
	if err := s.repo.Insert(ctx, content.Leads, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns leads newest first, filtered by status and a free-text search
// over name, email, phone and project type.
func (s *LeadService) List(ctx context.Context, filter LeadFilter) ([]db.Lead, error) {
	query := content.Query{Order: content.Desc("created_at")}
	if status := trimSpace(filter.Status); status != "" && status != "all" {
		if !db.IsLeadStatus(status) {
			return nil, ErrLeadStatusInvalid
		}
		query.Filters = append(query.Filters, content.Eq("status", status))
	}

	leads := []db.Lead{}
	if err := s.repo.List(ctx, content.Leads, query, &leads); err != nil {
		return nil, err
	}

	search := trimSpace(filter.Search)
	if search == "" {
		return leads, nil
	}

	needle := strings.ToLower(search)
	matched := leads[:0]
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead.Name), needle) ||
			strings.Contains(strings.ToLower(lead.Email), needle) ||
			strings.Contains(lead.Phone, search) ||
			strings.Contains(strings.ToLower(lead.ProjectType), needle) {
			matched = append(matched, lead)
		}
	}
	return matched, nil
}

// Get fetches one lead.
func (s *LeadService) Get(ctx context.Context, id uint) (*db.Lead, error) {
	var lead db.Lead
	if err := s.repo.Get(ctx, content.Leads, id, &lead); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// UpdateStatus moves lead id to status. Any transition between known statuses is allowed.
func (s *LeadService) UpdateStatus(ctx context.Context, id uint, status string) (*db.Lead, error) {
	status = trimSpace(status)
	if !db.IsLeadStatus(status) {
		return nil, ErrLeadStatusInvalid
	}
	if err := s.repo.Update(ctx, content.Leads, id, map[string]interface{}{"status": status}); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes lead id.
func (s *LeadService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, content.Leads, id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return ErrLeadNotFound
		}
		return err
	}
	return nil
}
