package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService wraps portfolio project reads and writes.
type ProjectService struct {
	repo *content.Repository
}

// ProjectInput represents the admin project form. CompletionYear is the raw
// form text and may be empty.
type ProjectInput struct {
	Title          string
	Location       string
	Type           string
	Description    string
	CompletionYear string
	ImageURL       string
}

// NewProjectService creates a ProjectService.
func NewProjectService(repo *content.Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns projects newest first. An empty type or "all" disables the filter.
func (s *ProjectService) List(ctx context.Context, projectType string) ([]db.Project, error) {
	query := content.Query{Order: content.Desc("created_at")}
	if projectType = trimSpace(projectType); projectType != "" && projectType != "all" {
		query.Filters = append(query.Filters, content.Eq("type", projectType))
	}

	projects := []db.Project{}
	if err := s.repo.List(ctx, content.Projects, query, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get fetches one project.
func (s *ProjectService) Get(ctx context.Context, id uint) (*db.Project, error) {
	var project db.Project
	if err := s.repo.Get(ctx, content.Projects, id, &project); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create validates and inserts a project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*db.Project, error) {
	project, err := normalizeProject(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, content.Projects, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update replaces the editable fields of project id.
func (s *ProjectService) Update(ctx context.Context, id uint, input ProjectInput) (*db.Project, error) {
	project, err := normalizeProject(input)
	if err != nil {
		return nil, err
	}

	var year interface{}
	if project.CompletionYear != nil {
		year = *project.CompletionYear
	}

	err = s.repo.Update(ctx, content.Projects, id, map[string]interface{}{
		"title":           project.Title,
		"location":        project.Location,
		"type":            project.Type,
		"description":     deref(project.Description),
		"completion_year": year,
		"image_url":       deref(project.ImageURL),
	})
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes project id.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, content.Projects, id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func normalizeProject(input ProjectInput) (*db.Project, error) {
	title := trimSpace(input.Title)
	location := trimSpace(input.Location)
	projectType := trimSpace(input.Type)
	if title == "" || location == "" || projectType == "" {
		return nil, invalid("Please fill in all required fields (Title, Location, Type)")
	}
	if !db.IsProjectType(projectType) {
		return nil, invalid("Project type must be Residential, Commercial or Renovation")
	}

	var year *int
	if raw := trimSpace(input.CompletionYear); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, invalid("Completion year must be a valid year")
		}
		year = &parsed
	}

	return &db.Project{
		Title:          title,
		Location:       location,
		Type:           projectType,
		Description:    optional(input.Description),
		CompletionYear: year,
		ImageURL:       optional(input.ImageURL),
	}, nil
}
