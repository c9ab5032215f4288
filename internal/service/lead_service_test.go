package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sitepress/internal/db"
)

func submitLead(t *testing.T, svc *LeadService, name, email, phone, projectType string) *db.Lead {
	t.Helper()
	lead, err := svc.Submit(context.Background(), LeadInput{Name: name, Email: email, Phone: phone, ProjectType: projectType})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	return lead
}

func TestLeadSubmitRequiresFields(t *testing.T) {
	_, repo := setupServiceTestDB(t)
	svc := NewLeadService(repo)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, LeadInput{Name: "Ann", Email: "ann@example.com"}); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Submit(ctx, LeadInput{Name: "Ann", Email: "not-an-email", Phone: "1", ProjectType: "Other"}); !IsValidation(err) {
		t.Fatalf("expected validation error for email, got %v", err)
	}

	lead, err := svc.Submit(ctx, LeadInput{Name: " Ann ", Email: "ann@example.com", Phone: "555-0100", ProjectType: "Interior Design", Message: "  "})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if lead.Status != db.LeadStatusNew {
		t.Fatalf("expected status new, got %q", lead.Status)
	}
	if lead.Name != "Ann" || lead.Message != nil {
		t.Fatalf("expected trimmed name and NULL message, got %+v", lead)
	}
}

func TestLeadListFiltersAndSearches(t *testing.T) {
	_, repo := setupServiceTestDB(t)
	svc := NewLeadService(repo)
	ctx := context.Background()

	ann := submitLead(t, svc, "Ann Lee", "ann@example.com", "555-0100", "Interior Design")
	submitLead(t, svc, "Bob Stone", "bob@builder.io", "555-0199", "Commercial Construction")
	submitLead(t, svc, "Cara Diaz", "cara@example.com", "777-1234", "Other")

	if _, err := svc.UpdateStatus(ctx, ann.ID, db.LeadStatusQuoted); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	quoted, err := svc.List(ctx, LeadFilter{Status: db.LeadStatusQuoted})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(quoted) != 1 || quoted[0].ID != ann.ID {
		t.Fatalf("expected only Ann to be quoted, got %+v", quoted)
	}

	tests := []struct {
		search string
		want   int
	}{
		{search: "EXAMPLE.COM", want: 2},
		{search: "555-01", want: 2},
		{search: "commercial", want: 1},
		{search: "stone", want: 1},
		{search: "nobody", want: 0},
	}
	for _, tt := range tests {
		got, err := svc.List(ctx, LeadFilter{Status: "all", Search: tt.search})
		if err != nil {
			t.Fatalf("List(%q) returned error: %v", tt.search, err)
		}
		if len(got) != tt.want {
			t.Fatalf("search %q: expected %d leads, got %d", tt.search, tt.want, len(got))
		}
	}

	if _, err := svc.List(ctx, LeadFilter{Status: "archived"}); !errors.Is(err, ErrLeadStatusInvalid) {
		t.Fatalf("expected ErrLeadStatusInvalid, got %v", err)
	}
}

func TestLeadStatusAndDelete(t *testing.T) {
	_, repo := setupServiceTestDB(t)
	svc := NewLeadService(repo)
	ctx := context.Background()

	lead := submitLead(t, svc, "Dan", "dan@example.com", "1", "Other")

	if _, err := svc.UpdateStatus(ctx, lead.ID, "lost"); !errors.Is(err, ErrLeadStatusInvalid) {
		t.Fatalf("expected ErrLeadStatusInvalid, got %v", err)
	}
	updated, err := svc.UpdateStatus(ctx, lead.ID, db.LeadStatusConverted)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != db.LeadStatusConverted {
		t.Fatalf("expected converted, got %q", updated.Status)
	}

	if err := svc.Delete(ctx, lead.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	remaining, err := svc.List(ctx, LeadFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected deleted lead to be gone, got %d leads", len(remaining))
	}
	if _, err := svc.UpdateStatus(ctx, lead.ID, db.LeadStatusNew); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}
