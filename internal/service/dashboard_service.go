package service

import (
	"context"

	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
	"golang.org/x/sync/errgroup"
)

const recentLeadsLimit = 5

// DashboardStats 汇总后台首页展示的计数与最新线索
type DashboardStats struct {
	Leads       int64     `json:"leads"`
	Projects    int64     `json:"projects"`
	Services    int64     `json:"services"`
	NewLeads    int64     `json:"new_leads"`
	RecentLeads []db.Lead `json:"recent_leads"`
}

// DashboardService aggregates admin overview counters.
type DashboardService struct {
	repo *content.Repository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(repo *content.Repository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats runs the counters and the recent-leads query concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{RecentLeads: []db.Lead{}}

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, table content.Table, filters ...content.Filter) {
		g.Go(func() error {
			total, err := s.repo.Count(gctx, table, filters...)
			*dst = total
			return err
		})
	}
	count(&stats.Leads, content.Leads)
	count(&stats.Projects, content.Projects)
	count(&stats.Services, content.Services)
	count(&stats.NewLeads, content.Leads, content.Eq("status", db.LeadStatusNew))

	g.Go(func() error {
		return s.repo.List(gctx, content.Leads, content.Query{
			Filters: []content.Filter{content.Eq("status", db.LeadStatusNew)},
			Order:   content.Desc("created_at"),
			Limit:   recentLeadsLimit,
		}, &stats.RecentLeads)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
