package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sitepress/internal/config"
	"github.com/sitepress/internal/content"
	"github.com/sitepress/internal/db"
	"github.com/sitepress/internal/service"
	"gorm.io/gorm"
)

// 测试数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")
	summary, err := seed(context.Background(), db.DB)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("文章: %d 篇, 案例: %d 个, 服务: %d 项, 线索: %d 条\n",
		summary.Articles, summary.Projects, summary.Services, summary.Leads)
}

type seedSummary struct {
	Articles int
	Projects int
	Services int
	Leads    int
}

// seed 通过服务层写入示例数据，已有数据的表会被跳过
func seed(ctx context.Context, gdb *gorm.DB) (seedSummary, error) {
	repo := content.NewRepository(gdb)
	var summary seedSummary

	steps := []struct {
		table content.Table
		run   func() (int, error)
	}{
		{content.Articles, func() (int, error) { return seedArticles(ctx, service.NewArticleService(repo)) }},
		{content.Projects, func() (int, error) { return seedProjects(ctx, service.NewProjectService(repo)) }},
		{content.Services, func() (int, error) { return seedServices(ctx, service.NewServiceCatalog(repo)) }},
		{content.Leads, func() (int, error) { return seedLeads(ctx, service.NewLeadService(repo)) }},
	}

	for _, step := range steps {
		total, err := repo.Count(ctx, step.table)
		if err != nil {
			return summary, err
		}
		if total > 0 {
			fmt.Printf("%s 已存在数据，跳过创建\n", step.table)
			continue
		}
		n, err := step.run()
		if err != nil {
			return summary, fmt.Errorf("seed %s: %w", step.table, err)
		}
		switch step.table {
		case content.Articles:
			summary.Articles = n
		case content.Projects:
			summary.Projects = n
		case content.Services:
			summary.Services = n
		case content.Leads:
			summary.Leads = n
		}
		fmt.Printf("✅ %s 创建完成\n", step.table)
	}
	return summary, nil
}

func seedArticles(ctx context.Context, articles *service.ArticleService) (int, error) {
	inputs := []service.ArticleInput{
		{
			Title:     "City Council Approves New Transit Plan",
			Excerpt:   "The plan adds three bus rapid transit lines by 2028.",
			Content:   "The council voted **7-2** on Tuesday to approve the plan.\n\n- Three new lines\n- Extended night service",
			Author:    "Maria Chen",
			Category:  string(db.CategoryUS),
			Published: true,
			Featured:  true,
		},
		{
			Title:     "Global Markets Rally on Trade Optimism",
			Excerpt:   "Stocks rose across Asia and Europe.",
			Content:   "Markets climbed for a third straight session.",
			Author:    "James Ortiz",
			Category:  string(db.CategoryBusiness),
			Published: true,
			Featured:  true,
		},
		{
			Title:     "Summit Ends With Climate Pledge",
			Content:   "Leaders agreed on a joint statement after two days of talks.",
			Author:    "Ama Mensah",
			Category:  string(db.CategoryWorld),
			Published: true,
		},
		{
			Title:     "A Retrospective of Modern Sculpture Opens Downtown",
			Content:   "The exhibit runs through the spring.",
			Author:    "Leo Park",
			Category:  string(db.CategoryArts),
			Published: true,
		},
		{
			Title:    "Draft: Notes on the Upcoming Season",
			Content:  "Unpublished notes.",
			Author:   "Staff",
			Category: string(db.CategorySports),
		},
	}
	for _, input := range inputs {
		if _, err := articles.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func seedProjects(ctx context.Context, projects *service.ProjectService) (int, error) {
	inputs := []service.ProjectInput{
		{Title: "Lakeside Family Home", Location: "Austin, TX", Type: db.ProjectResidential, CompletionYear: "2023",
			Description: "A four-bedroom custom build with a timber frame porch."},
		{Title: "Riverside Office Park", Location: "Dallas, TX", Type: db.ProjectCommercial, CompletionYear: "2022",
			Description: "Three-storey office block with underground parking."},
		{Title: "Historic Loft Conversion", Location: "San Antonio, TX", Type: db.ProjectRenovation,
			Description: "Warehouse turned into eight loft apartments."},
	}
	for _, input := range inputs {
		if _, err := projects.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}

func seedServices(ctx context.Context, catalog *service.ServiceCatalog) (int, error) {
	for _, def := range service.DefaultServices {
		input := service.ServiceInput{Title: def.Title, Description: def.Description}
		if def.Icon != nil {
			input.Icon = *def.Icon
		}
		if _, err := catalog.Create(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(service.DefaultServices), nil
}

func seedLeads(ctx context.Context, leads *service.LeadService) (int, error) {
	inputs := []service.LeadInput{
		{Name: "Sarah Johnson", Email: "sarah@example.com", Phone: "(555) 123-4567",
			ProjectType: db.ContactProjectTypes[0], Message: "Looking to build a 3-bedroom home."},
		{Name: "Tom Becker", Email: "tom@example.com", Phone: "(555) 987-6543",
			ProjectType: db.ContactProjectTypes[2], Message: "Kitchen remodel quote please."},
	}
	for _, input := range inputs {
		if _, err := leads.Submit(ctx, input); err != nil {
			return 0, err
		}
	}
	return len(inputs), nil
}
