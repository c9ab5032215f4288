package db

import "time"

// 文章分类，与新闻站的栏目一一对应
const (
	CategoryUS        = "us"
	CategoryWorld     = "world"
	CategoryBusiness  = "business"
	CategoryArts      = "arts"
	CategoryLifestyle = "lifestyle"
	CategoryOpinion   = "opinion"
	CategoryTech      = "tech"
	CategorySports    = "sports"
)

// Category 描述一个分类的取值与展示名称
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories 按导航顺序列出全部分类
var Categories = []Category{
	{Value: CategoryUS, Label: "U.S."},
	{Value: CategoryWorld, Label: "World"},
	{Value: CategoryBusiness, Label: "Business"},
	{Value: CategoryArts, Label: "Arts"},
	{Value: CategoryLifestyle, Label: "Lifestyle"},
	{Value: CategoryOpinion, Label: "Opinion"},
	{Value: CategoryTech, Label: "Tech"},
	{Value: CategorySports, Label: "Sports"},
}

// Article 定义了新闻文章模型
type Article struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt          *string    `json:"excerpt"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	Author           string     `gorm:"not null" json:"author"`
	Category         string     `gorm:"index;not null;default:us" json:"category"`
	Section          *string    `json:"section"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Published        bool       `gorm:"index;default:false" json:"published"`
	Featured         bool       `gorm:"default:false" json:"featured"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CategoryLabel 返回分类的展示名称，未知分类原样返回
func CategoryLabel(value string) string {
	for _, c := range Categories {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// IsCategory reports whether value is a known article category.
func IsCategory(value string) bool {
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}
