package db

import "time"

// 项目类型
const (
	ProjectResidential = "Residential"
	ProjectCommercial  = "Commercial"
	ProjectRenovation  = "Renovation"
)

// ProjectTypes 列出允许的项目类型
var ProjectTypes = []string{ProjectResidential, ProjectCommercial, ProjectRenovation}

// Project 定义了施工案例模型
type Project struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Location       string    `gorm:"not null" json:"location"`
	Type           string    `gorm:"index;not null" json:"type"`
	Description    *string   `gorm:"type:text" json:"description"`
	CompletionYear *int      `json:"completion_year"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsProjectType reports whether value is one of ProjectTypes.
func IsProjectType(value string) bool {
	for _, t := range ProjectTypes {
		if t == value {
			return true
		}
	}
	return false
}
