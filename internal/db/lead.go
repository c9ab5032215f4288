package db

import "time"

// 线索状态，按销售流程推进
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
)

// LeadStatuses 按流程顺序列出线索状态
var LeadStatuses = []string{LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusConverted}

// ContactProjectTypes 是联系表单中可选的项目类型
var ContactProjectTypes = []string{
	"Residential Construction",
	"Commercial Construction",
	"Renovation & Remodeling",
	"Interior Design",
	"Project Management",
	"Other",
}

// Lead 定义了联系表单提交的销售线索
type Lead struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Phone       string    `gorm:"not null" json:"phone"`
	ProjectType string    `gorm:"not null" json:"project_type"`
	Message     *string   `gorm:"type:text" json:"message"`
	Status      string    `gorm:"index;not null;default:new" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsLeadStatus reports whether value is one of LeadStatuses.
func IsLeadStatus(value string) bool {
	for _, s := range LeadStatuses {
		if s == value {
			return true
		}
	}
	return false
}
