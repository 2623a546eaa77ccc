package model

import "time"

// ReportStatus 举报审核状态枚举
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"  // 待审核
	ReportStatusVerified ReportStatus = "verified" // 已核实
	ReportStatusRejected ReportStatus = "rejected" // 已驳回
)

// ValidReportStatus 校验举报状态取值。
func ValidReportStatus(s string) bool {
	switch ReportStatus(s) {
	case ReportStatusPending, ReportStatusVerified, ReportStatusRejected:
		return true
	}
	return false
}

// Report 目击举报模型，创建后除管理员审核字段外不可变
// 举报可以匿名提交，UserID 为空表示匿名；用户注销时置空而非删除

type Report struct {
	BaseModel
	CriminalID int64        `gorm:"not null;index:idx_reports_criminal" json:"criminal_id"`
	Criminal   *Criminal    `gorm:"foreignKey:CriminalID;constraint:OnDelete:CASCADE" json:"criminal,omitempty"`
	UserID     *int64       `gorm:"index:idx_reports_user" json:"user_id,omitempty"`
	User       *User        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Latitude   float64      `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude  float64      `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Message    *string      `gorm:"type:text" json:"message,omitempty"`
	IPAddress  *string      `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	Status     ReportStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_reports_status" json:"status"`
	ReviewedBy *int64       `json:"reviewed_by,omitempty"`
	Reviewer   *User        `gorm:"foreignKey:ReviewedBy;constraint:OnDelete:SET NULL" json:"reviewer,omitempty"`
	ReviewedAt *time.Time   `gorm:"type:timestamptz" json:"reviewed_at,omitempty"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}
