package model

import "time"

// SecurityLevel 危险等级枚举，仅用于前端展示强调
type SecurityLevel string

const (
	SecurityLevelLow      SecurityLevel = "low"
	SecurityLevelMedium   SecurityLevel = "medium"
	SecurityLevelHigh     SecurityLevel = "high"
	SecurityLevelCritical SecurityLevel = "critical"
)

// CriminalStatus 通缉状态枚举
type CriminalStatus string

const (
	CriminalStatusAtLarge  CriminalStatus = "at_large" // 在逃
	CriminalStatusCaptured CriminalStatus = "captured" // 已捕获
	CriminalStatusDeceased CriminalStatus = "deceased" // 已死亡
)

// ValidSecurityLevel 校验危险等级取值。
func ValidSecurityLevel(s string) bool {
	switch SecurityLevel(s) {
	case SecurityLevelLow, SecurityLevelMedium, SecurityLevelHigh, SecurityLevelCritical:
		return true
	}
	return false
}

// ValidCriminalStatus 校验通缉状态取值。
func ValidCriminalStatus(s string) bool {
	switch CriminalStatus(s) {
	case CriminalStatusAtLarge, CriminalStatusCaptured, CriminalStatusDeceased:
		return true
	}
	return false
}

// Criminal 通缉档案模型

type Criminal struct {
	BaseModel
	FullName          string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Alias             *string        `gorm:"type:varchar(255)" json:"alias,omitempty"`
	DateOfBirth       *time.Time     `gorm:"type:date" json:"date_of_birth,omitempty"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	CrimesCommitted   string         `gorm:"type:text;not null" json:"crimes_committed"`
	SecurityLevel     SecurityLevel  `gorm:"type:varchar(16);not null;default:'medium'" json:"security_level"`
	LastKnownLocation *string        `gorm:"type:varchar(255)" json:"last_known_location,omitempty"`
	Status            CriminalStatus `gorm:"type:varchar(16);not null;default:'at_large';index:idx_criminals_status" json:"status"`
	CreatedBy         int64          `gorm:"not null;index:idx_criminals_created_by" json:"created_by"`
	Creator           *User          `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Photos            []Photo        `gorm:"foreignKey:CriminalID;constraint:OnDelete:CASCADE" json:"photos"`
}

// TableName 指定表名
func (Criminal) TableName() string {
	return "criminals"
}

// Photo 通缉档案照片模型，磁盘文件由 photos 包负责，档案删除时级联删除

type Photo struct {
	BaseModel
	CriminalID int64   `gorm:"not null;index:idx_photos_criminal" json:"criminal_id"`
	Path       string  `gorm:"type:varchar(255);not null" json:"path"`
	Label      *string `gorm:"type:varchar(255)" json:"label,omitempty"`
}

// TableName 指定表名
func (Photo) TableName() string {
	return "photos"
}
