package dto

import "time"

// ========== Criminal 相关 DTO ==========

// CriminalUpsertRequest 创建 / 更新通缉档案请求（multipart 表单字段部分）
type CriminalUpsertRequest struct {
	FullName          string  `form:"full_name" json:"full_name" binding:"required"`
	Alias             *string `form:"alias" json:"alias"`
	DateOfBirth       *string `form:"date_of_birth" json:"date_of_birth"` // YYYY-MM-DD
	Description       string  `form:"description" json:"description" binding:"required"`
	CrimesCommitted   string  `form:"crimes_committed" json:"crimes_committed" binding:"required"`
	SecurityLevel     string  `form:"security_level" json:"security_level" binding:"required"`
	LastKnownLocation *string `form:"last_known_location" json:"last_known_location"`
	Status            string  `form:"status" json:"status" binding:"required"`
}

// CriminalItem 通缉档案列表项
type CriminalItem struct {
	ID                string       `json:"id"`
	FullName          string       `json:"full_name"`
	Alias             *string      `json:"alias,omitempty"`
	DateOfBirth       *string      `json:"date_of_birth,omitempty"`
	Description       string       `json:"description"`
	CrimesCommitted   string       `json:"crimes_committed"`
	SecurityLevel     string       `json:"security_level"`
	LastKnownLocation *string      `json:"last_known_location,omitempty"`
	Status            string       `json:"status"`
	Creator           *UserData    `json:"creator,omitempty"`
	Photos            []PhotoItem  `json:"photos"`
	CreatedAt         time.Time    `json:"created_at"`
}

// PhotoItem 照片条目
type PhotoItem struct {
	ID    string  `json:"id"`
	Path  string  `json:"path"`
	Label *string `json:"label,omitempty"`
}

// CriminalListQuery 列表查询参数
type CriminalListQuery struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Cursor string `query:"cursor"`
}
