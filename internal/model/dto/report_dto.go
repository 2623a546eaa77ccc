package dto

import "time"

// ========== Report 相关 DTO ==========

// CreateReportRequest 提交目击举报请求（公开接口，可匿名）
type CreateReportRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Message   *string  `json:"message"`
	// 前端人机验证组件返回的验证参数，CAPTCHA_PROVIDER=none 时忽略
	CaptchaVerifyParam string `json:"captcha_verify_param"`
}

// CreateReportResponse 提交举报响应
type CreateReportResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ReportItem 举报列表项（管理员视角）
type ReportItem struct {
	ID         string     `json:"id"`
	CriminalID string     `json:"criminal_id"`
	Criminal   string     `json:"criminal_full_name,omitempty"`
	Submitter  *UserData  `json:"submitter,omitempty"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Message    *string    `json:"message,omitempty"`
	IPAddress  *string    `json:"ip_address,omitempty"`
	Status     string     `json:"status"`
	Reviewer   *UserData  `json:"reviewer,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReportListQuery 举报列表查询参数
type ReportListQuery struct {
	CriminalID string `query:"criminal_id"`
	Status     string `query:"status"`
	Limit      int    `query:"limit"`
	Cursor     string `query:"cursor"`
}

// ReviewReportRequest 管理员审核举报请求
type ReviewReportRequest struct {
	Status string `json:"status" binding:"required"` // verified | rejected
}
