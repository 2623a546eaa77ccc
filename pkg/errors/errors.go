package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// WithDetails 返回携带字段级错误详情的副本错误。
func (d Definition) WithDetails(details map[string]interface{}) *DetailedError {
	return &DetailedError{Definition: d, Details: details}
}

// DetailedError 表示携带字段级详情的业务错误，主要用于校验失败。
type DetailedError struct {
	Definition
	Details map[string]interface{}
}

// 认证相关错误。
var (
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden              = Definition{Code: "FORBIDDEN", Message: "Admin capability required"}
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	UserNotFound           = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// 通缉档案模块错误。
var (
	CriminalNotFound  = Definition{Code: "CRIMINAL_NOT_FOUND", Message: "Criminal record not found"}
	PhotoLimitReached = Definition{Code: "PHOTO_LIMIT_REACHED", Message: "Photo limit reached"}
	PhotoNotFound     = Definition{Code: "PHOTO_NOT_FOUND", Message: "Photo not found"}
)

// 举报模块错误。
var (
	ReportNotFound        = Definition{Code: "REPORT_NOT_FOUND", Message: "Report not found"}
	ReportAlreadyReviewed = Definition{Code: "REPORT_ALREADY_REVIEWED", Message: "Report already reviewed"}
	CaptchaFailed         = Definition{Code: "CAPTCHA_FAILED", Message: "Captcha verification failed"}
)

// 生存告警模块错误。
var (
	AlertNotConfigured = Definition{Code: "ALERT_NOT_CONFIGURED", Message: "Survival alert is not configured or has no emergency contacts"}
	TriggerInProgress  = Definition{Code: "TRIGGER_IN_PROGRESS", Message: "A trigger for this alert is already in progress"}
)

// 通用错误。
var (
	ValidationError = Definition{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	RateLimited     = Definition{Code: "RATE_LIMITED", Message: "Too many requests"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:           Unauthorized,
	Forbidden.Code:              Forbidden,
	EmailAlreadyRegistered.Code: EmailAlreadyRegistered,
	InvalidCredentials.Code:     InvalidCredentials,
	InvalidUserID.Code:          InvalidUserID,
	UserNotFound.Code:           UserNotFound,
	CriminalNotFound.Code:       CriminalNotFound,
	PhotoLimitReached.Code:      PhotoLimitReached,
	PhotoNotFound.Code:          PhotoNotFound,
	ReportNotFound.Code:         ReportNotFound,
	ReportAlreadyReviewed.Code:  ReportAlreadyReviewed,
	CaptchaFailed.Code:          CaptchaFailed,
	AlertNotConfigured.Code:     AlertNotConfigured,
	TriggerInProgress.Code:      TriggerInProgress,
	ValidationError.Code:        ValidationError,
	RateLimited.Code:            RateLimited,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
