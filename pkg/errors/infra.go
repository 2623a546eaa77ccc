package errors

import "errors"

// 基础设施层的哨兵错误，不走业务错误码。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")

	ErrDatabaseConnectionNil      = errors.New("database connection is nil")
	ErrUnsupportedMailProvider    = errors.New("unsupported mail provider")
	ErrUnsupportedCaptchaProvider = errors.New("unsupported captcha provider")
	ErrCaptchaTokenRequired       = errors.New("captcha verify token is required")
	ErrCaptchaResponseNil         = errors.New("captcha response is nil")
	ErrCaptchaVerificationFailed  = errors.New("captcha verification failed")
	ErrSignNameRequired           = errors.New("sms sign name is required")
	ErrTemplateCodeRequired       = errors.New("sms template code is required")
)

// NonRetryableError 表示不该重试的下游错误（模板、签名等配置问题）。
type NonRetryableError struct {
	Code    string
	Message string
	Hint    string
}

func (e *NonRetryableError) Error() string {
	return "non-retryable: " + e.Code + " - " + e.Message
}

func NewNonRetryableError(code, message, hint string) *NonRetryableError {
	return &NonRetryableError{Code: code, Message: message, Hint: hint}
}

// IsNonRetryableError 判断错误链上是否存在 NonRetryableError。
func IsNonRetryableError(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// SkipMessageError 表示消息应被跳过且不再重投。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// IsSkipMessageError 判断错误链上是否存在 SkipMessageError。
func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
