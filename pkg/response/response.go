package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"SecurityAlert/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	var def errors.Definition
	switch e := err.(type) {
	case errors.Definition:
		def = e
	case *errors.DetailedError:
		def = e.Definition
	default:
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "UNAUTHORIZED", "FORBIDDEN", "CSRF_TOKEN_INVALID":
		return http.StatusForbidden // 403
	case "VALIDATION_ERROR", "ALERT_NOT_CONFIGURED":
		return http.StatusUnprocessableEntity // 422
	case "CRIMINAL_NOT_FOUND", "REPORT_NOT_FOUND",
		"USER_NOT_FOUND", "PHOTO_NOT_FOUND":
		return http.StatusNotFound // 404
	case "TRIGGER_IN_PROGRESS", "RATE_LIMITED":
		return http.StatusTooManyRequests // 429
	case "INVALID_CREDENTIALS", "INVALID_USER_ID",
		"EMAIL_ALREADY_REGISTERED", "PHOTO_LIMIT_REACHED",
		"REPORT_ALREADY_REVIEWED", "CAPTCHA_FAILED",
		"INVALID_REQUEST":
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	var details map[string]interface{}

	switch e := err.(type) {
	case errors.Definition:
		code = e.Code
		message = e.Message
	case *errors.DetailedError:
		code = e.Code
		message = e.Message
		details = e.Details
	default:
		code = "INTERNAL_ERROR"
		message = "An unexpected error occurred"
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

// Created 返回 201 Created（用于资源创建）
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
