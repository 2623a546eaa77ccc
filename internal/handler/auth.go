package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"SecurityAlert/internal/middleware"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/internal/service"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/response"
)

// Register 注册
// POST /v1/auth/register
func Register(ctx context.Context, c *app.RequestContext) {
	var req dto.RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().Register(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, resp)
}

// Login 登录
// POST /v1/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().Login(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// Logout 登出，撤销 refresh token
// POST /v1/auth/logout
func Logout(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	if err := service.Auth().Logout(ctx, user.PublicID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// GetCurrentUser 当前用户信息
// GET /v1/users/me
func GetCurrentUser(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	response.Success(ctx, c, service.ToUserData(user))
}
