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

// GetSurvivalAlert 查看本人的预警配置，首次访问落默认配置
// GET /v1/survival-alert
func GetSurvivalAlert(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	alert, err := service.Alert().GetOrCreate(ctx, user.ID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.ToAlertConfigData(alert))
}

// UpsertSurvivalAlert 保存预警配置
// PUT /v1/survival-alert
func UpsertSurvivalAlert(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.UpsertAlertRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	alert, err := service.Alert().Upsert(ctx, user.ID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.ToAlertConfigData(alert))
}

// TriggerSurvivalAlert 触发求救预警
// POST /v1/survival-alert/trigger
func TriggerSurvivalAlert(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.TriggerAlertRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Alert().Trigger(ctx, user, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}
