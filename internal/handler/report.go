package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"SecurityAlert/internal/middleware"
	"SecurityAlert/internal/model"
	"SecurityAlert/internal/model/dto"
	"SecurityAlert/internal/service"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/response"
)

// SubmitReport 提交目击举报，公开接口，登录用户自动关联
// POST /v1/criminals/:id/reports
func SubmitReport(ctx context.Context, c *app.RequestContext) {
	criminalID, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	var req dto.CreateReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	// 可选登录：带合法 token 就记提交人，没带就匿名
	var user *model.User
	if u, ok := middleware.GetCurrentUser(c); ok {
		user = u
	}

	resp, err := service.Report().Submit(ctx, criminalID, user, c.ClientIP(), &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, resp)
}

// ListReports 举报列表，管理员
// GET /v1/admin/reports
func ListReports(ctx context.Context, c *app.RequestContext) {
	var q dto.ReportListQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, nextCursor, err := service.Report().List(ctx, &q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	meta := map[string]interface{}{}
	if nextCursor != "" {
		meta["next_cursor"] = nextCursor
	}

	response.SuccessWithMeta(ctx, c, items, meta)
}

// ReviewReport 审核举报，管理员
// PATCH /v1/admin/reports/:id
func ReviewReport(ctx context.Context, c *app.RequestContext) {
	reportID, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.ReportNotFound)
		return
	}

	reviewer, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.ReviewReportRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := service.Report().Review(ctx, reportID, reviewer, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, item)
}
