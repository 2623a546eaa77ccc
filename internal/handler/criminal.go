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

// ListCriminals 通缉档案列表，公开
// GET /v1/criminals
func ListCriminals(ctx context.Context, c *app.RequestContext) {
	var q dto.CriminalListQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, nextCursor, err := service.Criminal().List(ctx, &q)
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

// GetCriminal 通缉档案详情，公开
// GET /v1/criminals/:id
func GetCriminal(ctx context.Context, c *app.RequestContext) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	item, err := service.Criminal().Get(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, item)
}

// CreateCriminal 新建通缉档案，管理员
// POST /v1/criminals
func CreateCriminal(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	var req dto.CriminalUpsertRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	form, _ := c.MultipartForm()
	files := formFiles(form, "photos")

	item, err := service.Criminal().Create(ctx, user, &req, files)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, item)
}

// UpdateCriminal 更新通缉档案，管理员
// PUT /v1/criminals/:id
func UpdateCriminal(ctx context.Context, c *app.RequestContext) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	var req dto.CriminalUpsertRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	item, err := service.Criminal().Update(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, item)
}

// DeleteCriminal 删除通缉档案，管理员
// DELETE /v1/criminals/:id
func DeleteCriminal(ctx context.Context, c *app.RequestContext) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	if err := service.Criminal().Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// AddCriminalPhoto 追加照片，管理员
// POST /v1/criminals/:id/photos
func AddCriminalPhoto(ctx context.Context, c *app.RequestContext) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	var label *string
	if v := c.PostForm("label"); v != "" {
		label = &v
	}

	item, err := service.Criminal().AddPhoto(ctx, id, file, label)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, item)
}

// DeleteCriminalPhoto 删除照片，管理员
// DELETE /v1/criminals/:id/photos/:photo_id
func DeleteCriminalPhoto(ctx context.Context, c *app.RequestContext) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(ctx, c, errors.CriminalNotFound)
		return
	}

	photoID, ok := paramID(c, "photo_id")
	if !ok {
		response.Error(ctx, c, errors.PhotoNotFound)
		return
	}

	if err := service.Criminal().DeletePhoto(ctx, id, photoID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
