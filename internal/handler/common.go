package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
)

// paramID 解析路径参数里的数字 id
func paramID(c *app.RequestContext, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formFiles 取出 multipart 表单中指定字段的全部文件
func formFiles(form *multipart.Form, field string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	return form.File[field]
}
