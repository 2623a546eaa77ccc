package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"SecurityAlert/internal/model"
	"SecurityAlert/internal/service"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/response"
)

const currentUserKey = "current_user"

// CurrentUserMiddleware 鉴权通过后加载用户实体，挂到请求上下文
func CurrentUserMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		publicID, ok := GetUserID(ctx, c)
		if !ok {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		user, err := service.Auth().GetByPublicIDString(ctx, publicID)
		if err != nil {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		c.Set(currentUserKey, user)
		c.Next(ctx)
	}
}

// OptionalCurrentUserMiddleware 身份存在时加载用户实体，失败不拦截
func OptionalCurrentUserMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if publicID, ok := GetUserID(ctx, c); ok {
			if user, err := service.Auth().GetByPublicIDString(ctx, publicID); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next(ctx)
	}
}

// AdminMiddleware 管理员能力校验，挂在 CurrentUserMiddleware 之后
func AdminMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
			return
		}

		if !user.IsAdmin() {
			c.Abort()
			response.Error(ctx, c, errors.Forbidden)
			return
		}

		c.Next(ctx)
	}
}

// GetCurrentUser 取出 CurrentUserMiddleware 挂载的用户实体
func GetCurrentUser(c *app.RequestContext) (*model.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*model.User)
	return user, ok
}
