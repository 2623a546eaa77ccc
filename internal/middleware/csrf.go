package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/csrf"
	"github.com/hertz-contrib/sessions"
	"github.com/hertz-contrib/sessions/cookie"

	"SecurityAlert/config"
	"SecurityAlert/pkg/errors"
	"SecurityAlert/pkg/response"
)

// SessionMiddleware cookie session，CSRF 校验依赖它
func SessionMiddleware() app.HandlerFunc {
	store := cookie.NewStore([]byte(config.Cfg.SessionSecret))
	return sessions.New("salert-session", store)
}

// CSRFMiddleware 浏览器端表单保护，API 客户端部署可通过配置关闭
func CSRFMiddleware() app.HandlerFunc {
	if !config.Cfg.CSRFEnabled {
		return func(ctx context.Context, c *app.RequestContext) {
			c.Next(ctx)
		}
	}

	return csrf.New(
		csrf.WithSecret(config.Cfg.CSRFSecret),
		csrf.WithKeyLookUp("header:X-CSRF-Token"),
		csrf.WithErrorFunc(func(ctx context.Context, c *app.RequestContext) {
			c.Abort()
			response.Error(ctx, c, errors.Definition{
				Code:    "CSRF_TOKEN_INVALID",
				Message: "CSRF token missing or invalid",
			})
		}),
	)
}
