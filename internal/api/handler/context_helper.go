package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// MustGetSID 从 Gin 上下文中安全提取 sid。
// 如果 JWT 中间件未正确注入 sid，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSID(c *gin.Context) (string, bool) {
	v, exists := c.Get("sid")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中安全提取完整 JWT 声明。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// IsAdmin 当前请求是否来自管理员
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get("role")
	if !exists {
		return false
	}
	role, ok := v.(string)
	return ok && role == model.RoleAdmin
}
