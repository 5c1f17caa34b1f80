package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MyFGitAccount/platform-efs/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 注册申请与资料上传走 Base64 JSON，上限需要容纳编码后的体积
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
