package public

import "github.com/prepnext/affiliate-api/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器用于推广码解析、访问上报与订单回调等无鉴权接口。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
