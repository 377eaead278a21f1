package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-common-scoring/pkg/api"
	"katydid-common-scoring/pkg/idgen"
	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/types"
)

// requestIDHeader 调用方传递请求ID的头
const requestIDHeader = "X-Request-Id"

// Server HTTP 接入层：解析请求体，调用分发器，序列化响应
// 协议约定：统一 POST，响应体为 {"response":…,"code":…} 或 {"error":…,"code":…}
type Server struct {
	engine  *gin.Engine
	handler *api.Handler
	log     *zap.Logger
	ids     *idgen.Snowflake
}

// New 创建接入层
func New(st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	ids, err := idgen.New(0, 0)
	if err != nil {
		// 固定取值不会越界
		panic(err)
	}

	s := &Server{
		handler: api.NewHandler(st, log),
		log:     log,
		ids:     ids,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(s.recovery())
	engine.POST("/method", s.handleMethod)
	engine.NoRoute(func(c *gin.Context) {
		writeError(c, api.CodeNotFound, "")
	})
	s.engine = engine
	return s
}

// Run 启动 HTTP 服务，阻塞直到出错
func (s *Server) Run(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Engine 暴露底层引擎，用于测试和自定义挂载
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleMethod 单请求处理：JSON 解析 → 分发 → 序列化
func (s *Server) handleMethod(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.log.Info("unparsable request body", zap.Error(err))
		writeError(c, api.CodeBadRequest, "")
		return
	}

	reqCtx := types.NewExtras(4)
	reqCtx.Set("request_id", s.requestID(c))

	response, code := s.handler.Handle(c.Request.Context(), types.Extras(raw), reqCtx)

	s.log.Info("request handled",
		zap.Any("request_id", reqCtx["request_id"]),
		zap.Int("code", int(code)))

	if code.IsError() {
		text, _ := response.(string)
		writeError(c, code, text)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": response, "code": code})
}

// requestID 优先使用调用方传递的请求ID，缺失时生成
func (s *Server) requestID(c *gin.Context) string {
	if id := c.GetHeader(requestIDHeader); id != "" {
		return id
	}
	return s.ids.NextRequestID()
}

// recovery 把处理过程中的 panic 统一映射为内部错误响应
// 未捕获的失败绝不以原始形态外泄
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("panic recovered", zap.Any("panic", r))
				writeError(c, api.CodeInternalError, "")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// writeError 错误响应：text 为空时使用状态码的默认文案
func writeError(c *gin.Context, code api.Code, text string) {
	if text == "" {
		text = code.Text()
	}
	c.JSON(int(code), gin.H{"error": text, "code": code})
}
