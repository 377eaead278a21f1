package api

import (
	"context"

	"go.uber.org/zap"

	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/types"
)

// Handler 请求分发器：transport 层每个请求同步调用一次 Handle
// store 是进程级共享的长生命周期状态，请求之间无其他共享
type Handler struct {
	store *store.Store
	log   *zap.Logger
}

// NewHandler 创建分发器，logger 为 nil 时静默
func NewHandler(st *store.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: st, log: log}
}

// Handle 处理一个已经由 transport 解析好的请求
//
// 返回值：
//   - 成功：方法执行结果与 CodeOK
//   - 验证/认证失败：聚合的错误文案与对应状态码
//   - 执行失败（含严格读取缓存不可用）：nil 与 CodeInternalError，
//     错误绝不向上抛出
//
// reqCtx 是调用方提供的可变映射，方法执行会把旁路指标写回其中
func (h *Handler) Handle(ctx context.Context, raw, reqCtx types.Extras) (any, Code) {
	if reqCtx == nil {
		reqCtx = types.NewExtras(2)
	}
	request := NewMethodRequest(raw, h.log)

	response, code := request.ValidateRequest()
	h.log.Info("request validated",
		zap.String("method", request.MethodName()),
		zap.Int("code", int(code)))
	if code != CodeOK {
		return response, code
	}

	result, err := request.EvaluateMethod(ctx, reqCtx, h.store)
	if err != nil {
		h.log.Error("method evaluation failed",
			zap.String("method", request.MethodName()),
			zap.Error(err))
		return nil, CodeInternalError
	}
	return result, CodeOK
}
