package api

import (
	"context"

	"go.uber.org/zap"

	"katydid-common-scoring/pkg/fields"
	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/types"
)

// MethodRequest 请求信封：外层凭据与方法名加上不透明的方法参数
//
// 字段策略：
//   - account/login/token/arguments 必填但允许为空
//   - method 必填且不允许为空
//
// 每个请求构造独立实例，字段值只在本请求生命周期内有效
type MethodRequest struct {
	raw types.Extras
	log *zap.Logger

	account   *fields.Field
	login     *fields.Field
	token     *fields.Field
	arguments *fields.Field
	method    *fields.Field

	schema *fields.Schema
}

// NewMethodRequest 用原始请求映射构造信封
func NewMethodRequest(raw types.Extras, log *zap.Logger) *MethodRequest {
	if log == nil {
		log = zap.NewNop()
	}
	r := &MethodRequest{
		raw:       raw,
		log:       log,
		account:   fields.NewString(true, true),
		login:     fields.NewString(true, true),
		token:     fields.NewString(true, true),
		arguments: fields.NewArguments(true, true),
		method:    fields.NewString(true, false),
	}
	r.schema = fields.NewSchema(raw, []fields.Entry{
		{Name: "account", Field: r.account},
		{Name: "login", Field: r.login},
		{Name: "token", Field: r.token},
		{Name: "arguments", Field: r.arguments},
		{Name: "method", Field: r.method},
	})
	return r
}

// Account 验证后的账户名
func (r *MethodRequest) Account() string { return r.account.String() }

// Login 验证后的登录名
func (r *MethodRequest) Login() string { return r.login.String() }

// Token 验证后的令牌
func (r *MethodRequest) Token() string { return r.token.String() }

// MethodName 验证后的方法名
func (r *MethodRequest) MethodName() string { return r.method.String() }

// Arguments 验证后的方法参数，缺失时返回空映射
func (r *MethodRequest) Arguments() types.Extras { return r.arguments.Extras() }

// IsAdmin 登录名为管理员账号
func (r *MethodRequest) IsAdmin() bool { return r.Login() == AdminLogin }

// ValidateRequest 信封验证全流程：字段验证 → 认证 → 方法 schema 验证
//
// 状态码优先级（从高到低）：FORBIDDEN > INVALID_REQUEST > OK
// 注意：认证只在信封字段全部通过后才执行，字段失败时以 INVALID_REQUEST
// 上报并继续收集方法级错误，不暴露认证结果
func (r *MethodRequest) ValidateRequest() (string, Code) {
	joined, ok := r.schema.Validate()
	finalCode := CodeOK
	if !ok {
		finalCode = CodeInvalidRequest
		r.log.Debug("envelope field validation failed", zap.String("errors", joined))
	}

	if finalCode == CodeOK && !CheckAuth(r) {
		r.log.Debug("authentication failed", zap.String("login", r.Login()))
		return CodeForbidden.Text(), CodeForbidden
	}

	msg, code := r.validateMethod()
	if code == CodeInternalError {
		return msg, code
	}
	if code != CodeOK {
		finalCode = CodeInvalidRequest
		if joined != "" {
			joined += ", "
		}
		joined += msg
	}

	return joined, finalCode
}

// validateMethod 解析方法名并验证对应的方法 schema
// 空方法名是验证错误；未注册的方法名是内部错误，绝不混入用户文案
func (r *MethodRequest) validateMethod() (string, Code) {
	name := r.MethodName()
	if name == "" {
		return "invalid method: method name is empty", CodeInvalidRequest
	}

	m, err := ParseMethod(name)
	if err != nil {
		// 内部错误只进日志，响应体使用状态码的通用文案
		r.log.Error("method resolution failed", zap.Error(err))
		return "", CodeInternalError
	}

	if msg, ok := m.newSchema(r.Arguments()).Validate(); !ok {
		return msg, CodeInvalidRequest
	}
	return "", CodeOK
}

// EvaluateMethod 执行已验证请求的方法
// 只能在 ValidateRequest 返回 OK 之后调用
func (r *MethodRequest) EvaluateMethod(ctx context.Context, reqCtx types.Extras, st *store.Store) (any, error) {
	m, err := ParseMethod(r.MethodName())
	if err != nil {
		return nil, err
	}
	r.log.Debug("evaluating method", zap.String("method", m.String()))
	return m.newSchema(r.Arguments()).Evaluate(ctx, EvalEnv{
		Store:   st,
		Ctx:     reqCtx,
		IsAdmin: r.IsAdmin(),
	})
}
