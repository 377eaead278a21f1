package api

import (
	"context"
	"fmt"

	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/types"
)

// Method 已注册方法的封闭枚举
//
// 设计说明：
//   - 用带类型的枚举替代字符串键的分发表，
//     每个枚举值绑定自己的 schema 构造，遗漏分支在编译期暴露
//   - 未注册的方法名是编程/配置错误，不是用户可见的验证错误
type Method int

const (
	// MethodOnlineScore 在线评分
	MethodOnlineScore Method = iota + 1
	// MethodClientsInterests 客户兴趣查询
	MethodClientsInterests
)

// 方法的线上名字
const (
	methodNameOnlineScore      = "online_score"
	methodNameClientsInterests = "clients_interests"
)

// ErrUnknownMethod 方法名未注册（内部错误，不进入验证错误文案）
var ErrUnknownMethod = fmt.Errorf("unknown method")

// ParseMethod 解析方法名
func ParseMethod(name string) (Method, error) {
	switch name {
	case methodNameOnlineScore:
		return MethodOnlineScore, nil
	case methodNameClientsInterests:
		return MethodClientsInterests, nil
	}
	return 0, fmt.Errorf("%w <%s>", ErrUnknownMethod, name)
}

// String 返回方法的线上名字
func (m Method) String() string {
	switch m {
	case MethodOnlineScore:
		return methodNameOnlineScore
	case MethodClientsInterests:
		return methodNameClientsInterests
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// EvalEnv 方法执行环境
// Ctx 是调用方提供的可变映射，用于把旁路指标（nclients、has）回传给
// transport/遥测层，不参与控制流
type EvalEnv struct {
	Store   *store.Store
	Ctx     types.Extras
	IsAdmin bool
}

// methodSchema 方法级请求的统一契约：验证参数形态，然后执行业务评估
// Evaluate 只会在 Validate 通过后被调用
type methodSchema interface {
	Validate() (string, bool)
	Evaluate(ctx context.Context, env EvalEnv) (any, error)
}

// newSchema 为方法构造绑定到 arguments 的 schema 实例
// 每次调用都构造全新的字段实例，方法间、请求间无共享可变状态
func (m Method) newSchema(args types.Extras) methodSchema {
	switch m {
	case MethodClientsInterests:
		return newClientsInterestsRequest(args)
	default:
		return newOnlineScoreRequest(args)
	}
}
