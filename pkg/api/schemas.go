package api

import (
	"context"
	"fmt"
	"strconv"

	"katydid-common-scoring/pkg/fields"
	"katydid-common-scoring/pkg/scoring"
	"katydid-common-scoring/pkg/types"
)

// adminScore 管理员请求的固定评分，不经过评分函数
const adminScore = 42

// scorePairs 在线评分的最小参数组合：至少要有一对同时出现
var scorePairs = [][2]string{
	{"phone", "email"},
	{"first_name", "last_name"},
	{"gender", "birthday"},
}

// onlineScoreRequest 在线评分方法的参数 schema
type onlineScoreRequest struct {
	schema *fields.Schema
}

func newOnlineScoreRequest(args types.Extras) *onlineScoreRequest {
	return &onlineScoreRequest{
		schema: fields.NewSchema(args, []fields.Entry{
			{Name: "first_name", Field: fields.NewString(false, true)},
			{Name: "last_name", Field: fields.NewString(false, true)},
			{Name: "email", Field: fields.NewEmail(false, true)},
			{Name: "phone", Field: fields.NewPhone(false, true)},
			{Name: "birthday", Field: fields.NewBirthday(false, true)},
			{Name: "gender", Field: fields.NewGender(false, true)},
		}),
	}
}

// Validate 先检查最小参数组合，再做逐字段验证
// 组合规则只看原始参数的出现与否，与各字段的 required/nullable 策略无关
func (r *onlineScoreRequest) Validate() (string, bool) {
	raw := r.schema.Raw()
	satisfied := false
	for _, pair := range scorePairs {
		if raw.Has(pair[0]) && raw.Has(pair[1]) {
			satisfied = true
			break
		}
	}
	if !satisfied {
		return fmt.Sprintf(
			"no required argument pair is present: at least one of %v must be provided", scorePairs,
		), false
	}

	return r.schema.Validate()
}

// Evaluate 管理员直接返回固定评分，普通用户委托评分函数
// 旁路指标：ctx["has"] 记录实际提供的参数键集合
func (r *onlineScoreRequest) Evaluate(ctx context.Context, env EvalEnv) (any, error) {
	args := r.schema.Raw()
	var score float64
	if env.IsAdmin {
		score = adminScore
	} else {
		score = scoring.GetScore(ctx, env.Store, args)
	}
	env.Ctx.Set("has", args.Keys())
	return types.Extras{"score": score}, nil
}

// clientsInterestsRequest 客户兴趣查询方法的参数 schema
type clientsInterestsRequest struct {
	schema *fields.Schema
}

func newClientsInterestsRequest(args types.Extras) *clientsInterestsRequest {
	return &clientsInterestsRequest{
		schema: fields.NewSchema(args, []fields.Entry{
			{Name: "client_ids", Field: fields.NewClientIDs(true, false)},
			{Name: "date", Field: fields.NewDate(false, true)},
		}),
	}
}

func (r *clientsInterestsRequest) Validate() (string, bool) {
	return r.schema.Validate()
}

// Evaluate 逐个查询客户兴趣，任一严格读取失败即整体失败
// 旁路指标：ctx["nclients"] 记录请求的客户数量
func (r *clientsInterestsRequest) Evaluate(ctx context.Context, env EvalEnv) (any, error) {
	// 载体归一化必须与 ClientIDsChecker 一致，验证通过的 ID 列表不允许在这里丢失
	raw, _ := r.schema.Raw().Get("client_ids")
	ids, _ := fields.Sequence(raw)

	result := types.NewExtras(len(ids))
	for _, id := range ids {
		interests, err := scoring.GetInterests(ctx, env.Store, formatClientID(id))
		if err != nil {
			return nil, err
		}
		result.Set(formatClientID(id), interests)
	}

	env.Ctx.Set("nclients", len(ids))
	return result, nil
}

// formatClientID 把数值型客户ID还原为十进制字符串键
func formatClientID(id any) string {
	if n, ok := types.ToInt(id); ok {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%v", id)
}
