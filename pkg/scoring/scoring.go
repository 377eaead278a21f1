package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/types"
)

// 评分权重
const (
	phoneWeight    = 1.5
	emailWeight    = 1.5
	birthdayWeight = 1.5 // 生日和性别同时提供时计入
	nameWeight     = 0.5 // 姓和名同时提供时计入

	// scoreCacheTTL 评分缓存的过期时间
	scoreCacheTTL = time.Hour
)

// 缓存键前缀
const (
	scoreKeyPrefix     = "uid:"
	interestsKeyPrefix = "i:"
)

// GetScore 按提供的参数计算评分
//
// 缓存策略：键由姓名、手机号和生日的 MD5 摘要构成；
// 宽松读取命中直接返回，未命中则现算并以 1 小时过期时间回写。
// 缓存层不可用时静默降级为纯计算，评分请求永不因缓存失败而失败
func GetScore(ctx context.Context, st *store.Store, args types.Extras) float64 {
	key := scoreCacheKey(args)

	if cached, ok := st.CacheGet(ctx, key); ok {
		if score, err := strconv.ParseFloat(cached, 64); err == nil {
			return score
		}
	}

	var score float64
	if hasValue(args, "phone") {
		score += phoneWeight
	}
	if hasValue(args, "email") {
		score += emailWeight
	}
	if hasValue(args, "birthday") && hasValue(args, "gender") {
		score += birthdayWeight
	}
	if hasValue(args, "first_name") && hasValue(args, "last_name") {
		score += nameWeight
	}

	st.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), scoreCacheTTL)
	return score
}

// GetInterests 查询单个客户的兴趣列表
// 用严格读取：缓存不可用是硬错误，由上层映射为内部错误
func GetInterests(ctx context.Context, st *store.Store, clientID string) ([]string, error) {
	raw, err := st.Get(ctx, interestsKeyPrefix+clientID)
	if err != nil {
		return nil, err
	}

	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, err
	}
	return interests, nil
}

// scoreCacheKey 由身份性参数构造缓存键
func scoreCacheKey(args types.Extras) string {
	payload := args.GetStringOr("first_name", "") +
		args.GetStringOr("last_name", "") +
		stringifyPhone(args) +
		args.GetStringOr("birthday", "")
	sum := md5.Sum([]byte(payload))
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}

// stringifyPhone 手机号可能以字符串或数值形式提供
func stringifyPhone(args types.Extras) string {
	if s, ok := args.GetString("phone"); ok {
		return s
	}
	if f, ok := args.GetFloat64("phone"); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return ""
}

// hasValue 参数存在且有实际取值：null、空串和数值零都视为未提供
// 数值零的豁免覆盖 gender=0（未知性别），未知性别不计入评分
func hasValue(args types.Extras, key string) bool {
	v, ok := args.Get(key)
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return len(s) > 0
	}
	if f, isNum := types.ToFloat64(v); isNum {
		return f != 0
	}
	return true
}
