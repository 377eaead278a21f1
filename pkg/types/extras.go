package types

import (
	"encoding/json"
	"math"
	"sort"
)

// Extras 扩展字段类型，用于存储动态的键值对数据
//
// 设计说明：
// - 请求信封的 arguments 字段和请求上下文（request ctx）统一使用本类型
// - 基于 map[string]any，支持存储任意类型的值（JSON 反序列化的天然形态）
// - 类型转换失败时返回零值和 false
// - nil 和空 map 行为一致：读取返回未命中，Len 返回 0
//
// 线程安全：
// - map 类型非线程安全，多协程并发读写需要外部加锁
// - 本框架内每个请求持有独立实例，无跨请求共享
type Extras map[string]any

// NewExtras 创建一个新的扩展字段实例
func NewExtras(capacity int) Extras {
	return make(Extras, capacity)
}

// Set 设置键值对，空键会被忽略
func (e Extras) Set(key string, value any) {
	if len(key) == 0 {
		return
	}
	e[key] = value
}

// Get 获取原始值
func (e Extras) Get(key string) (any, bool) {
	value, exists := e[key]
	return value, exists
}

// Has 检查键是否存在
func (e Extras) Has(key string) bool {
	_, exists := e[key]
	return exists
}

// Len 返回键值对数量
func (e Extras) Len() int {
	return len(e)
}

// Keys 返回所有键（按字典序排序，保证遍历结果可复现）
func (e Extras) Keys() []string {
	if len(e) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString 获取字符串值
func (e Extras) GetString(key string) (string, bool) {
	value, exists := e[key]
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetStringOr 获取字符串值，失败时返回默认值
func (e Extras) GetStringOr(key, defaultValue string) string {
	if v, ok := e.GetString(key); ok {
		return v
	}
	return defaultValue
}

// GetInt 获取整数值，支持各种数值类型的安全转换
func (e Extras) GetInt(key string) (int, bool) {
	value, exists := e[key]
	if !exists {
		return 0, false
	}
	return convertToInt(value)
}

// GetFloat64 获取浮点值
func (e Extras) GetFloat64(key string) (float64, bool) {
	value, exists := e[key]
	if !exists {
		return 0, false
	}
	return convertToFloat64(value)
}

// GetExtras 获取嵌套的 Extras（JSON 对象字段）
func (e Extras) GetExtras(key string) (Extras, bool) {
	v, ok := e[key]
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case Extras:
		return val, true
	case map[string]any:
		return Extras(val), true
	}
	return nil, false
}

// GetSlice 获取切片值（JSON 数组字段）
func (e Extras) GetSlice(key string) ([]any, bool) {
	v, ok := e[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// ToInt 数值类型到 int 的安全转换，带边界检查
// 浮点值只有在无小数部分时才视为整数（JSON 数字反序列化为 float64）
func ToInt(v any) (int, bool) {
	return convertToInt(v)
}

// ToFloat64 数值类型到 float64 的转换
func ToFloat64(v any) (float64, bool) {
	return convertToFloat64(v)
}

func convertToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		if val >= math.MinInt && val <= math.MaxInt {
			return int(val), true
		}
	case int32:
		return int(val), true
	case int16:
		return int(val), true
	case int8:
		return int(val), true
	case uint8:
		return int(val), true
	case uint16:
		return int(val), true
	case uint32:
		if val <= math.MaxInt32 {
			return int(val), true
		}
	case uint:
		if val <= math.MaxInt {
			return int(val), true
		}
	case uint64:
		if val <= math.MaxInt {
			return int(val), true
		}
	case float64:
		if val >= float64(math.MinInt) && val <= float64(math.MaxInt) && val == float64(int(val)) {
			return int(val), true
		}
	case float32:
		if val >= float32(math.MinInt) && val <= float32(math.MaxInt) && val == float32(int(val)) {
			return int(val), true
		}
	case json.Number:
		if i, err := val.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i), true
		}
	}
	return 0, false
}

func convertToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case int16:
		return float64(val), true
	case int8:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint8:
		return float64(val), true
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// IsNumeric 判断一个值是否是数值类型
func IsNumeric(v any) bool {
	_, ok := convertToFloat64(v)
	return ok
}
