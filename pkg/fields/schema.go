package fields

import (
	"strings"

	"katydid-common-scoring/pkg/types"
)

// errorSeparator 聚合错误消息的分隔符
const errorSeparator = ", "

// Entry 字段注册表条目：字段名与对应的验证规则
type Entry struct {
	Name  string
	Field *Field
}

// Schema 可验证请求：一份显式有序的字段注册表加上待验证的原始输入
//
// 设计说明：
//   - 字段集合在构造时静态声明，不做运行期反射发现，
//     验证顺序与注册顺序一致，跨运行可复现
//   - 每个字段独立验证，互不影响，整体成功当且仅当全部字段成功
//   - 所有失败消息聚合成一条，永远不抛出
type Schema struct {
	entries []Entry
	raw     types.Extras
}

// NewSchema 创建字段注册表，raw 为 nil 时按空输入处理
func NewSchema(raw types.Extras, entries []Entry) *Schema {
	if raw == nil {
		raw = types.Extras{}
	}
	return &Schema{entries: entries, raw: raw}
}

// Raw 返回待验证的原始输入
func (s *Schema) Raw() types.Extras {
	return s.raw
}

// Field 按名字查找注册的字段规则，未注册返回 nil
func (s *Schema) Field(name string) *Field {
	for _, entry := range s.entries {
		if entry.Name == name {
			return entry.Field
		}
	}
	return nil
}

// Validate 依次验证所有注册字段，聚合全部失败消息
// 返回值：joined 为拼接后的消息（无失败时为空串），ok 表示整体是否通过
func (s *Schema) Validate() (joined string, ok bool) {
	var builder strings.Builder
	failed := 0

	for _, entry := range s.entries {
		if err := entry.Field.Validate(s.raw, entry.Name); err != nil {
			if failed > 0 {
				builder.WriteString(errorSeparator)
			}
			builder.WriteString(err.Error())
			failed++
		}
	}

	return builder.String(), failed == 0
}
