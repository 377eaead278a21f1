package fields

import (
	"fmt"

	"katydid-common-scoring/pkg/types"
)

// Checker 值校验器接口 - 定义单一类型的取值规则
// 设计原则：单一职责 - 只校验已经确定存在的值，存在性策略由 Field 负责
//
// 约定：
//   - Check 只在值非 nil 时被调用
//   - 校验失败返回的错误消息必须描述期望形态与实际形态
type Checker interface {
	Check(value any) error
}

// Field 单个字段的验证规则，组合存在性策略（required/nullable）与一个值校验器
//
// 设计说明：
//   - 每个请求构造独立的 Field 实例，验证后的值存放在实例内部
//   - 禁止在 schema 级别共享实例：Validate 会写入 value，共享即数据竞争
//   - Value/String/Extras 只有在 Validate 成功之后才有意义
//
// 验证流程（按顺序执行）：
//  1. required 且字段缺失 → 失败
//  2. required 且值为空且非 nullable → 失败
//  3. 值存在且非 null → 委托给 Checker
//  4. 成功后保存验证过的值
type Field struct {
	required bool
	nullable bool
	checker  Checker

	value   any
	present bool
}

// New 创建字段验证规则
// checker 为 nil 时只执行存在性策略，不做取值校验
func New(checker Checker, required, nullable bool) *Field {
	return &Field{
		required: required,
		nullable: nullable,
		checker:  checker,
	}
}

// Validate 按存在性策略和取值规则验证 raw 中名为 name 的字段
// 成功时将验证过的值保存到 Field 上，供后续读取
func (f *Field) Validate(raw types.Extras, name string) error {
	value, exists := raw.Get(name)

	if !exists {
		if f.required {
			return fmt.Errorf("field <%s> is not available", name)
		}
		return nil
	}

	if f.required && !f.nullable && isEmpty(value) {
		return fmt.Errorf("field <%s> must not be empty", name)
	}

	if value != nil && f.checker != nil {
		if err := f.checker.Check(value); err != nil {
			return fmt.Errorf("field <%s>: %w", name, err)
		}
	}

	f.value = value
	f.present = true
	return nil
}

// Present 字段是否在原始输入中出现（且验证通过）
func (f *Field) Present() bool {
	return f.present
}

// Value 返回验证过的原始值，验证前或字段缺失时为 nil
func (f *Field) Value() any {
	return f.value
}

// String 以字符串形式返回验证过的值，非字符串或缺失时返回空串
func (f *Field) String() string {
	if s, ok := f.value.(string); ok {
		return s
	}
	return ""
}

// Extras 以嵌套映射形式返回验证过的值
// 零值约定：缺失或为 null 时返回空映射，调用方无需判 nil
func (f *Field) Extras() types.Extras {
	switch v := f.value.(type) {
	case types.Extras:
		return v
	case map[string]any:
		return types.Extras(v)
	}
	return types.Extras{}
}

// isEmpty 判断值是否为空：空串、空映射、空切片和 null 视为空
// 不可度量长度的类型（数值、布尔等）一律视为非空
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case types.Extras:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}
