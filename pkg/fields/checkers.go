package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"katydid-common-scoring/pkg/types"
)

// 手机号规则常量
const (
	phoneLength     = 11
	phoneFirstDigit = '7'
	dateLayout      = "20060102" // YYYYMMDD
	birthdayMaxDays = 70 * 365.25
)

// StringChecker 字符串字段：值必须是字符串类型
type StringChecker struct{}

func (StringChecker) Check(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("wrong field type: expected <string>, received <%T>", value)
	}
	return nil
}

// ArgumentsChecker 嵌套参数字段：值必须是 JSON 对象
type ArgumentsChecker struct{}

func (ArgumentsChecker) Check(value any) error {
	switch value.(type) {
	case map[string]any, types.Extras:
		return nil
	}
	return fmt.Errorf("invalid arguments type: expected <object>, received <%T>", value)
}

// EmailChecker 邮箱字段：字符串且必须包含 @
type EmailChecker struct{}

func (EmailChecker) Check(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("wrong field type: expected <string>, received <%T>", value)
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("invalid email: email must contain <@>")
	}
	return nil
}

// PhoneChecker 手机号字段：字符串或数值，字符串化后空串视为无值，
// 非空必须是 11 位且以 7 开头
type PhoneChecker struct{}

func (PhoneChecker) Check(value any) error {
	s, err := stringifyPhone(value)
	if err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if len(s) != phoneLength {
		return fmt.Errorf("phone number length must be %d, but got %d", phoneLength, len(s))
	}
	if s[0] != phoneFirstDigit {
		return fmt.Errorf("phone number must start with %c, but starts with %c", phoneFirstDigit, s[0])
	}
	return nil
}

// stringifyPhone 把手机号的合法载体（字符串或数值）转成字符串
// JSON 数值反序列化为 float64，整数值要还原为十进制整数形式
func stringifyPhone(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	f, ok := types.ToFloat64(value)
	if !ok {
		return "", fmt.Errorf("unsupported value for phone number: expected <string | number>, got <%T>", value)
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// DateChecker 日期字段：必须匹配 YYYYMMDD 格式
// MaxDiffDays 大于 0 时额外限制日期距今不得超过该天数
type DateChecker struct {
	MaxDiffDays float64
}

func (c DateChecker) Check(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("wrong field type: expected <string>, received <%T>", value)
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date <%s>: must match format <YYYYMMDD>", s)
	}
	if c.MaxDiffDays > 0 {
		diff := time.Since(parsed).Hours() / 24
		if diff > c.MaxDiffDays {
			return fmt.Errorf("the date is too far in the past: expected max diff %g days", c.MaxDiffDays)
		}
	}
	return nil
}

// Gender 性别取值
type Gender int

// 预定义的性别常量
const (
	GenderUnknown Gender = 0 // 未知
	GenderMale    Gender = 1 // 男
	GenderFemale  Gender = 2 // 女
)

// GenderChecker 性别字段：整数且取值限于预定义的性别常量
type GenderChecker struct{}

func (GenderChecker) Check(value any) error {
	switch value.(type) {
	case string, bool:
		return fmt.Errorf("gender field must be int, received <%T>", value)
	}
	n, ok := types.ToInt(value)
	if !ok {
		return fmt.Errorf("gender field must be int, received <%T>", value)
	}
	if Gender(n) < GenderUnknown || Gender(n) > GenderFemale {
		return fmt.Errorf("gender field must be 0, 1 or 2, but got %d", n)
	}
	return nil
}

// ClientIDsChecker 客户ID列表字段：非空数组，所有元素都是数值
type ClientIDsChecker struct{}

func (ClientIDsChecker) Check(value any) error {
	seq, ok := Sequence(value)
	if !ok {
		return fmt.Errorf("client ids type is incorrect: expected <array of numbers>, got <%T>", value)
	}
	if len(seq) == 0 {
		return fmt.Errorf("client ids type is incorrect: expected non-empty <array of numbers>, got empty array")
	}
	for _, item := range seq {
		if !types.IsNumeric(item) {
			return fmt.Errorf("client ids type is incorrect: expected <array of numbers>, got <%T> for one of the elements", item)
		}
	}
	return nil
}

// Sequence 把 JSON 数组的各种载体统一成 []any
// 验证与取值必须使用同一套载体规则，否则验证通过的值会在执行期丢失
func Sequence(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []int:
		seq := make([]any, len(v))
		for i, n := range v {
			seq[i] = n
		}
		return seq, true
	case []float64:
		seq := make([]any, len(v))
		for i, n := range v {
			seq[i] = n
		}
		return seq, true
	}
	return nil, false
}

// ============================================================================
// 字段构造器（供 schema 注册表使用）
// ============================================================================

// NewString 创建字符串字段
func NewString(required, nullable bool) *Field {
	return New(StringChecker{}, required, nullable)
}

// NewArguments 创建嵌套参数字段
func NewArguments(required, nullable bool) *Field {
	return New(ArgumentsChecker{}, required, nullable)
}

// NewEmail 创建邮箱字段
func NewEmail(required, nullable bool) *Field {
	return New(EmailChecker{}, required, nullable)
}

// NewPhone 创建手机号字段
func NewPhone(required, nullable bool) *Field {
	return New(PhoneChecker{}, required, nullable)
}

// NewDate 创建日期字段
func NewDate(required, nullable bool) *Field {
	return New(DateChecker{}, required, nullable)
}

// NewBirthday 创建生日字段（距今不超过 70 年）
func NewBirthday(required, nullable bool) *Field {
	return New(DateChecker{MaxDiffDays: birthdayMaxDays}, required, nullable)
}

// NewGender 创建性别字段
func NewGender(required, nullable bool) *Field {
	return New(GenderChecker{}, required, nullable)
}

// NewClientIDs 创建客户ID列表字段
func NewClientIDs(required, nullable bool) *Field {
	return New(ClientIDsChecker{}, required, nullable)
}
